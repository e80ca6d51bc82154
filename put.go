package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"

	"github.com/stefanrichterhuber/pcloud-go/pcloud"
)

func newPutCmd() *cobra.Command {
	var flagNoRename bool

	cmd := &cobra.Command{
		Use:   "put <local-file>... <remote-folder>",
		Short: "Upload local files into a remote folder",
		Long: `Upload one or more local files into a remote folder in a single
request. By default a name collision stores the file under an
auto-renamed name; with --no-rename colliding files are skipped and
reported instead.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			locals, remote := args[:len(args)-1], args[len(args)-1]

			folder, err := pcloud.FolderPath(remote)
			if err != nil {
				return err
			}

			c, closer, err := apiClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closer()

			builder := c.UploadFileIntoFolder(folder).RenameIfExists(!flagNoRename)

			handles := make([]*os.File, 0, len(locals))
			defer func() {
				for _, f := range handles {
					f.Close()
				}
			}()

			for _, local := range locals {
				f, err := os.Open(local)
				if err != nil {
					return fmt.Errorf("opening %s: %w", local, err)
				}

				handles = append(handles, f)

				// macOS file systems hand out NFD names; remote names are
				// normalized to NFC so the same file is addressable from
				// any platform.
				name := norm.NFC.String(filepath.Base(local))
				builder = builder.WithFile(name, f)
			}

			res, err := builder.Upload(cmd.Context())
			if err != nil {
				return err
			}

			outcomes := res.Outcomes()
			if flagJSON {
				return printJSON(outcomes)
			}

			conflicts := 0

			for _, o := range outcomes {
				if o.Conflicted {
					conflicts++

					fmt.Fprintf(os.Stderr, "skipped %s: name already exists\n", o.Name)

					continue
				}

				statusf("Uploaded %s (id %d)\n", o.Name, o.FileID)
			}

			if conflicts > 0 {
				return fmt.Errorf("%d of %d files skipped", conflicts, len(outcomes))
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&flagNoRename, "no-rename", false, "skip colliding files instead of auto-renaming")

	return cmd
}
