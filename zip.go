package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stefanrichterhuber/pcloud-go/pcloud"
)

func newZipCmd() *cobra.Command {
	var flagProgress bool

	cmd := &cobra.Command{
		Use:   "zip <remote-folder> <remote-zip-path>",
		Short: "Pack a remote folder into a zip archive, server-side",
		Long: `Ask the server to pack a folder into a zip archive stored inside the
account. No file content travels through this machine.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closer, err := apiClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closer()

			folder, err := pcloud.FolderPath(args[0])
			if err != nil {
				return err
			}

			// savezip selects sources by id, so resolve the path first.
			meta, err := c.ListFolder(folder).NoFiles(true).Get(cmd.Context())
			if err != nil {
				return fmt.Errorf("resolving %s: %w", args[0], err)
			}

			tree := pcloud.Tree{FolderIDs: []uint64{meta.FolderID}}
			builder := c.SaveZip(tree).ToPath(args[1])

			if !flagProgress {
				zipped, err := builder.Execute(cmd.Context())
				if err != nil {
					return err
				}

				statusf("Created %s (%s)\n", args[1], formatSize(zipped.Size))

				return nil
			}

			progress, errc, wait := builder.ExecuteWithProgress(cmd.Context())

			for p := range progress {
				statusf("\rPacking... %d/%d files", p.Files, p.TotalFiles)
			}

			statusf("\n")

			if err := <-errc; err != nil {
				return err
			}

			zipped, err := wait()
			if err != nil {
				return err
			}

			statusf("Created %s (%s)\n", args[1], formatSize(zipped.Size))

			return nil
		},
	}

	cmd.Flags().BoolVar(&flagProgress, "progress", false, "poll and display packing progress")

	return cmd
}
