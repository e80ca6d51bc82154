package main

import (
	"fmt"
	"path"

	"github.com/spf13/cobra"

	"github.com/stefanrichterhuber/pcloud-go/pcloud"
)

func newMkdirCmd() *cobra.Command {
	var flagStrict bool

	cmd := &cobra.Command{
		Use:   "mkdir <path>",
		Short: "Create a remote folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, name := path.Split(path.Clean(args[0]))
			if dir == "" {
				dir = "/"
			}

			parent, err := pcloud.FolderPath(dir)
			if err != nil {
				return err
			}

			c, closer, err := apiClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closer()

			meta, err := c.CreateFolder(parent, name).
				IfNotExists(!flagStrict).
				Create(cmd.Context())
			if err != nil {
				return err
			}

			if flagJSON {
				return printJSON(meta)
			}

			statusf("Created folder %s (id %d)\n", args[0], meta.FolderID)

			return nil
		},
	}

	cmd.Flags().BoolVar(&flagStrict, "strict", false, "fail if the folder already exists")

	return cmd
}

func newRmCmd() *cobra.Command {
	var flagRecursive bool

	cmd := &cobra.Command{
		Use:   "rm <path>...",
		Short: "Delete remote files or folders",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closer, err := apiClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closer()

			for _, p := range args {
				if err := removePath(cmd, c, p, flagRecursive); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&flagRecursive, "recursive", "r", false, "delete folders and their contents")

	return cmd
}

// removePath deletes one path, trying it as a file first and as a folder
// when the server reports no such file.
func removePath(cmd *cobra.Command, c *pcloud.Client, p string, recursive bool) error {
	file, err := pcloud.FilePath(p)
	if err != nil {
		return err
	}

	if _, err := c.DeleteFile(cmd.Context(), file); err == nil {
		statusf("Deleted %s\n", p)

		return nil
	}

	folder, err := pcloud.FolderPath(p)
	if err != nil {
		return err
	}

	if recursive {
		res, err := c.DeleteFolder(folder).DeleteRecursive(cmd.Context())
		if err != nil {
			return fmt.Errorf("deleting %s: %w", p, err)
		}

		statusf("Deleted %s (%d files, %d folders)\n", p, res.DeletedFiles, res.DeletedFolders)

		return nil
	}

	if _, err := c.DeleteFolder(folder).DeleteIfEmpty(cmd.Context()); err != nil {
		return fmt.Errorf("deleting %s: %w", p, err)
	}

	statusf("Deleted %s\n", p)

	return nil
}
