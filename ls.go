package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stefanrichterhuber/pcloud-go/pcloud"
)

func newLsCmd() *cobra.Command {
	var (
		flagRecursive bool
		flagDeleted   bool
	)

	cmd := &cobra.Command{
		Use:   "ls [path]",
		Short: "List a remote folder",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/"
			if len(args) == 1 {
				path = args[0]
			}

			folder, err := pcloud.FolderPath(path)
			if err != nil {
				return err
			}

			c, closer, err := apiClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closer()

			meta, err := c.ListFolder(folder).
				Recursive(flagRecursive).
				ShowDeleted(flagDeleted).
				Get(cmd.Context())
			if err != nil {
				return err
			}

			if flagJSON {
				return printJSON(meta)
			}

			rows := make([][]string, 0, len(meta.Contents))
			for i := range meta.Contents {
				rows = append(rows, lsRows(&meta.Contents[i], "")...)
			}

			printTable(os.Stdout, []string{"TYPE", "SIZE", "MODIFIED", "NAME"}, rows)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&flagRecursive, "recursive", "R", false, "descend into subfolders")
	cmd.Flags().BoolVar(&flagDeleted, "deleted", false, "include restorable deleted entries")

	return cmd
}

// lsRows renders one entry, plus its children when the listing was
// recursive.
func lsRows(m *pcloud.Metadata, prefix string) [][]string {
	kind := "file"
	size := formatSize(m.Size)

	if m.IsFolder {
		kind = "dir"
		size = "-"
	}

	name := prefix + m.Name
	if m.IsDeleted {
		name += " (deleted)"
	}

	rows := [][]string{{kind, size, formatModTime(m.Modified.Time), name}}

	for i := range m.Contents {
		rows = append(rows, lsRows(&m.Contents[i], name+"/")...)
	}

	return rows
}

func newStatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stat <path>",
		Short: "Show metadata of a remote file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := pcloud.FilePath(args[0])
			if err != nil {
				return err
			}

			c, closer, err := apiClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closer()

			meta, err := c.StatFile(file).Get(cmd.Context())
			if err != nil {
				return err
			}

			if flagJSON {
				return printJSON(meta)
			}

			fmt.Printf("Name:      %s\n", meta.Name)
			fmt.Printf("File ID:   %d\n", meta.FileID)
			fmt.Printf("Size:      %s\n", formatSize(meta.Size))
			fmt.Printf("Type:      %s\n", meta.ContentType)
			fmt.Printf("Created:   %s\n", meta.Created.Format("2006-01-02 15:04:05"))
			fmt.Printf("Modified:  %s\n", meta.Modified.Format("2006-01-02 15:04:05"))
			fmt.Printf("Hash:      %d\n", meta.Hash)

			return nil
		},
	}
}
