package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stefanrichterhuber/pcloud-go/pcloud"
)

func newChecksumCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checksum <remote-file>...",
		Short: "Show server-side checksums of remote files",
		Long: `Print the digests the server stores for each file. Which algorithms
appear depends on the API region: US accounts report SHA-1 and MD5, EU
accounts SHA-1 and SHA-256.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closer, err := apiClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closer()

			for _, remote := range args {
				file, err := pcloud.FilePath(remote)
				if err != nil {
					return err
				}

				sums, err := c.ChecksumFile(file).Get(cmd.Context())
				if err != nil {
					return fmt.Errorf("%s: %w", remote, err)
				}

				if flagJSON {
					if err := printJSON(sums.Checksums()); err != nil {
						return err
					}

					continue
				}

				for _, algo := range pcloud.ChecksumAlgorithms(c.Region()) {
					if sum, ok := sums.Checksums()[algo]; ok {
						fmt.Printf("%s  %s  %s\n", algo, sum, remote)
					}
				}
			}

			return nil
		},
	}
}
