package main

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/stefanrichterhuber/pcloud-go/pcloud"
)

// getConcurrency caps parallel downloads.
const getConcurrency = 4

func newGetCmd() *cobra.Command {
	var (
		flagOutDir string
		flagVerify bool
	)

	cmd := &cobra.Command{
		Use:   "get <remote-file>...",
		Short: "Download remote files",
		Long: `Download one or more remote files into the current directory (or
--out). With --verify the downloaded bytes are hashed locally and
compared against the server's checksums.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closer, err := apiClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closer()

			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(getConcurrency)

			for _, remote := range args {
				remote := remote
				g.Go(func() error {
					return downloadOne(ctx, c, remote, flagOutDir, flagVerify)
				})
			}

			return g.Wait()
		},
	}

	cmd.Flags().StringVarP(&flagOutDir, "out", "o", ".", "output directory")
	cmd.Flags().BoolVar(&flagVerify, "verify", false, "verify checksums after download")

	return cmd
}

func downloadOne(ctx context.Context, c *pcloud.Client, remote, outDir string, verify bool) error {
	file, err := pcloud.FilePath(remote)
	if err != nil {
		return err
	}

	local := filepath.Join(outDir, path.Base(remote))

	out, err := os.Create(local)
	if err != nil {
		return fmt.Errorf("creating %s: %w", local, err)
	}
	defer out.Close()

	hasher := sha1.New()

	n, err := c.WriteFileTo(ctx, file, io.MultiWriter(out, hasher))
	if err != nil {
		os.Remove(local)

		return fmt.Errorf("downloading %s: %w", remote, err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", local, err)
	}

	if verify {
		sums, err := c.ChecksumFile(file).Get(ctx)
		if err != nil {
			return fmt.Errorf("fetching checksums for %s: %w", remote, err)
		}

		computed := pcloud.ChecksumSet{
			pcloud.AlgoSHA1: hex.EncodeToString(hasher.Sum(nil)),
		}

		if err := pcloud.ValidateChecksum(sums.Checksums(), computed); err != nil {
			return fmt.Errorf("%s: %w", remote, err)
		}
	}

	statusf("Downloaded %s (%s)\n", local, formatSize(n))

	return nil
}
