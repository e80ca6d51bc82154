// Command pcloud is a CLI for the pCloud file storage API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/stefanrichterhuber/pcloud-go/internal/config"
	"github.com/stefanrichterhuber/pcloud-go/internal/tokenfile"
	"github.com/stefanrichterhuber/pcloud-go/pcloud"
)

// version is set at build time via ldflags.
var version = "dev"

// Global persistent flags, bound in newRootCmd().
var (
	flagConfigPath string
	flagHost       string
	flagJSON       bool
	flagVerbose    bool
	flagQuiet      bool
)

// resolvedCfg holds the effective configuration loaded by PersistentPreRunE.
var resolvedCfg *config.Resolved

// httpClientTimeout bounds every API request so a hung connection cannot
// block a CLI command indefinitely.
const httpClientTimeout = 60 * time.Second

func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: httpClientTimeout}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pcloud",
		Short:   "pCloud CLI client",
		Long:    "A CLI for browsing, uploading and downloading files stored in pCloud.",
		Version: version,
		// Silence cobra's default error/usage printing, main() handles it.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			resolved, err := config.Resolve(flagConfigPath)
			if err != nil {
				return err
			}

			if flagHost != "" {
				resolved.Host = flagHost
			}

			resolvedCfg = resolved

			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "config file path")
	cmd.PersistentFlags().StringVar(&flagHost, "host", "", "API host (default https://api.pcloud.com, EU: https://eapi.pcloud.com)")
	cmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output in JSON format")
	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress informational output")

	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newLogoutCmd())
	cmd.AddCommand(newUserinfoCmd())
	cmd.AddCommand(newLsCmd())
	cmd.AddCommand(newStatCmd())
	cmd.AddCommand(newMkdirCmd())
	cmd.AddCommand(newRmCmd())
	cmd.AddCommand(newPutCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newChecksumCmd())
	cmd.AddCommand(newEventsCmd())
	cmd.AddCommand(newZipCmd())

	return cmd
}

// buildLogger creates an slog.Logger configured by the resolved config and
// CLI flags. Config-file log level is the baseline; --verbose and --quiet
// override it because CLI flags always win.
func buildLogger() *slog.Logger {
	level := slog.LevelWarn

	if resolvedCfg != nil {
		switch resolvedCfg.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "error":
			level = slog.LevelError
		}
	}

	if flagVerbose {
		level = slog.LevelDebug
	}

	if flagQuiet {
		level = slog.LevelError
	}

	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:   level,
		NoColor: !isatty.IsTerminal(os.Stderr.Fd()),
	}))
}

// apiClient builds a client from the stored OAuth token when one exists,
// falling back to username/password from config or environment. The
// returned closer must run before the process exits so password sessions
// are logged out.
func apiClient(ctx context.Context) (*pcloud.Client, func(), error) {
	opts := []pcloud.Option{
		pcloud.WithLogger(buildLogger()),
		pcloud.WithHTTPClient(defaultHTTPClient()),
		pcloud.WithUserAgent("pcloud-cli/" + version),
	}

	tokenPath, err := config.TokenPath()
	if err != nil {
		return nil, nil, err
	}

	tf, err := tokenfile.Load(tokenPath)
	if err != nil {
		return nil, nil, err
	}

	if tf != nil {
		host := tf.Host
		if flagHost != "" {
			host = flagHost
		}

		c, err := pcloud.NewWithOAuth(host, tf.Token.AccessToken, opts...)
		if err != nil {
			return nil, nil, err
		}

		return c, func() { _ = c.Close() }, nil
	}

	if resolvedCfg.Username == "" || resolvedCfg.Password == "" {
		return nil, nil, fmt.Errorf("no credentials: run 'pcloud login', or set %s and %s",
			config.EnvUser, config.EnvPassword)
	}

	c, err := pcloud.NewWithUsernameAndPassword(ctx, resolvedCfg.Host,
		resolvedCfg.Username, resolvedCfg.Password, opts...)
	if err != nil {
		return nil, nil, err
	}

	return c, func() { _ = c.Close() }, nil
}
