package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/stefanrichterhuber/pcloud-go/pcloud"
)

func newEventsCmd() *cobra.Command {
	var (
		flagFollow bool
		flagSince  uint64
		flagLast   uint64
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show the account change log",
		Long: `Print events from the account change log: file and folder creation,
modification and deletion. With --follow the command long-polls and
keeps printing new events until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, closer, err := apiClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closer()

			if !flagFollow {
				builder := c.Diff().AfterDiffID(flagSince)
				if flagLast > 0 {
					builder = builder.Last(flagLast)
				}

				diff, err := builder.Get(cmd.Context())
				if err != nil {
					return err
				}

				if flagJSON {
					return printJSON(diff)
				}

				for _, e := range diff.Entries {
					printEvent(e.Time.Time, string(e.Event), eventName(&e))
				}

				return nil
			}

			events, errc := c.Diff().
				AfterDiffID(flagSince).
				BlockTimeout(30 * time.Second).
				Stream(cmd.Context())

			for e := range events {
				if flagJSON {
					if err := printJSON(e); err != nil {
						return err
					}

					continue
				}

				printEvent(e.Time.Time, string(e.Event), eventName(&e))
			}

			return <-errc
		},
	}

	cmd.Flags().BoolVarP(&flagFollow, "follow", "f", false, "keep waiting for new events")
	cmd.Flags().Uint64Var(&flagSince, "since", 0, "only events after this diff id")
	cmd.Flags().Uint64Var(&flagLast, "last", 0, "only the newest N events")

	return cmd
}

func printEvent(ts time.Time, event, name string) {
	fmt.Printf("%s  %-14s %s\n", ts.Format("2006-01-02 15:04:05"), event, name)
}

// eventName extracts a printable subject from an event's metadata.
func eventName(e *pcloud.DiffEntry) string {
	if e.Metadata == nil {
		return ""
	}

	if e.Metadata.Path != "" {
		return e.Metadata.Path
	}

	return e.Metadata.Name
}
