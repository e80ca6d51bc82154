package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUserinfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "userinfo",
		Short: "Show account details and quota",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, closer, err := apiClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closer()

			ui, err := c.GetUserInfo(cmd.Context())
			if err != nil {
				return err
			}

			if flagJSON {
				return printJSON(ui)
			}

			fmt.Printf("Email:    %s\n", ui.Email)
			fmt.Printf("User ID:  %d\n", ui.UserID)
			fmt.Printf("Premium:  %v\n", ui.Premium)
			fmt.Printf("Quota:    %s used of %s\n",
				formatSize(int64(ui.UsedQuota)), formatSize(int64(ui.Quota)))
			fmt.Printf("Region:   %s\n", c.Region())

			return nil
		},
	}
}
