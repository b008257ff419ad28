package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/podside/evexml"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show account status",
		Long:  "Displays the account's subscription and logon statistics.",
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	return withSession(func(d *Deps, session *evexml.Session) error {
		status, err := session.AccountStatus(ctx)
		if err != nil {
			return errors.Wrap(err, "fetching account status")
		}

		fmt.Println("Account status:")
		if !status.PaidUntil.IsZero() {
			fmt.Printf("  Paid until:    %s\n", status.PaidUntil.Format(eveTimeDisplay))
		}
		if !status.CreateDate.IsZero() {
			fmt.Printf("  Created:       %s\n", status.CreateDate.Format(eveTimeDisplay))
		}
		fmt.Printf("  Logon count:   %d\n", status.LogonCount)
		fmt.Printf("  Time in game:  %dh%02dm\n", status.LogonMinutes/60, status.LogonMinutes%60)
		return nil
	})
}
