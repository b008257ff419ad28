package main

import (
	"fmt"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/podside/evexml"
)

func newHistoryCmd() *cobra.Command {
	var (
		limit     int
		withNames bool
	)

	cmd := &cobra.Command{
		Use:   "history <character-id>",
		Short: "Show a character's employment history",
		Long:  "Displays a character's corporation history with inferred employment intervals, most recent first.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, args[0], limit, withNames)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultHistoryLimit, "Maximum number of records to display")
	cmd.Flags().BoolVar(&withNames, "names", false, "Resolve corporation names (one API call per corporation)")

	return cmd
}

func runHistory(cmd *cobra.Command, rawID string, limit int, withNames bool) error {
	ctx := cmd.Context()

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return errors.Newf("invalid character id %q", rawID)
	}

	return withSession(func(d *Deps, session *evexml.Session) error {
		ch := session.Character(id)
		corps, err := ch.Corporations(ctx)
		if err != nil {
			return errors.Wrap(err, "resolving employment history")
		}

		if len(corps) == 0 {
			fmt.Println("No employment history.")
			return nil
		}
		if limit > 0 && len(corps) > limit {
			corps = corps[:limit]
		}

		fmt.Printf("Employment history (%d records):\n\n", len(corps))
		for _, corp := range corps {
			start, err := corp.StartDate(ctx)
			if err != nil {
				return errors.Wrap(err, "reading start date")
			}
			end, err := corp.EndDate(ctx)
			if err != nil {
				return errors.Wrap(err, "reading end date")
			}

			span := start.Format(eveTimeDisplay) + " - "
			if end.IsZero() {
				span += "present"
			} else {
				span += end.Format(eveTimeDisplay)
			}

			label := strconv.FormatInt(corp.ID(), 10)
			if withNames {
				name, err := corp.Name(ctx)
				if err != nil {
					return errors.Wrapf(err, "resolving corporation %d", corp.ID())
				}
				if name != "" {
					label = fmt.Sprintf("%s (%d)", name, corp.ID())
				}
			}
			fmt.Printf("  %s  %s\n", span, label)
		}
		return nil
	})
}
