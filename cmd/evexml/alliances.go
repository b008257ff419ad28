package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

func newAlliancesCmd() *cobra.Command {
	var (
		limit  int
		search string
	)

	cmd := &cobra.Command{
		Use:   "alliances",
		Short: "List the alliance directory",
		Long:  "Lists the alliance directory, largest first. The directory is public and needs no key.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlliances(cmd, limit, search)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultAllianceLimit, "Maximum number of alliances to display")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Filter by name or ticker substring")

	return cmd
}

func runAlliances(cmd *cobra.Command, limit int, search string) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		alliances, err := d.Client.Alliances(ctx)
		if err != nil {
			return errors.Wrap(err, "loading alliance directory")
		}

		type row struct {
			id      int64
			name    string
			ticker  string
			members int64
		}
		// Directory fields live in the shared collection cache, so these
		// reads make no further calls.
		rows := make([]row, 0, len(alliances))
		for _, a := range alliances {
			name, err := a.Name(ctx)
			if err != nil {
				return errors.Wrap(err, "reading alliance")
			}
			ticker, _ := a.ShortName(ctx)
			if search != "" &&
				!strings.Contains(strings.ToLower(name), strings.ToLower(search)) &&
				!strings.EqualFold(ticker, search) {
				continue
			}
			members, _ := a.MemberCount(ctx)
			id, _ := a.ID(ctx)
			rows = append(rows, row{id: id, name: name, ticker: ticker, members: members})
		}

		if len(rows) == 0 {
			fmt.Println("No alliances found.")
			return nil
		}

		// Largest alliances first reads better in a terminal.
		sort.Slice(rows, func(i, j int) bool { return rows[i].members > rows[j].members })
		if limit > 0 && len(rows) > limit {
			rows = rows[:limit]
		}

		fmt.Printf("Alliances (%d shown):\n\n", len(rows))
		for _, r := range rows {
			fmt.Printf("  %-8d <%s>  %s  (%d members)\n", r.id, r.ticker, r.name, r.members)
		}
		return nil
	})
}
