package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/podside/evexml"
)

func newCharactersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "characters",
		Short: "List the account's characters",
		Long:  "Lists the characters on the configured account with their current corporations.",
		RunE:  runCharacters,
	}
}

func runCharacters(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	return withSession(func(d *Deps, session *evexml.Session) error {
		chars, err := session.Characters(ctx)
		if err != nil {
			return errors.Wrap(err, "listing characters")
		}

		if len(chars) == 0 {
			fmt.Println("No characters on this account.")
			return nil
		}

		fmt.Printf("Found %d characters:\n\n", len(chars))
		for _, ch := range chars {
			// Name and corporation are pre-seeded by the listing, so these
			// reads stay local.
			name, err := ch.Name(ctx)
			if err != nil {
				return errors.Wrap(err, "reading character name")
			}
			corp, err := ch.CorporationName(ctx)
			if err != nil {
				return errors.Wrap(err, "reading corporation name")
			}
			fmt.Printf("  %d  %s  [%s]\n", ch.ID(), name, corp)
		}
		return nil
	})
}
