package main

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/podside/evexml"
)

func newKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "key",
		Short: "Show the configured API key's scope",
		Long:  "Resolves the configured key pair and displays its type, access mask, expiry and the characters or corporations it covers.",
		RunE:  runKey,
	}
}

func runKey(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	return withSession(func(d *Deps, session *evexml.Session) error {
		info, err := session.KeyInfo(ctx)
		if err != nil {
			return errors.Wrap(err, "resolving key info")
		}

		fmt.Printf("Key %s\n", session.Credential().KeyID)
		fmt.Printf("  Type:        %s\n", info.Type)
		fmt.Printf("  Access mask: %d\n", info.AccessMask)
		if info.Expires.Equal(evexml.NeverExpires) {
			fmt.Println("  Expires:     never")
		} else {
			fmt.Printf("  Expires:     %s\n", info.Expires.Format(eveTimeDisplay))
			if info.Expired(time.Now()) {
				fmt.Println("  WARNING:     key has expired")
			}
		}

		if len(info.Characters) > 0 {
			fmt.Printf("\nCharacters (%d):\n", len(info.Characters))
			for _, ref := range info.Characters {
				fmt.Printf("  %d  %s  [%s]\n", ref.ID, ref.Name, ref.CorporationName)
			}
		}
		if len(info.Corporations) > 0 {
			fmt.Printf("\nCorporations (%d):\n", len(info.Corporations))
			for _, id := range info.Corporations {
				fmt.Printf("  %d\n", id)
			}
		}
		return nil
	})
}
