package main

import (
	"fmt"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/podside/evexml"
)

func newSheetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sheet <character-id>",
		Short: "Show a character's profile",
		Long:  "Displays a character's public profile, plus wallet, clone and attribute detail when the configured key covers the character.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSheet(cmd, args[0])
		},
	}
}

func runSheet(cmd *cobra.Command, rawID string) error {
	ctx := cmd.Context()

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return errors.Newf("invalid character id %q", rawID)
	}

	return withSession(func(d *Deps, session *evexml.Session) error {
		ch := session.Character(id)

		name, err := ch.Name(ctx)
		if err != nil {
			return errors.Wrap(err, "resolving character")
		}
		if name == "" {
			fmt.Printf("No profile for character %d.\n", id)
			return nil
		}

		race, _ := ch.Race(ctx)
		bloodline, _ := ch.Bloodline(ctx)
		secStatus, _ := ch.SecurityStatus(ctx)
		corpName, _ := ch.CorporationName(ctx)
		corpID, _ := ch.CorporationID(ctx)
		allianceName, _ := ch.AllianceName(ctx)

		fmt.Printf("%s (%d)\n", name, id)
		fmt.Printf("  Race:            %s %s\n", race, bloodline)
		fmt.Printf("  Security status: %.2f\n", secStatus)
		fmt.Printf("  Corporation:     %s (%d)\n", corpName, corpID)
		if allianceName != "" {
			fmt.Printf("  Alliance:        %s\n", allianceName)
		}

		// Authenticated detail is simply absent without a covering key.
		if gender, err := ch.Gender(ctx); err == nil && gender != "" {
			dob, _ := ch.DateOfBirth(ctx)
			fmt.Printf("  Gender:          %s\n", gender)
			if !dob.IsZero() {
				fmt.Printf("  Born:            %s\n", dob.Format(eveTimeDisplay))
			}
		}
		if balance, ok, err := ch.Field(ctx, "balance"); err == nil && ok {
			fmt.Printf("  Balance:         %s ISK\n", balance)
		}
		if sp, err := ch.SkillPoints(ctx); err == nil && sp > 0 {
			fmt.Printf("  Skill points:    %d\n", sp)
		}
		if clone, err := ch.CloneName(ctx); err == nil && clone != "" {
			cloneSP, _ := ch.CloneSkillPoints(ctx)
			fmt.Printf("  Clone:           %s (%d SP)\n", clone, cloneSP)
		}
		if intel, err := ch.Intelligence(ctx); err == nil && intel > 0 {
			mem, _ := ch.Memory(ctx)
			cha, _ := ch.Charisma(ctx)
			per, _ := ch.Perception(ctx)
			wil, _ := ch.Willpower(ctx)
			fmt.Printf("  Attributes:      int %d / mem %d / cha %d / per %d / wil %d\n", intel, mem, cha, per, wil)
		}
		if ship, err := ch.ShipTypeName(ctx); err == nil && ship != "" {
			shipName, _ := ch.ShipName(ctx)
			fmt.Printf("  Ship:            %s %q\n", ship, shipName)
		}
		if loc, err := ch.LastKnownLocation(ctx); err == nil && loc != "" {
			fmt.Printf("  Location:        %s\n", loc)
		}
		return nil
	})
}
