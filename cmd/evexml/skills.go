package main

import (
	"fmt"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/podside/evexml"
)

func newSkillsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "skills <character-id>",
		Short: "List a character's trained skills",
		Long:  "Lists a character's trained skills grouped by skill group. Requires a key covering the character.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSkills(cmd, args[0])
		},
	}
}

func runSkills(cmd *cobra.Command, rawID string) error {
	ctx := cmd.Context()

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return errors.Newf("invalid character id %q", rawID)
	}

	return withSession(func(d *Deps, session *evexml.Session) error {
		ch := session.Character(id)
		trained, err := ch.Skills(ctx)
		if err != nil {
			return errors.Wrap(err, "resolving trained skills")
		}
		if len(trained) == 0 {
			fmt.Println("No skill data (the configured key may not cover this character).")
			return nil
		}

		// Group names come from the skill tree, one collection fetch shared
		// by all rows.
		byGroup := make(map[string][]string)
		var groups []string
		total := int64(0)
		for _, ts := range trained {
			name, err := ts.Skill.Name(ctx)
			if err != nil {
				return errors.Wrap(err, "resolving skill tree")
			}
			if name == "" {
				name = fmt.Sprintf("type %d", ts.TypeID)
			}
			group, _ := ts.Skill.GroupName(ctx)
			if group == "" {
				group = "Unknown"
			}
			if _, ok := byGroup[group]; !ok {
				groups = append(groups, group)
			}
			byGroup[group] = append(byGroup[group], fmt.Sprintf("%s  level %d  (%d SP)", name, ts.Level, ts.Points))
			total += ts.Points
		}

		fmt.Printf("Trained skills (%d, %d SP total):\n", len(trained), total)
		for _, group := range groups {
			fmt.Printf("\n%s:\n", group)
			for _, line := range byGroup[group] {
				fmt.Printf("  %s\n", line)
			}
		}
		return nil
	})
}
