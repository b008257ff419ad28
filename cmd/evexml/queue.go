package main

import (
	"fmt"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/podside/evexml"
)

func newQueueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "queue <character-id>",
		Short: "Show a character's skill queue",
		Long:  "Displays the skill currently training and the queued skills behind it. Requires a key covering the character.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueue(cmd, args[0])
		},
	}
}

func runQueue(cmd *cobra.Command, rawID string) error {
	ctx := cmd.Context()

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return errors.Newf("invalid character id %q", rawID)
	}

	return withSession(func(d *Deps, session *evexml.Session) error {
		ch := session.Character(id)

		training, err := ch.SkillInTraining(ctx)
		if err != nil {
			return errors.Wrap(err, "fetching skill in training")
		}
		if training != nil {
			name, err := training.Skill.Name(ctx)
			if err != nil {
				return errors.Wrap(err, "resolving skill tree")
			}
			if name == "" {
				name = fmt.Sprintf("type %d", training.TypeID)
			}
			fmt.Printf("Training: %s to level %d", name, training.ToLevel)
			if !training.EndTime.IsZero() {
				fmt.Printf(" (done %s)", training.EndTime.Format(eveTimeDisplay))
			}
			fmt.Println()
		} else {
			fmt.Println("Nothing in training.")
		}

		queue, err := ch.SkillQueue(ctx)
		if err != nil {
			return errors.Wrap(err, "fetching skill queue")
		}
		if len(queue) == 0 {
			return nil
		}

		fmt.Printf("\nQueue (%d entries):\n", len(queue))
		for _, entry := range queue {
			name, err := entry.Skill.Name(ctx)
			if err != nil {
				return errors.Wrap(err, "resolving skill tree")
			}
			if name == "" {
				name = fmt.Sprintf("type %d", entry.TypeID)
			}
			line := fmt.Sprintf("  %d. %s  level %d", entry.Position+1, name, entry.Level)
			if entry.EndTime.IsZero() {
				line += "  (paused)"
			} else {
				line += "  (done " + entry.EndTime.Format(eveTimeDisplay) + ")"
			}
			fmt.Println(line)
		}
		return nil
	})
}
