package main

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

func newSkillTreeCmd() *cobra.Command {
	var group string

	cmd := &cobra.Command{
		Use:   "skilltree [skill-name]",
		Short: "Browse the skill tree",
		Long:  "Without arguments lists every skill group. With a skill name shows that skill's detail, matched case-insensitively. The tree is public and needs no key.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runSkillDetail(cmd, args[0])
			}
			return runSkillTree(cmd, group)
		},
	}

	cmd.Flags().StringVarP(&group, "group", "g", "", "List only the skills of this group")

	return cmd
}

func runSkillTree(cmd *cobra.Command, group string) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		skills, err := d.Client.Skills(ctx)
		if err != nil {
			return errors.Wrap(err, "loading skill tree")
		}

		counts := make(map[string]int)
		var groups []string
		var matched []string
		for _, sk := range skills {
			groupName, err := sk.GroupName(ctx)
			if err != nil {
				return errors.Wrap(err, "reading skill group")
			}
			if _, ok := counts[groupName]; !ok {
				groups = append(groups, groupName)
			}
			counts[groupName]++

			if group != "" && strings.EqualFold(groupName, group) {
				name, _ := sk.Name(ctx)
				rank, _ := sk.Rank(ctx)
				matched = append(matched, fmt.Sprintf("%s  (rank %d)", name, rank))
			}
		}

		if group != "" {
			if len(matched) == 0 {
				fmt.Printf("No skills in group %q.\n", group)
				return nil
			}
			fmt.Printf("%s (%d skills):\n", group, len(matched))
			for _, line := range matched {
				fmt.Printf("  %s\n", line)
			}
			return nil
		}

		fmt.Printf("Skill tree (%d skills in %d groups):\n\n", len(skills), len(groups))
		for _, g := range groups {
			fmt.Printf("  %-30s %d skills\n", g, counts[g])
		}
		return nil
	})
}

func runSkillDetail(cmd *cobra.Command, name string) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		sk := d.Client.SkillNamed(name)

		id, err := sk.ID(ctx)
		if err != nil {
			return errors.Wrap(err, "loading skill tree")
		}
		if id == 0 {
			fmt.Printf("No skill named %q.\n", name)
			return nil
		}

		canonical, _ := sk.Name(ctx)
		groupName, _ := sk.GroupName(ctx)
		rank, _ := sk.Rank(ctx)
		primary, _ := sk.PrimaryAttribute(ctx)
		secondary, _ := sk.SecondaryAttribute(ctx)
		description, _ := sk.Description(ctx)

		fmt.Printf("%s (%d)\n", canonical, id)
		fmt.Printf("  Group:      %s\n", groupName)
		fmt.Printf("  Rank:       %d\n", rank)
		if primary != "" {
			fmt.Printf("  Attributes: %s / %s\n", primary, secondary)
		}
		if description != "" {
			fmt.Printf("  %s\n", description)
		}

		reqs, err := sk.RequiredSkills(ctx)
		if err != nil {
			return errors.Wrap(err, "reading required skills")
		}
		if len(reqs) > 0 {
			fmt.Println("  Requires:")
			for _, req := range reqs {
				reqName, err := req.Skill.Name(ctx)
				if err != nil {
					return errors.Wrap(err, "reading required skill")
				}
				if reqName == "" {
					reqName = fmt.Sprintf("type %d", req.TypeID)
				}
				fmt.Printf("    %s  level %d\n", reqName, req.Level)
			}
		}
		return nil
	})
}
