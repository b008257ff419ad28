package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

func newCertTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "certtree [class-name]",
		Short: "Browse the certificate tree",
		Long:  "Without arguments lists certificate classes per category. With a class name shows the grades of that class, matched case-insensitively. The tree is public and needs no key.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runCertDetail(cmd, args[0])
			}
			return runCertTree(cmd)
		},
	}
}

func runCertTree(cmd *cobra.Command) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		certs, err := d.Client.Certificates(ctx)
		if err != nil {
			return errors.Wrap(err, "loading certificate tree")
		}

		// One line per class; grades collapse into a count.
		type class struct {
			category string
			grades   int
		}
		classes := make(map[string]*class)
		var order []string
		for _, cert := range certs {
			name, err := cert.Name(ctx)
			if err != nil {
				return errors.Wrap(err, "reading certificate")
			}
			if name == "" {
				continue
			}
			if _, ok := classes[name]; !ok {
				category, _ := cert.CategoryName(ctx)
				classes[name] = &class{category: category}
				order = append(order, name)
			}
			classes[name].grades++
		}

		fmt.Printf("Certificate classes (%d):\n\n", len(order))
		for _, name := range order {
			c := classes[name]
			fmt.Printf("  %-35s %s (%d grades)\n", name, c.category, c.grades)
		}
		return nil
	})
}

func runCertDetail(cmd *cobra.Command, name string) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		cert := d.Client.CertificateNamed(name)

		id, err := cert.ID(ctx)
		if err != nil {
			return errors.Wrap(err, "loading certificate tree")
		}
		if id == 0 {
			fmt.Printf("No certificate class named %q.\n", name)
			return nil
		}

		canonical, _ := cert.Name(ctx)
		category, _ := cert.CategoryName(ctx)
		grade, _ := cert.Grade(ctx)
		description, _ := cert.Description(ctx)

		fmt.Printf("%s\n", canonical)
		fmt.Printf("  Category: %s\n", category)
		fmt.Printf("  Lowest grade: %d (id %d)\n", grade, id)
		if description != "" {
			fmt.Printf("  %s\n", description)
		}
		return nil
	})
}
