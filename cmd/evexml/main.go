// Package main provides the entry point for the evexml CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:     "evexml",
		Short:   "A command line client for the EVE Online XML API",
		Version: version,
	}

	rootCmd.AddCommand(
		newInitCmd(),
		newKeyCmd(),
		newStatusCmd(),
		newCharactersCmd(),
		newSheetCmd(),
		newHistoryCmd(),
		newSkillsCmd(),
		newQueueCmd(),
		newAlliancesCmd(),
		newSkillTreeCmd(),
		newCertTreeCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}
