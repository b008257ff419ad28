package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/podside/evexml"
	"github.com/podside/evexml/internal/config"
)

func newInitCmd() *cobra.Command {
	var (
		keyID string
		vCode string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize evexml configuration",
		Long:  "Creates a .evexml directory with default configuration. When a key pair is given it is validated against the API and stored.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, keyID, vCode)
		},
	}

	cmd.Flags().StringVarP(&keyID, "key-id", "k", "", "API key id")
	cmd.Flags().StringVar(&vCode, "vcode", "", "API key verification code")

	return cmd
}

func runInit(cmd *cobra.Command, keyID, vCode string) error {
	ctx := cmd.Context()

	cwd, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "getting current directory")
	}

	if config.Exists(cwd) {
		return errors.Newf("evexml already initialized in %s", cwd)
	}

	if err := config.WriteDefault(cwd); err != nil {
		return errors.Wrap(err, "writing default config")
	}
	fmt.Printf("Created %s\n", config.ConfigFilePath(cwd))

	if keyID == "" && vCode == "" {
		fmt.Println("Add your key pair to the config file (or EVEXML_KEY_ID / EVEXML_VCODE) to unlock account data.")
		return nil
	}
	if keyID == "" || vCode == "" {
		return errors.New("--key-id and --vcode must be given together")
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return errors.Wrap(err, "loading config")
	}
	cfg.API.KeyID = keyID
	cfg.API.VCode = vCode

	// Validate the pair before storing it.
	session := evexml.NewSession(keyID, vCode,
		evexml.WithBaseURL(cfg.API.BaseURL),
		evexml.WithTimeout(cfg.API.Timeout()),
	)
	info, err := session.KeyInfo(ctx)
	if err != nil {
		return errors.Wrap(err, "validating key pair")
	}

	if err := config.Write(cwd, cfg); err != nil {
		return errors.Wrap(err, "storing key pair")
	}

	fmt.Printf("Key validated: %s key, access mask %d\n", info.Type, info.AccessMask)
	fmt.Println("evexml initialized successfully!")
	return nil
}
