package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arnavshah/seat-planner-go/pkg/auth"
	"github.com/arnavshah/seat-planner-go/pkg/config"
)

func newKeygenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen <userID>",
		Short: "Generate an HMAC signed API key using API_MASTER_SECRET",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Auth.MasterSecret == "" {
				return errors.New("API_MASTER_SECRET not found in .env")
			}

			userID := args[0]
			key := auth.New(cfg.Auth).GenerateHMACKey(userID)
			fmt.Fprintf(cmd.OutOrStdout(), "Generated Key for %s:\n%s\n", userID, key)
			return nil
		},
	}
}
