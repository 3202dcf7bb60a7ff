package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"travelguide/internal/config"
)

var purgeTokensCmd = &cobra.Command{
	Use:   "purge-tokens",
	Short: "Delete expired password reset tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		gormDB, err := openDatabase(cfg, false)
		if err != nil {
			return err
		}

		n, err := newServices(cfg, gormDB).Auth.PurgeExpiredTokens(cmd.Context())
		if err != nil {
			return fmt.Errorf("purge tokens: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %d expired reset tokens\n", n)
		return nil
	},
}
