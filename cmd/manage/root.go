package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"travelguide/internal/app"
	"travelguide/internal/cache"
	"travelguide/internal/config"
	"travelguide/internal/db"
	"travelguide/internal/mail"
)

var rootCmd = &cobra.Command{
	Use:   "manage",
	Short: "Administrative tasks for the travel guide database",
	Long: `Creates the schema, loads the static catalogue and demo content, and
removes expired password reset tokens. Settings come from the same
environment variables (and .env file) as the server.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(purgeTokensCmd)
}

// openDatabase connects and brings the schema up to date.
func openDatabase(cfg *config.Config, reset bool) (*gorm.DB, error) {
	gormDB, err := db.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("database init: %w", err)
	}
	if err := db.Migrate(gormDB, reset); err != nil {
		return nil, err
	}
	return gormDB, nil
}

func newServices(cfg *config.Config, gormDB *gorm.DB) *app.Services {
	return app.NewServices(cfg, gormDB, cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB), mail.New(cfg.EmailJS))
}
