package main

import (
	"log"

	"github.com/spf13/cobra"

	"travelguide/internal/config"
)

var resetSchema bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update every table",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if _, err := openDatabase(cfg, resetSchema || cfg.ResetDB); err != nil {
			return err
		}
		log.Println("migrations completed")
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&resetSchema, "reset", false, "Drop every table before migrating")
}
