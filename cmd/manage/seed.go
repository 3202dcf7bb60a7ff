package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"travelguide/internal/config"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load continents, countries, cities, attractions and demo content",
	Long: `Persists the static catalogue through the fallback reconciler, then adds the
administrator account, two public routes and the sample articles. Rows that
already exist are left alone, so the command can be re-run safely.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		gormDB, err := openDatabase(cfg, false)
		if err != nil {
			return err
		}

		report, err := newServices(cfg, gormDB).Seed.Seed(cmd.Context())
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "continents:  %d\n", report.Continents)
		fmt.Fprintf(out, "countries:   %d\n", report.Countries)
		fmt.Fprintf(out, "cities:      %d\n", report.Cities)
		fmt.Fprintf(out, "attractions: %d\n", report.Attractions)
		fmt.Fprintf(out, "users:       %d\n", report.Users)
		fmt.Fprintf(out, "routes:      %d\n", report.Routes)
		fmt.Fprintf(out, "articles:    %d\n", report.Articles)
		return nil
	},
}
