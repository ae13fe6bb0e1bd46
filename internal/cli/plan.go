package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roamapp/roam/internal/itinerary"
)

var (
	planDestination string
	planDays        int
	planInterests   string
	planJSON        bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate a budget itinerary",
	Long:  "Generate a structured, budget-focused day-by-day itinerary for a destination.",
	RunE:  runPlan,
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	gen := itinerary.NewGenerator(client, itinerary.GeneratorConfig{
		MaxAttempts: cfg.GetMaxAttempts(),
		Currency:    cfg.GetCurrency(),
		CostCeiling: cfg.GetCostCeiling(),
	})

	fmt.Fprintln(os.Stderr, "✈️ Generating your itinerary... this may take a moment.")
	it, err := gen.Generate(cmd.Context(), itinerary.Request{
		Destination: planDestination,
		Days:        planDays,
		Interests:   planInterests,
	})
	if err != nil {
		return err
	}

	if planJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(it)
	}

	printItinerary(it, cfg.GetCurrency())
	return nil
}

func printItinerary(it itinerary.Itinerary, currency string) {
	fmt.Printf("Total estimated activity cost: %.0f %s\n", it.TotalCost(), currency)
	fmt.Println("(excludes flights, accommodation, and general food)")
	for _, day := range it {
		fmt.Printf("\nDay %d: %s (cost: %.0f %s)\n", day.Day, day.Theme, day.Cost(), currency)
		for _, a := range day.Plan {
			fmt.Printf("  %-10s %-50s %.0f %s\n", a.Time, a.Activity, a.EstimatedCost, currency)
		}
		fmt.Printf("  Tip: %s\n", day.EfficiencyTip)
	}
}

func init() {
	planCmd.Flags().StringVarP(&planDestination, "destination", "d", "", "destination city and country (e.g. \"Goa, India\")")
	planCmd.Flags().IntVarP(&planDays, "days", "n", 3, "number of days (1-14)")
	planCmd.Flags().StringVarP(&planInterests, "interests", "i", "", "main interests (e.g. \"history, cheap street food\")")
	planCmd.MarkFlagRequired("destination")
	planCmd.MarkFlagRequired("interests")
	planCmd.Flags().BoolVar(&planJSON, "json", false, "print the raw itinerary as JSON")
	rootCmd.AddCommand(planCmd)
}
