package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roamapp/roam/internal/places"
)

var placesCmd = &cobra.Command{
	Use:   "places",
	Short: "List curated budget destinations",
	Long:  "Print the curated budget destinations and general money-saving travel advice.",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := places.Load()
		if err != nil {
			return err
		}
		for _, p := range catalog.Places {
			fmt.Printf("%s  [%s]\n  %s\n", p.City, p.CostRating, p.Tip)
		}
		fmt.Println("\nGeneral advice:")
		for _, a := range catalog.Advice {
			fmt.Printf("  - %s\n", a)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(placesCmd)
}
