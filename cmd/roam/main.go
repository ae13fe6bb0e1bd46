// Command roam is the AI budget-travel planner CLI.
package main

import (
	"fmt"
	"os"

	"github.com/roamapp/roam/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "✈️ Error: %v\n", err)
		os.Exit(1)
	}
}
