// Package cli implements the roam command-line interface. Commands are
// thin collaborators: they build the orchestration core from config and
// print what it returns.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roamapp/roam/internal/config"
	"github.com/roamapp/roam/internal/gemini"
)

// configPath is the global --config flag value.
var configPath string

var rootCmd = &cobra.Command{
	Use:   "roam",
	Short: "AI budget-travel planner",
	Long:  "roam generates budget travel itineraries and answers travel questions using the Gemini API.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (overrides ~/.config/roam/config.toml)")
}

func Execute() error {
	return rootCmd.Execute()
}

// loadConfig loads the config honoring the --config flag.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromPath(configPath)
	}
	return config.Load()
}

// newClient builds the shared Gemini client from config. The client is
// constructed once per command and reused for all calls.
func newClient(cfg *config.Config) (*gemini.Client, error) {
	key, err := cfg.ResolveAPIKey()
	if err != nil {
		return nil, fmt.Errorf("AI features are unavailable: %w (set %s or add api-key to the config file)",
			err, config.APIKeyEnvVar)
	}
	return gemini.New(gemini.Config{APIKey: key, Model: cfg.GetModel()})
}
