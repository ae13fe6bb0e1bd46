package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roamapp/roam/internal/chat"
	"github.com/roamapp/roam/internal/itinerary"
	"github.com/roamapp/roam/internal/logging"
	"github.com/roamapp/roam/internal/places"
	"github.com/roamapp/roam/internal/server"
)

var (
	serveAddr    string
	serveCatalog string
	serveVerbose bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the roam HTTP API server",
	Long:  "Serve the plan, chat, and places endpoints over HTTP. Runs without AI endpoints when no API key is configured.",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var extra io.Writer
	if serveVerbose {
		extra = os.Stderr
	}
	cleanup, err := logging.Setup("", extra, logging.ParseLevel(cfg.GetLogLevel()))
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer cleanup()

	catalog, err := loadCatalog()
	if err != nil {
		return err
	}

	opts := server.Options{
		Addr:     cfg.GetListenAddr(),
		Catalog:  catalog,
		Currency: cfg.GetCurrency(),
	}
	if serveAddr != "" {
		opts.Addr = serveAddr
	}

	// The AI endpoints come up only when a key is present; the server
	// still serves places and health without one.
	client, err := newClient(cfg)
	if err == nil {
		opts.Generator = itinerary.NewGenerator(client, itinerary.GeneratorConfig{
			MaxAttempts: cfg.GetMaxAttempts(),
			Currency:    cfg.GetCurrency(),
			CostCeiling: cfg.GetCostCeiling(),
		})
		opts.Sessions = chat.NewStore(client)
	} else {
		fmt.Fprintf(os.Stderr, "✈️ %v\n", err)
	}

	srv := server.New(opts)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	fmt.Printf("✈️ roam API listening on %s\n", opts.Addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func loadCatalog() (*places.Catalog, error) {
	if serveCatalog != "" {
		return places.LoadFile(serveCatalog)
	}
	return places.Load()
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveCatalog, "catalog", "", "path to a places catalog override")
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "also log to stderr")
	rootCmd.AddCommand(serveCmd)
}
