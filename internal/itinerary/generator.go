package itinerary

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/roamapp/roam/internal/gemini"
)

// Retry defaults for the generator.
const (
	DefaultMaxAttempts = 5
	DefaultBaseDelay   = time.Second
)

// TextGenerator is the single-attempt provider call the generator
// retries. *gemini.Client satisfies it.
type TextGenerator interface {
	GenerateText(ctx context.Context, req gemini.GenerateRequest) (string, error)
}

// ExhaustionError is returned when every attempt failed. It carries the
// most recent underlying error for diagnostics; the caller receives no
// partial itinerary.
type ExhaustionError struct {
	Attempts int
	LastErr  error
}

func (e *ExhaustionError) Error() string {
	return fmt.Sprintf("itinerary generation failed after %d attempts: %v", e.Attempts, e.LastErr)
}

func (e *ExhaustionError) Unwrap() error { return e.LastErr }

// GeneratorConfig tunes the retry loop and the prompt.
type GeneratorConfig struct {
	// MaxAttempts bounds the retry loop (default 5).
	MaxAttempts int
	// BaseDelay is the backoff base; the delay before attempt i+1 is
	// BaseDelay * 2^i (default 1s). No jitter.
	BaseDelay time.Duration
	// Currency is the unit cost estimates are requested in (e.g. "INR").
	Currency string
	// CostCeiling is the per-activity budget ceiling in Currency units.
	CostCeiling int
}

// Generator turns a Request into a validated Itinerary, tolerating
// transient provider failures. Safe for concurrent use; per-call retry
// state is local to Generate.
type Generator struct {
	client      TextGenerator
	maxAttempts int
	baseDelay   time.Duration
	currency    string
	costCeiling int

	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

// NewGenerator creates a Generator backed by the given client.
func NewGenerator(client TextGenerator, cfg GeneratorConfig) *Generator {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultBaseDelay
	}
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	if cfg.CostCeiling <= 0 {
		cfg.CostCeiling = 500
	}
	return &Generator{
		client:      client,
		maxAttempts: cfg.MaxAttempts,
		baseDelay:   cfg.BaseDelay,
		currency:    cfg.Currency,
		costCeiling: cfg.CostCeiling,
		sleep:       time.Sleep,
	}
}

// Generate returns either a fully valid Itinerary or an error; never a
// partially populated result. Transport errors and malformed payloads
// are retried identically with exponential backoff; only request
// validation errors and exhaustion escape.
func (g *Generator) Generate(ctx context.Context, req Request) (Itinerary, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	// Prompt content is deterministic given the request, so it is
	// composed once and re-sent verbatim on every attempt.
	genReq := gemini.GenerateRequest{
		SystemInstruction: g.systemInstruction(),
		UserText:          userQuery(req),
		ResponseSchema:    ResponseSchema,
	}

	var lastErr error
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		if attempt > 0 {
			// Backoff applies only between attempts.
			delay := g.baseDelay * time.Duration(1<<(attempt-1))
			slog.Debug("retrying itinerary generation",
				"attempt", attempt+1,
				"delay", delay,
				"last_error", lastErr)
			g.sleep(delay)
		}

		text, err := g.client.GenerateText(ctx, genReq)
		if err != nil {
			lastErr = fmt.Errorf("provider call (attempt %d): %w", attempt+1, err)
			continue
		}

		var it Itinerary
		if err := json.Unmarshal([]byte(text), &it); err != nil {
			// A malformed payload is retried exactly like a transport
			// failure.
			lastErr = fmt.Errorf("decode response (attempt %d): %w", attempt+1, err)
			continue
		}
		if err := it.Validate(); err != nil {
			lastErr = fmt.Errorf("invalid itinerary (attempt %d): %w", attempt+1, err)
			continue
		}

		slog.Info("itinerary generated",
			"destination", req.Destination,
			"days", len(it),
			"retries", attempt)
		return it, nil
	}

	return nil, &ExhaustionError{Attempts: g.maxAttempts, LastErr: lastErr}
}

// systemInstruction is the fixed budget-travel persona, parameterized
// only by the configured currency and cost ceiling.
func (g *Generator) systemInstruction() string {
	return fmt.Sprintf(
		"You are a World-Class Budget Student Travel Expert and Route Planner. "+
			"Your goal is to create a detailed, efficient, and fun travel plan for a student with limited funds. "+
			"All suggestions MUST prioritize free or low-cost activities (under %d %s). "+
			"You must return the response as a valid JSON object matching the provided schema. "+
			"Provide specific cost estimates for each activity in %s. "+
			"For the 'efficiency_tip', focus on grouping nearby locations to minimize travel or suggesting budget public transport passes.",
		g.costCeiling, g.currency, g.currency)
}

// userQuery interpolates the request into the fixed query template.
func userQuery(req Request) string {
	return fmt.Sprintf(
		"Generate a %d-day travel itinerary for a trip to %s. "+
			"The total budget is restricted (focus on lowest costs). "+
			"The student is interested in: %s. "+
			"Ensure the plan is efficient to follow, grouping activities by location.",
		req.Days, req.Destination, req.Interests)
}
