// Package itinerary provides structured itinerary generation: the schema
// the model must emit, the decoded domain types, and a retrying
// generator that turns a trip request into a validated itinerary.
package itinerary

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roamapp/roam/internal/gemini"
)

// Day count bounds for a trip request.
const (
	MinDays = 1
	MaxDays = 14
)

// Validation errors.
var (
	ErrEmptyDestination = errors.New("destination cannot be empty")
	ErrInvalidDays      = errors.New("days must be between 1 and 14")
	ErrEmptyInterests   = errors.New("interests cannot be empty")
)

// Request describes one itinerary generation request. Immutable once
// constructed; created per user submission.
type Request struct {
	Destination string
	Days        int
	Interests   string
}

// Validate checks the request fields.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Destination) == "" {
		return ErrEmptyDestination
	}
	if r.Days < MinDays || r.Days > MaxDays {
		return fmt.Errorf("%w (got %d)", ErrInvalidDays, r.Days)
	}
	if strings.TrimSpace(r.Interests) == "" {
		return ErrEmptyInterests
	}
	return nil
}

// Activity is one scheduled entry in a day plan. All three fields are
// mandatory; absence of any one invalidates the entry.
type Activity struct {
	Time          string  `json:"time"`
	Activity      string  `json:"activity"`
	EstimatedCost float64 `json:"estimated_cost"`
}

// Day is one day of the itinerary. Produced only by a successful decode;
// either the full day parses or the whole response is rejected.
type Day struct {
	Day           int        `json:"day"`
	Theme         string     `json:"theme"`
	Plan          []Activity `json:"plan"`
	EfficiencyTip string     `json:"efficiency_tip"`
}

// Cost returns the summed estimated cost of the day's activities.
func (d Day) Cost() float64 {
	total := 0.0
	for _, a := range d.Plan {
		total += a.EstimatedCost
	}
	return total
}

// Itinerary is an ordered sequence of day plans. Day order is
// significant. The caller that received it from Generate owns it
// exclusively.
type Itinerary []Day

// TotalCost returns the summed estimated activity cost of the trip.
func (it Itinerary) TotalCost() float64 {
	total := 0.0
	for _, d := range it {
		total += d.Cost()
	}
	return total
}

// Validate checks the decoded payload against the shape promised by
// ResponseSchema. The schema already constrains generation, but the
// provider may still return malformed data, so the same rules are
// enforced locally.
func (it Itinerary) Validate() error {
	if len(it) == 0 {
		return errors.New("itinerary is empty")
	}
	seen := make(map[int]bool, len(it))
	for i, d := range it {
		if d.Day <= 0 {
			return fmt.Errorf("day %d: day number must be positive (got %d)", i+1, d.Day)
		}
		if seen[d.Day] {
			return fmt.Errorf("day %d appears more than once", d.Day)
		}
		seen[d.Day] = true
		if strings.TrimSpace(d.Theme) == "" {
			return fmt.Errorf("day %d: missing theme", d.Day)
		}
		if len(d.Plan) == 0 {
			return fmt.Errorf("day %d: empty plan", d.Day)
		}
		if strings.TrimSpace(d.EfficiencyTip) == "" {
			return fmt.Errorf("day %d: missing efficiency tip", d.Day)
		}
		for j, a := range d.Plan {
			if strings.TrimSpace(a.Time) == "" {
				return fmt.Errorf("day %d, activity %d: missing time slot", d.Day, j+1)
			}
			if strings.TrimSpace(a.Activity) == "" {
				return fmt.Errorf("day %d, activity %d: missing description", d.Day, j+1)
			}
			if a.EstimatedCost < 0 {
				return fmt.Errorf("day %d, activity %d: negative cost %v", d.Day, j+1, a.EstimatedCost)
			}
		}
	}
	return nil
}

// ResponseSchema is the generation constraint for itineraries: an
// ordered list of day plans, each with nested activities and costs.
// Passed to the provider and mirrored locally by Itinerary.Validate.
var ResponseSchema = &gemini.Schema{
	Type:        gemini.TypeArray,
	Description: "A list of daily itinerary plans.",
	Items: &gemini.Schema{
		Type: gemini.TypeObject,
		Properties: map[string]*gemini.Schema{
			"day": {
				Type:        gemini.TypeInteger,
				Description: "The day number, starting from 1.",
			},
			"theme": {
				Type:        gemini.TypeString,
				Description: "A short, catchy theme for the day (e.g., 'Historical Walking Tour', 'Cheap Eats Day').",
			},
			"plan": {
				Type:        gemini.TypeArray,
				Description: "List of activities for the day.",
				Items: &gemini.Schema{
					Type: gemini.TypeObject,
					Properties: map[string]*gemini.Schema{
						"time": {
							Type:        gemini.TypeString,
							Description: "Time slot (e.g., 'Morning', 'Lunch', 'Afternoon', 'Evening').",
						},
						"activity": {
							Type:        gemini.TypeString,
							Description: "The specific activity or location.",
						},
						"estimated_cost": {
							Type:        gemini.TypeNumber,
							Description: "Estimated cost for the activity (use 0 for free activities).",
						},
					},
					Required: []string{"time", "activity", "estimated_cost"},
				},
			},
			"efficiency_tip": {
				Type:        gemini.TypeString,
				Description: "A practical, budget-focused tip for minimizing travel time or cost, focusing on walking/public transport.",
			},
		},
		Required: []string{"day", "theme", "plan", "efficiency_tip"},
	},
}
