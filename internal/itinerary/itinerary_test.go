package itinerary

import (
	"encoding/json"
	"errors"
	"testing"
)

func validDay(n int) Day {
	return Day{
		Day:   n,
		Theme: "Cheap Eats Day",
		Plan: []Activity{
			{Time: "Morning", Activity: "Beach walk", EstimatedCost: 0},
			{Time: "Lunch", Activity: "Street food", EstimatedCost: 150},
		},
		EfficiencyTip: "Group nearby spots and walk between them.",
	}
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{"valid", Request{"Goa, India", 3, "beaches, food"}, nil},
		{"empty destination", Request{"", 3, "food"}, ErrEmptyDestination},
		{"whitespace destination", Request{"   ", 3, "food"}, ErrEmptyDestination},
		{"zero days", Request{"Goa", 0, "food"}, ErrInvalidDays},
		{"too many days", Request{"Goa", 15, "food"}, ErrInvalidDays},
		{"max days ok", Request{"Goa", 14, "food"}, nil},
		{"empty interests", Request{"Goa", 3, ""}, ErrEmptyInterests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestItineraryValidate(t *testing.T) {
	tests := []struct {
		name    string
		it      Itinerary
		wantErr bool
	}{
		{"valid", Itinerary{validDay(1), validDay(2)}, false},
		{"empty", Itinerary{}, true},
		{"nil", nil, true},
		{"zero day number", Itinerary{{Day: 0, Theme: "t", Plan: validDay(1).Plan, EfficiencyTip: "tip"}}, true},
		{"duplicate day", Itinerary{validDay(1), validDay(1)}, true},
		{"missing theme", func() Itinerary { d := validDay(1); d.Theme = ""; return Itinerary{d} }(), true},
		{"empty plan", func() Itinerary { d := validDay(1); d.Plan = nil; return Itinerary{d} }(), true},
		{"missing tip", func() Itinerary { d := validDay(1); d.EfficiencyTip = " "; return Itinerary{d} }(), true},
		{"missing time slot", func() Itinerary { d := validDay(1); d.Plan[0].Time = ""; return Itinerary{d} }(), true},
		{"missing activity", func() Itinerary { d := validDay(1); d.Plan[1].Activity = ""; return Itinerary{d} }(), true},
		{"negative cost", func() Itinerary { d := validDay(1); d.Plan[0].EstimatedCost = -1; return Itinerary{d} }(), true},
		{"free activity ok", func() Itinerary { d := validDay(1); d.Plan[0].EstimatedCost = 0; return Itinerary{d} }(), false},
		{"non-contiguous days ok", Itinerary{validDay(2), validDay(5)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.it.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecodeRejectsWrongTypes(t *testing.T) {
	// estimated_cost as a string must fail the decode, not silently
	// produce a zero-cost entry.
	payload := `[{"day":1,"theme":"t","plan":[{"time":"Morning","activity":"a","estimated_cost":"free"}],"efficiency_tip":"tip"}]`
	var it Itinerary
	if err := json.Unmarshal([]byte(payload), &it); err == nil {
		t.Error("expected decode error for string cost")
	}
}

func TestCostTotals(t *testing.T) {
	it := Itinerary{validDay(1), validDay(2)}

	if got := it[0].Cost(); got != 150 {
		t.Errorf("Day.Cost() = %v, want 150", got)
	}
	if got := it.TotalCost(); got != 300 {
		t.Errorf("TotalCost() = %v, want 300", got)
	}
	if got := Itinerary(nil).TotalCost(); got != 0 {
		t.Errorf("TotalCost() on nil = %v, want 0", got)
	}
}

func TestResponseSchemaShape(t *testing.T) {
	b, err := json.Marshal(ResponseSchema)
	if err != nil {
		t.Fatalf("marshal schema: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal schema: %v", err)
	}
	if decoded["type"] != "ARRAY" {
		t.Errorf("top-level type = %v, want ARRAY", decoded["type"])
	}

	items := decoded["items"].(map[string]any)
	required := items["required"].([]any)
	want := map[string]bool{"day": true, "theme": true, "plan": true, "efficiency_tip": true}
	if len(required) != len(want) {
		t.Fatalf("required = %v", required)
	}
	for _, r := range required {
		if !want[r.(string)] {
			t.Errorf("unexpected required field %v", r)
		}
	}
}
