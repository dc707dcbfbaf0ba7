// Package dosing computes doses from a medication's static data and
// user-entered weight, mg/kg dose and interval. All entry points are pure
// functions; the caller owns input parsing and result rendering.
package dosing

import (
	"fmt"
	"math"
	"strconv"

	"github.com/vetdose/vetdose-api/catalogloader/entities"
)

// ValidationError reports a missing or invalid calculation input. It names
// the offending field so the presentation layer can point at it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Request carries the calculation inputs. Pointer fields distinguish a
// missing value from an entered zero; PresentationIndex indexes into the
// route-filtered presentation subsequence, not the full list.
type Request struct {
	Route             string   `json:"route"`
	PresentationIndex *int     `json:"presentation_index"`
	MgPerKg           *float64 `json:"mg_per_kg"`
	IntervalHours     *int     `json:"interval_hours"`
	WeightKg          *float64 `json:"weight_kg"`
}

// Result is a successful dose computation. VolumeMl is nil when the
// selected presentation has no mg/mL concentration: the volume is unknown,
// not zero. CeilingExceeded is advisory only; the result is still valid.
type Result struct {
	TotalMg         float64  `json:"total_mg"`
	VolumeMl        *float64 `json:"volume_ml,omitempty"`
	RegimenLabel    string   `json:"regimen_label"`
	CeilingExceeded bool     `json:"ceiling_exceeded"`
	CeilingValueMg  *float64 `json:"ceiling_value_mg,omitempty"`
}

// PresentationsForRoute returns the presentations tagged with the given
// route, preserving their order in the medication.
func PresentationsForRoute(m *entities.Medication, route string) []entities.Presentation {
	var matching []entities.Presentation
	for _, p := range m.Presentations {
		if p.Route == route {
			matching = append(matching, p)
		}
	}
	return matching
}

// ComputeDose validates the request against the medication and computes
// the total dose, the volume when the concentration allows it, and the
// regimen label. Exceeding the medication's total-dose ceiling flags the
// result but never fails it.
func ComputeDose(m *entities.Medication, req Request) (*Result, error) {
	if req.WeightKg == nil {
		return nil, &ValidationError{Field: "weight_kg", Reason: "missing"}
	}
	if weight := *req.WeightKg; math.IsNaN(weight) || math.IsInf(weight, 0) || weight <= 0 {
		return nil, &ValidationError{Field: "weight_kg", Reason: "must be a positive number"}
	}

	if req.MgPerKg == nil {
		return nil, &ValidationError{Field: "mg_per_kg", Reason: "missing"}
	}
	if dose := *req.MgPerKg; math.IsNaN(dose) || math.IsInf(dose, 0) || dose <= 0 {
		return nil, &ValidationError{Field: "mg_per_kg", Reason: "must be a positive number"}
	}

	if req.IntervalHours == nil {
		return nil, &ValidationError{Field: "interval_hours", Reason: "missing"}
	}

	route := req.Route
	if route == "" {
		route = m.DefaultRoute()
	}
	if !hasRoute(m, route) {
		return nil, &ValidationError{Field: "route", Reason: fmt.Sprintf("%q is not a route of %s", route, m.ID)}
	}

	presentations := PresentationsForRoute(m, route)
	if req.PresentationIndex == nil {
		return nil, &ValidationError{Field: "presentation_index", Reason: "missing"}
	}
	index := *req.PresentationIndex
	if index < 0 || index >= len(presentations) {
		return nil, &ValidationError{
			Field:  "presentation_index",
			Reason: fmt.Sprintf("index %d out of range for route %q (%d presentations)", index, route, len(presentations)),
		}
	}
	presentation := presentations[index]

	totalMg := *req.WeightKg * *req.MgPerKg

	result := &Result{
		TotalMg:      totalMg,
		RegimenLabel: fmt.Sprintf("every %d h", *req.IntervalHours),
	}

	if presentation.ConcentrationMgPerMl != nil {
		volume := totalMg / *presentation.ConcentrationMgPerMl
		result.VolumeMl = &volume
	}

	if m.MaxTotalDoseMg != nil && *m.MaxTotalDoseMg > 0 && totalMg > *m.MaxTotalDoseMg {
		ceiling := *m.MaxTotalDoseMg
		result.CeilingExceeded = true
		result.CeilingValueMg = &ceiling
	}

	return result, nil
}

func hasRoute(m *entities.Medication, route string) bool {
	for _, r := range m.Routes {
		if r == route {
			return true
		}
	}
	return false
}

// Suggestion is the pre-fill the dose form offers for a medication/species
// pair: the arithmetic mean of the recommended range and its interval.
// RangeLabel is the display form of the range.
type Suggestion struct {
	MgPerKg       float64 `json:"mg_per_kg"`
	IntervalHours int     `json:"interval_hours"`
	RangeLowMgKg  float64 `json:"range_low_mg_kg"`
	RangeHighMgKg float64 `json:"range_high_mg_kg"`
	RangeLabel    string  `json:"range_label"`
}

// Suggest derives the suggested mg/kg dose and interval for a species.
// The second return value is false when the medication has no dose range
// for that species.
func Suggest(m *entities.Medication, species string) (Suggestion, bool) {
	r, ok := m.Dosing[species]
	if !ok {
		return Suggestion{}, false
	}
	return Suggestion{
		MgPerKg:       (r.Low() + r.High()) / 2,
		IntervalHours: r.IntervalHours,
		RangeLowMgKg:  r.Low(),
		RangeHighMgKg: r.High(),
		RangeLabel: fmt.Sprintf("Suggested range: %s–%s mg/kg",
			strconv.FormatFloat(r.Low(), 'f', -1, 64),
			strconv.FormatFloat(r.High(), 'f', -1, 64)),
	}, true
}
