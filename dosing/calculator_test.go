package dosing

import (
	"errors"
	"math"
	"testing"

	"github.com/vetdose/vetdose-api/catalogloader/entities"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func testMedication() *entities.Medication {
	return &entities.Medication{
		ID:      "amoxicillin-clavulanate",
		Name:    "Amoxicillin-Clavulanate",
		Species: []string{"dog", "cat"},
		Routes:  []string{"oral", "subcutaneous"},
		Presentations: []entities.Presentation{
			{Route: "oral", Description: "62.5 mg tablet", ConcentrationMgPerUnit: floatPtr(62.5)},
			{Route: "oral", Description: "Oral suspension", ConcentrationMgPerMl: floatPtr(50)},
			{Route: "subcutaneous", Description: "Injectable solution", ConcentrationMgPerMl: floatPtr(100)},
		},
		Dosing: map[string]entities.DoseRange{
			"dog": {MgPerKgRange: [2]float64{12.5, 25}, IntervalHours: 12},
		},
	}
}

func validRequest() Request {
	return Request{
		Route:             "oral",
		PresentationIndex: intPtr(1),
		MgPerKg:           floatPtr(20),
		IntervalHours:     intPtr(12),
		WeightKg:          floatPtr(10),
	}
}

func expectFieldError(t *testing.T, err error, field string) {
	t.Helper()

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Expected a ValidationError, got %v", err)
	}
	if validationErr.Field != field {
		t.Errorf("Expected error on field %q, got %q", field, validationErr.Field)
	}
}

func TestComputeDoseTotalAndVolume(t *testing.T) {
	result, err := ComputeDose(testMedication(), validRequest())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// 10 kg x 20 mg/kg = 200 mg, at 50 mg/mL that is 4 mL
	if result.TotalMg != 200 {
		t.Errorf("Expected total of 200 mg, got %v", result.TotalMg)
	}
	if result.VolumeMl == nil {
		t.Fatal("Expected a volume for a mg/mL presentation")
	}
	if *result.VolumeMl != 4 {
		t.Errorf("Expected volume of 4 mL, got %v", *result.VolumeMl)
	}
	if result.RegimenLabel != "every 12 h" {
		t.Errorf("Expected regimen 'every 12 h', got %q", result.RegimenLabel)
	}
	if result.CeilingExceeded {
		t.Error("Ceiling should not be exceeded without a configured maximum")
	}
}

func TestComputeDoseNoVolumeForUnitPresentation(t *testing.T) {
	req := validRequest()
	req.PresentationIndex = intPtr(0) // the tablet

	result, err := ComputeDose(testMedication(), req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.VolumeMl != nil {
		t.Errorf("Expected no volume for a mg/unit presentation, got %v", *result.VolumeMl)
	}
}

func TestComputeDoseCeilingExceeded(t *testing.T) {
	m := testMedication()
	m.MaxTotalDoseMg = floatPtr(150)

	result, err := ComputeDose(m, validRequest())
	if err != nil {
		t.Fatalf("Ceiling violation must not fail the calculation: %v", err)
	}

	if !result.CeilingExceeded {
		t.Error("Expected the ceiling flag to be set")
	}
	if result.CeilingValueMg == nil || *result.CeilingValueMg != 150 {
		t.Errorf("Expected ceiling value 150, got %v", result.CeilingValueMg)
	}
	// The numbers are still the real computation
	if result.TotalMg != 200 {
		t.Errorf("Expected total of 200 mg, got %v", result.TotalMg)
	}
}

func TestComputeDoseAtCeilingIsNotExceeded(t *testing.T) {
	m := testMedication()
	m.MaxTotalDoseMg = floatPtr(200)

	result, err := ComputeDose(m, validRequest())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.CeilingExceeded {
		t.Error("A total exactly at the ceiling should not be flagged")
	}
}

func TestComputeDoseMissingInputs(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Request)
		field  string
	}{
		{"missing weight", func(r *Request) { r.WeightKg = nil }, "weight_kg"},
		{"missing mg/kg", func(r *Request) { r.MgPerKg = nil }, "mg_per_kg"},
		{"missing interval", func(r *Request) { r.IntervalHours = nil }, "interval_hours"},
		{"missing presentation", func(r *Request) { r.PresentationIndex = nil }, "presentation_index"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := validRequest()
			c.mutate(&req)

			_, err := ComputeDose(testMedication(), req)
			if err == nil {
				t.Fatal("Expected an error")
			}
			expectFieldError(t, err, c.field)
		})
	}
}

func TestComputeDoseRejectsNonPositiveNumbers(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Request)
		field  string
	}{
		{"zero weight", func(r *Request) { r.WeightKg = floatPtr(0) }, "weight_kg"},
		{"negative weight", func(r *Request) { r.WeightKg = floatPtr(-4) }, "weight_kg"},
		{"NaN weight", func(r *Request) { r.WeightKg = floatPtr(math.NaN()) }, "weight_kg"},
		{"zero dose", func(r *Request) { r.MgPerKg = floatPtr(0) }, "mg_per_kg"},
		{"infinite dose", func(r *Request) { r.MgPerKg = floatPtr(math.Inf(1)) }, "mg_per_kg"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := validRequest()
			c.mutate(&req)

			_, err := ComputeDose(testMedication(), req)
			if err == nil {
				t.Fatal("Expected an error")
			}
			expectFieldError(t, err, c.field)
		})
	}
}

func TestComputeDoseEmptyRouteUsesDefault(t *testing.T) {
	req := validRequest()
	req.Route = ""
	req.PresentationIndex = intPtr(1) // index into the oral presentations

	result, err := ComputeDose(testMedication(), req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.VolumeMl == nil {
		t.Error("Default route should resolve to oral and find the suspension")
	}
}

func TestComputeDoseUnknownRoute(t *testing.T) {
	req := validRequest()
	req.Route = "topical"

	_, err := ComputeDose(testMedication(), req)
	if err == nil {
		t.Fatal("Expected an error")
	}
	expectFieldError(t, err, "route")
}

func TestComputeDosePresentationIndexIsRouteRelative(t *testing.T) {
	// Index 0 for the subcutaneous route is the injectable, not the tablet
	req := validRequest()
	req.Route = "subcutaneous"
	req.PresentationIndex = intPtr(0)

	result, err := ComputeDose(testMedication(), req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.VolumeMl == nil {
		t.Fatal("Expected a volume for the injectable")
	}
	// 200 mg at 100 mg/mL
	if *result.VolumeMl != 2 {
		t.Errorf("Expected volume of 2 mL, got %v", *result.VolumeMl)
	}
}

func TestComputeDosePresentationIndexOutOfRange(t *testing.T) {
	for _, index := range []int{-1, 2, 99} {
		req := validRequest()
		req.PresentationIndex = intPtr(index)

		_, err := ComputeDose(testMedication(), req)
		if err == nil {
			t.Fatalf("Expected an error for index %d", index)
		}
		expectFieldError(t, err, "presentation_index")
	}
}

func TestPresentationsForRoute(t *testing.T) {
	m := testMedication()

	oral := PresentationsForRoute(m, "oral")
	if len(oral) != 2 {
		t.Fatalf("Expected 2 oral presentations, got %d", len(oral))
	}
	if oral[0].Description != "62.5 mg tablet" || oral[1].Description != "Oral suspension" {
		t.Error("Expected presentation order preserved")
	}

	if got := PresentationsForRoute(m, "topical"); len(got) != 0 {
		t.Errorf("Expected no presentations for an unknown route, got %d", len(got))
	}
}

func TestSuggestMeanOfRange(t *testing.T) {
	suggestion, ok := Suggest(testMedication(), "dog")
	if !ok {
		t.Fatal("Expected a suggestion for dog")
	}

	// Mean of [12.5, 25] is 18.75
	if suggestion.MgPerKg != 18.75 {
		t.Errorf("Expected 18.75 mg/kg, got %v", suggestion.MgPerKg)
	}
	if suggestion.IntervalHours != 12 {
		t.Errorf("Expected interval of 12 h, got %d", suggestion.IntervalHours)
	}
	if suggestion.RangeLowMgKg != 12.5 || suggestion.RangeHighMgKg != 25 {
		t.Errorf("Expected range bounds [12.5, 25], got [%v, %v]", suggestion.RangeLowMgKg, suggestion.RangeHighMgKg)
	}
	if suggestion.RangeLabel != "Suggested range: 12.5–25 mg/kg" {
		t.Errorf("Unexpected range label: %q", suggestion.RangeLabel)
	}
}

func TestSuggestUnknownSpecies(t *testing.T) {
	if _, ok := Suggest(testMedication(), "cat"); ok {
		t.Error("Expected no suggestion for a species without a dose range")
	}
}
