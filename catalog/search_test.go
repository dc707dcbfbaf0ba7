package catalog

import (
	"fmt"
	"testing"

	"github.com/vetdose/vetdose-api/catalogloader/entities"
)

func testMedications() []entities.Medication {
	return []entities.Medication{
		{
			ID:       "amoxicillin-clavulanate",
			Name:     "Amoxicillin-Clavulanate",
			Synonyms: []string{"amoxi-clav", "clavamox", "amoxicilina-ácido clavulánico"},
		},
		{
			ID:       "meloxicam",
			Name:     "Meloxicam",
			Synonyms: []string{"metacam"},
		},
		{
			ID:       "enrofloxacin",
			Name:     "Enrofloxacin",
			Synonyms: []string{"baytril"},
		},
	}
}

func TestSearchByName(t *testing.T) {
	results := Search("meloxicam", testMedications())

	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].ID != "meloxicam" {
		t.Errorf("Expected meloxicam, got %s", results[0].ID)
	}
}

func TestSearchBySynonym(t *testing.T) {
	results := Search("baytril", testMedications())

	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].ID != "enrofloxacin" {
		t.Errorf("Expected enrofloxacin, got %s", results[0].ID)
	}
}

func TestSearchIsCaseAndAccentInsensitive(t *testing.T) {
	// The catalog stores the accented synonym; the query comes in plain
	for _, query := range []string{"CLAVAMOX", "acido clavulanico", "Ácido Clavulánico"} {
		results := Search(query, testMedications())
		if len(results) != 1 || results[0].ID != "amoxicillin-clavulanate" {
			t.Errorf("Search(%q): expected amoxicillin-clavulanate, got %v", query, results)
		}
	}
}

func TestSearchSubstringMatch(t *testing.T) {
	results := Search("oxi", testMedications())

	// "amoxicillin" and "meloxicam" both contain "oxi"
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].ID != "amoxicillin-clavulanate" || results[1].ID != "meloxicam" {
		t.Errorf("Expected catalog order preserved, got %s then %s", results[0].ID, results[1].ID)
	}
}

func TestSearchEmptyQueryReturnsNothing(t *testing.T) {
	if results := Search("", testMedications()); results != nil {
		t.Errorf("Expected no results for empty query, got %d", len(results))
	}
}

func TestSearchNoMatches(t *testing.T) {
	if results := Search("xylazine", testMedications()); len(results) != 0 {
		t.Errorf("Expected no results, got %d", len(results))
	}
}

func TestSearchResultLimit(t *testing.T) {
	medications := make([]entities.Medication, 0, SearchResultLimit+50)
	for i := 0; i < SearchResultLimit+50; i++ {
		medications = append(medications, entities.Medication{
			ID:   fmt.Sprintf("med-%d", i),
			Name: fmt.Sprintf("Medication %d", i),
		})
	}

	results := Search("medication", medications)

	if len(results) != SearchResultLimit {
		t.Errorf("Expected %d results, got %d", SearchResultLimit, len(results))
	}
	// The first matches in catalog order win
	if results[0].ID != "med-0" {
		t.Errorf("Expected med-0 first, got %s", results[0].ID)
	}
}
