// Package validation provides catalog and user-input validation for the
// vetdose API. Catalog checks beyond the loader's structural minimum are
// quality reporting: they are logged on refresh, never load failures.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vetdose/vetdose-api/catalogloader/entities"
	"github.com/vetdose/vetdose-api/interfaces"
)

// Pre-compiled patterns, shared by all validator instances.
var (
	// Input validation: alphanumeric + accented letters + safe punctuation.
	// The catalog lexicon carries Spanish and French accents in names and
	// synonyms, so those stay searchable.
	inputRegex = regexp.MustCompile(`^[a-zA-Z0-9\s\-\.\+'áàâäéèêëíîïóôöúùûüñç]+$`)

	// Dangerous substrings rejected outright. Plain substring matching is
	// cheaper than regex and covers the injection families we care about.
	dangerousPatterns = []string{
		"<script", "</script>", "javascript:", "onload=", "onerror=",
		"eval(", "expression(", "@import",
		"' or ", "\" or ", "union select", "drop table", "delete from",
		"--", "/*", "*/",
		"../", "..\\", "%2e%2e", "file://",
		"`", "$(", "${",
	}
)

// CatalogValidatorImpl implements the interfaces.CatalogValidator interface
type CatalogValidatorImpl struct{}

// NewCatalogValidator creates a new catalog validator
func NewCatalogValidator() interfaces.CatalogValidator {
	return &CatalogValidatorImpl{}
}

// ValidateCatalog checks that a catalog is usable: non-nil, with unique,
// individually valid medications.
func (v *CatalogValidatorImpl) ValidateCatalog(cat *entities.Catalog) error {
	if cat == nil {
		return fmt.Errorf("catalog is nil")
	}

	seen := make(map[string]bool, len(cat.Medications))
	for i := range cat.Medications {
		m := &cat.Medications[i]
		if seen[m.ID] {
			return fmt.Errorf("duplicate medication id: %s", m.ID)
		}
		seen[m.ID] = true

		if err := v.ValidateMedication(m); err != nil {
			return fmt.Errorf("invalid medication %s: %w", m.ID, err)
		}
	}

	return nil
}

// ValidateMedication checks a single medication entry.
func (v *CatalogValidatorImpl) ValidateMedication(m *entities.Medication) error {
	if m == nil {
		return fmt.Errorf("medication is nil")
	}

	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("empty id")
	}

	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("empty name for id %s", m.ID)
	}

	if len(m.Name) > 200 {
		return fmt.Errorf("name too long for id %s: %d characters", m.ID, len(m.Name))
	}

	for _, route := range m.Routes {
		if len(route) > 50 {
			return fmt.Errorf("route too long for id %s: %d characters", m.ID, len(route))
		}
	}

	for species, r := range m.Dosing {
		if r.Low() <= 0 || r.High() <= 0 {
			return fmt.Errorf("non-positive mg/kg bound for id %s species %s", m.ID, species)
		}
		if r.Low() > r.High() {
			return fmt.Errorf("inverted mg/kg range for id %s species %s: %v > %v", m.ID, species, r.Low(), r.High())
		}
		if r.IntervalHours <= 0 {
			return fmt.Errorf("non-positive interval for id %s species %s", m.ID, species)
		}
	}

	for i, p := range m.Presentations {
		if p.ConcentrationMgPerMl != nil && *p.ConcentrationMgPerMl <= 0 {
			return fmt.Errorf("non-positive mg/mL concentration for id %s presentation %d", m.ID, i)
		}
		if p.ConcentrationMgPerUnit != nil && *p.ConcentrationMgPerUnit <= 0 {
			return fmt.Errorf("non-positive mg/unit concentration for id %s presentation %d", m.ID, i)
		}
	}

	if m.MaxTotalDoseMg != nil && *m.MaxTotalDoseMg <= 0 {
		return fmt.Errorf("non-positive max total dose for id %s", m.ID)
	}

	return nil
}

// ReportCatalogQuality collects the non-fatal issues in a catalog: entries
// the tool still serves but that are worth a warning on refresh.
func (v *CatalogValidatorImpl) ReportCatalogQuality(cat *entities.Catalog) *interfaces.CatalogQualityReport {
	report := &interfaces.CatalogQualityReport{
		DuplicateIDs:                  []string{},
		MedicationsWithoutDosing:      []string{},
		MedicationsWithoutRoutes:      []string{},
		PresentationsWithUnknownRoute: []string{},
		InvertedDoseRanges:            []string{},
	}
	if cat == nil {
		return report
	}

	seen := make(map[string]bool, len(cat.Medications))
	for i := range cat.Medications {
		m := &cat.Medications[i]

		if seen[m.ID] {
			report.DuplicateIDs = append(report.DuplicateIDs, m.ID)
		}
		seen[m.ID] = true

		if len(m.Dosing) == 0 {
			report.MedicationsWithoutDosing = append(report.MedicationsWithoutDosing, m.ID)
		}

		if len(m.Routes) == 0 {
			report.MedicationsWithoutRoutes = append(report.MedicationsWithoutRoutes, m.ID)
		}

		routes := make(map[string]bool, len(m.Routes))
		for _, r := range m.Routes {
			routes[r] = true
		}
		for _, p := range m.Presentations {
			if !routes[p.Route] {
				report.PresentationsWithUnknownRoute = append(report.PresentationsWithUnknownRoute,
					fmt.Sprintf("%s:%s", m.ID, p.Route))
			}
		}

		for species, r := range m.Dosing {
			if r.Low() > r.High() {
				report.InvertedDoseRanges = append(report.InvertedDoseRanges,
					fmt.Sprintf("%s:%s", m.ID, species))
			}
		}
	}

	return report
}

// ValidateInput validates user search input before it reaches the catalog
// queries.
func (v *CatalogValidatorImpl) ValidateInput(input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("input cannot be empty")
	}

	if len(input) > 100 {
		return fmt.Errorf("input too long: maximum 100 characters")
	}

	// Word count cap keeps pathological queries out of the substring scan
	words := strings.Fields(input)
	if len(words) > 6 {
		return fmt.Errorf("search query too complex: maximum 6 words allowed")
	}

	lowerInput := strings.ToLower(input)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowerInput, pattern) {
			return fmt.Errorf("input contains potentially dangerous content")
		}
	}

	if !inputRegex.MatchString(input) {
		return fmt.Errorf("input contains invalid characters. Only letters, numbers, spaces, hyphens, apostrophes, periods, plus sign, and accented characters are allowed")
	}

	if hasExcessiveRepetition(input) {
		return fmt.Errorf("input contains excessive character repetition")
	}

	return nil
}

// hasExcessiveRepetition flags the same byte repeated more than 10 times in
// a row, a cheap DoS guard.
func hasExcessiveRepetition(input string) bool {
	for i := 0; i < len(input)-10; i++ {
		allSame := true
		for j := 1; j <= 10; j++ {
			if input[i] != input[i+j] {
				allSame = false
				break
			}
		}
		if allSame {
			return true
		}
	}
	return false
}
