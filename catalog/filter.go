package catalog

import (
	"strconv"
	"strings"

	"github.com/vetdose/vetdose-api/catalogloader/entities"
)

// TableResultLimit caps the table view at the first 300 medications in
// catalog order that satisfy both filters.
const TableResultLimit = 300

// AnyFilter is the sentinel meaning "no constraint" for a table filter.
// An empty string means the same thing.
const AnyFilter = "any"

// summaryPlaceholder is rendered when neither dog nor cat has a dose range.
const summaryPlaceholder = "—"

// FilterTable returns the medications matching both the route and the
// species filter. A filter set to "" or "any" matches everything; otherwise
// the medication must list the exact filter value. Catalog order is
// preserved and the result is capped at TableResultLimit.
func FilterTable(routeFilter, speciesFilter string, medications []entities.Medication) []entities.Medication {
	var results []entities.Medication
	for i := range medications {
		m := &medications[i]
		if !filterMatches(routeFilter, m.Routes) {
			continue
		}
		if !filterMatches(speciesFilter, m.Species) {
			continue
		}
		results = append(results, medications[i])
		if len(results) >= TableResultLimit {
			break
		}
	}
	return results
}

func filterMatches(filter string, values []string) bool {
	if filter == "" || strings.EqualFold(filter, AnyFilter) {
		return true
	}
	for _, v := range values {
		if v == filter {
			return true
		}
	}
	return false
}

// DoseRangeSummary renders the per-species mg/kg summary shown in the
// table: "Dog 12.5–25 • Cat 12.5–25", only the species that have a dose
// range, or "—" when neither dog nor cat has one.
func DoseRangeSummary(m *entities.Medication) string {
	var parts []string
	for _, s := range []struct{ key, label string }{
		{"dog", "Dog"},
		{"cat", "Cat"},
	} {
		if r, ok := m.Dosing[s.key]; ok {
			parts = append(parts, s.label+" "+formatNumber(r.Low())+"–"+formatNumber(r.High()))
		}
	}
	if len(parts) == 0 {
		return summaryPlaceholder
	}
	return strings.Join(parts, " • ")
}

// PresentationLabel renders a presentation as shown in selection lists:
// the description plus its concentration, or "—" when the concentration is
// unknown.
func PresentationLabel(p *entities.Presentation) string {
	concentration := summaryPlaceholder
	switch {
	case p.ConcentrationMgPerMl != nil:
		concentration = formatNumber(*p.ConcentrationMgPerMl) + " mg/mL"
	case p.ConcentrationMgPerUnit != nil:
		concentration = formatNumber(*p.ConcentrationMgPerUnit) + " mg/unit"
	}
	return p.Description + " — " + concentration
}

// formatNumber renders a float without trailing zeros (12.5 stays "12.5",
// 25 becomes "25").
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
