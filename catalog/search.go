package catalog

import (
	"strings"

	"github.com/vetdose/vetdose-api/catalogloader/entities"
)

// SearchResultLimit is the hard cap on search results. The first matches in
// catalog order win; there is no relevance scoring.
const SearchResultLimit = 100

// Search returns the medications whose name or synonyms contain the query,
// compared case- and diacritic-insensitively. Catalog order is preserved.
// An empty (or empty-after-normalization) query returns no results; the
// caller decides what an unfiltered default view looks like.
func Search(query string, medications []entities.Medication) []entities.Medication {
	normalizedQuery := Normalize(query)
	if normalizedQuery == "" {
		return nil
	}

	var results []entities.Medication
	for i := range medications {
		if strings.Contains(searchHaystack(&medications[i]), normalizedQuery) {
			results = append(results, medications[i])
			if len(results) >= SearchResultLimit {
				break
			}
		}
	}

	return results
}

// searchHaystack joins the normalized name and synonyms with spaces,
// mirroring how the searchable fields are presented to the user.
func searchHaystack(m *entities.Medication) string {
	parts := make([]string, 0, len(m.Synonyms)+1)
	parts = append(parts, Normalize(m.Name))
	for _, synonym := range m.Synonyms {
		parts = append(parts, Normalize(synonym))
	}
	return strings.Join(parts, " ")
}
