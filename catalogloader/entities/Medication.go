package entities

// Medication is one drug entry. Entries are immutable once loaded; a new
// catalog replaces them wholesale.
type Medication struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	Synonyms       []string             `json:"synonyms,omitempty"`
	Species        []string             `json:"species,omitempty"`
	Routes         []string             `json:"routes,omitempty"`
	Presentations  []Presentation       `json:"presentations,omitempty"`
	Dosing         map[string]DoseRange `json:"dosing,omitempty"`
	MaxTotalDoseMg *float64             `json:"max_total_dose_mg,omitempty"`
	Notes          string               `json:"notes,omitempty"`
}

// DefaultRoute returns the first declared route, the one pre-selected for
// the dose form. Empty when the medication declares no routes.
func (m *Medication) DefaultRoute() string {
	if len(m.Routes) == 0 {
		return ""
	}
	return m.Routes[0]
}

// Presentation is a concrete product form tagged with one route. At most
// one of the two concentration fields is meaningful; both absent means the
// concentration is unknown and no volume can be computed.
type Presentation struct {
	Route                  string   `json:"route"`
	Description            string   `json:"description"`
	ConcentrationMgPerMl   *float64 `json:"concentration_mg_per_ml,omitempty"`
	ConcentrationMgPerUnit *float64 `json:"concentration_mg_per_unit,omitempty"`
}

// DoseRange is the recommended mg/kg band and dosing frequency for one
// species. Index 0 is the low bound, index 1 the high bound.
type DoseRange struct {
	MgPerKgRange  [2]float64 `json:"mg_per_kg_range"`
	IntervalHours int        `json:"interval_hours"`
}

// Low returns the lower bound of the mg/kg range.
func (d DoseRange) Low() float64 { return d.MgPerKgRange[0] }

// High returns the upper bound of the mg/kg range.
func (d DoseRange) High() float64 { return d.MgPerKgRange[1] }
