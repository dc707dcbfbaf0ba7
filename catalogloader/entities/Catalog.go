// Package entities defines the catalog data model shared by the loader,
// the store and the query/dosing packages.
package entities

// Catalog is the unit of load and replacement: the full medication list
// plus its metadata. The medications order is the display order for the
// unfiltered default list.
type Catalog struct {
	SchemaVersion int          `json:"schema_version"`
	UpdatedDate   string       `json:"updated_date"`
	Medications   []Medication `json:"medications"`
}
