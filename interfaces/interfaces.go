// Package interfaces defines the core abstractions of the vetdose API so
// the store, loader, scheduler and HTTP layer stay independently testable.
package interfaces

import (
	"context"
	"net/http"
	"time"

	"github.com/vetdose/vetdose-api/catalogloader"
	"github.com/vetdose/vetdose-api/catalogloader/entities"
)

// CatalogStore is the single-writer, many-reader holder of the active
// catalog. Replacement is atomic: readers observe either the prior catalog
// or the new one, never a partial state.
type CatalogStore interface {
	GetCatalog() *entities.Catalog
	GetMedications() []entities.Medication
	GetMedicationsByID() map[string]entities.Medication
	GetLastUpdated() time.Time
	IsUpdating() bool
	GetServerStartTime() time.Time
	SetServerStartTime(t time.Time)

	// ReplaceCatalog swaps the active catalog and its lookup map in one
	// logical step.
	ReplaceCatalog(cat *entities.Catalog, medicationsByID map[string]entities.Medication)
	BeginUpdate() bool
	EndUpdate()
}

// CatalogLoader resolves a catalog from configured sources.
type CatalogLoader interface {
	Load(ctx context.Context, sources ...catalogloader.Source) (*entities.Catalog, error)
	ParseUserPayload(raw []byte) (*entities.Catalog, error)
}

// Scheduler manages the periodic catalog refresh.
type Scheduler interface {
	Start() error
	Stop()
}

// HTTPHandler groups the endpoint handlers the router binds.
type HTTPHandler interface {
	ServeCatalog(w http.ResponseWriter, r *http.Request)
	ServePagedCatalog(w http.ResponseWriter, r *http.Request)
	SearchMedications(w http.ResponseWriter, r *http.Request)
	FindMedicationByID(w http.ResponseWriter, r *http.Request)
	ServeTable(w http.ResponseWriter, r *http.Request)
	SuggestDose(w http.ResponseWriter, r *http.Request)
	ComputeDose(w http.ResponseWriter, r *http.Request)
	UploadCatalog(w http.ResponseWriter, r *http.Request)
	HealthCheck(w http.ResponseWriter, r *http.Request)
}

// HealthChecker reports system health from the store's state.
type HealthChecker interface {
	HealthCheck() (status string, data map[string]any, httpStatus int)
}

// CatalogValidator checks catalog structure and user input.
type CatalogValidator interface {
	ValidateCatalog(cat *entities.Catalog) error
	ValidateMedication(m *entities.Medication) error
	ReportCatalogQuality(cat *entities.Catalog) *CatalogQualityReport
	ValidateInput(input string) error
}

// CatalogQualityReport summarizes non-fatal data issues found in a loaded
// catalog. These are logged, never load failures.
type CatalogQualityReport struct {
	DuplicateIDs                  []string
	MedicationsWithoutDosing      []string
	MedicationsWithoutRoutes      []string
	PresentationsWithUnknownRoute []string
	InvertedDoseRanges            []string
}
