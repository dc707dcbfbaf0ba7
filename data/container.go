// Package data provides the in-memory store for the active medication
// catalog. The CatalogContainer uses atomic pointers so a catalog load
// replaces everything at once: readers never observe a half-replaced state.
package data

import (
	"sync/atomic"
	"time"

	"github.com/vetdose/vetdose-api/catalogloader/entities"
	"github.com/vetdose/vetdose-api/interfaces"
	"github.com/vetdose/vetdose-api/logging"
)

// Compile-time check to ensure CatalogContainer implements CatalogStore
var _ interfaces.CatalogStore = (*CatalogContainer)(nil)

// CatalogContainer holds the active catalog with atomic pointers for
// zero-downtime replacement.
type CatalogContainer struct {
	catalog         atomic.Value // *entities.Catalog
	medicationsByID atomic.Value // map[string]entities.Medication
	lastUpdated     atomic.Value // time.Time
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewCatalogContainer creates a container holding an empty catalog. Reads
// before the first load see this empty state, never a partial one.
func NewCatalogContainer() *CatalogContainer {
	cc := &CatalogContainer{}
	cc.catalog.Store(&entities.Catalog{Medications: []entities.Medication{}})
	cc.medicationsByID.Store(make(map[string]entities.Medication))
	cc.lastUpdated.Store(time.Time{})
	cc.serverStartTime.Store(time.Time{})
	return cc
}

// Thread-safe getters with type check

// GetCatalog returns the active catalog.
func (cc *CatalogContainer) GetCatalog() *entities.Catalog {
	if v := cc.catalog.Load(); v != nil {
		if cat, ok := v.(*entities.Catalog); ok {
			return cat
		}
	}

	logging.Warn("Catalog is empty or invalid")
	return &entities.Catalog{Medications: []entities.Medication{}}
}

// GetMedications returns the active catalog's medication list in catalog
// order.
func (cc *CatalogContainer) GetMedications() []entities.Medication {
	return cc.GetCatalog().Medications
}

// GetMedicationsByID returns the id lookup map for O(1) lookups.
func (cc *CatalogContainer) GetMedicationsByID() map[string]entities.Medication {
	if v := cc.medicationsByID.Load(); v != nil {
		if byID, ok := v.(map[string]entities.Medication); ok {
			return byID
		}
	}

	logging.Warn("MedicationsByID map is empty or invalid")
	return make(map[string]entities.Medication)
}

// GetLastUpdated returns the timestamp of the last catalog replacement.
func (cc *CatalogContainer) GetLastUpdated() time.Time {
	if v := cc.lastUpdated.Load(); v != nil {
		if lastUpdated, ok := v.(time.Time); ok {
			return lastUpdated
		}
	}

	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

// IsUpdating returns true if a catalog replacement is in progress.
func (cc *CatalogContainer) IsUpdating() bool {
	return cc.updating.Load()
}

// SetServerStartTime sets the server start time.
func (cc *CatalogContainer) SetServerStartTime(startTime time.Time) {
	cc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time.
func (cc *CatalogContainer) GetServerStartTime() time.Time {
	if v := cc.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}

// ReplaceCatalog atomically swaps the active catalog and its lookup map.
// The caller builds both before calling, so the swap is all-or-nothing.
func (cc *CatalogContainer) ReplaceCatalog(cat *entities.Catalog, medicationsByID map[string]entities.Medication) {
	cc.catalog.Store(cat)
	cc.medicationsByID.Store(medicationsByID)
	cc.lastUpdated.Store(time.Now())
}

// BeginUpdate marks the start of a catalog replacement.
// Returns true if the update can proceed, false if another is in progress.
func (cc *CatalogContainer) BeginUpdate() bool {
	return cc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of a catalog replacement.
func (cc *CatalogContainer) EndUpdate() {
	cc.updating.Store(false)
}

// BuildMedicationsIndex builds the id lookup map for a medication list.
// Later duplicates win, matching JSON object semantics downstream.
func BuildMedicationsIndex(medications []entities.Medication) map[string]entities.Medication {
	byID := make(map[string]entities.Medication, len(medications))
	for i := range medications {
		byID[medications[i].ID] = medications[i]
	}
	return byID
}
