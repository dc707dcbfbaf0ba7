// Package health reports system health from the catalog store's state.
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/vetdose/vetdose-api/interfaces"
)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	store interfaces.CatalogStore
}

// NewHealthChecker creates a new health checker with an injected store
func NewHealthChecker(store interfaces.CatalogStore) interfaces.HealthChecker {
	return &HealthCheckerImpl{store: store}
}

// HealthCheck returns the status for the /health endpoint. The catalog
// refreshes daily, so a store older than two missed refreshes is
// unhealthy, one missed refresh is degraded.
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	cat := h.store.GetCatalog()
	lastUpdate := h.store.GetLastUpdated()
	isUpdating := h.store.IsUpdating()

	dataAge := time.Since(lastUpdate)

	switch {
	case len(cat.Medications) == 0:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case dataAge > 49*time.Hour:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case dataAge > 25*time.Hour:
		status = "degraded"
		httpStatus = http.StatusOK

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"last_update":    lastUpdate.Format(time.RFC3339),
		"data_age_hours": math.Round(dataAge.Hours()*10) / 10,
		"medications":    len(cat.Medications),
		"catalog_date":   cat.UpdatedDate,
		"schema_version": cat.SchemaVersion,
		"is_updating":    isUpdating,
	}

	return status, data, httpStatus
}
