package health

import (
	"net/http"
	"testing"
	"time"

	"github.com/vetdose/vetdose-api/catalogloader/entities"
)

// stubStore lets tests pin the catalog contents and the data age.
type stubStore struct {
	catalog     *entities.Catalog
	lastUpdated time.Time
	updating    bool
}

func (s *stubStore) GetCatalog() *entities.Catalog { return s.catalog }
func (s *stubStore) GetMedications() []entities.Medication {
	return s.catalog.Medications
}
func (s *stubStore) GetMedicationsByID() map[string]entities.Medication { return nil }
func (s *stubStore) GetLastUpdated() time.Time                          { return s.lastUpdated }
func (s *stubStore) IsUpdating() bool                                   { return s.updating }
func (s *stubStore) GetServerStartTime() time.Time                      { return time.Time{} }
func (s *stubStore) SetServerStartTime(time.Time)                       {}
func (s *stubStore) ReplaceCatalog(*entities.Catalog, map[string]entities.Medication) {
}
func (s *stubStore) BeginUpdate() bool { return true }
func (s *stubStore) EndUpdate()        {}

func storeWithAge(age time.Duration, medicationCount int) *stubStore {
	medications := make([]entities.Medication, medicationCount)
	return &stubStore{
		catalog: &entities.Catalog{
			SchemaVersion: 1,
			UpdatedDate:   "2026-08-01",
			Medications:   medications,
		},
		lastUpdated: time.Now().Add(-age),
	}
}

func TestHealthCheckHealthy(t *testing.T) {
	checker := NewHealthChecker(storeWithAge(1*time.Hour, 10))

	status, data, httpStatus := checker.HealthCheck()

	if status != "healthy" {
		t.Errorf("Expected healthy, got %s", status)
	}
	if httpStatus != http.StatusOK {
		t.Errorf("Expected 200, got %d", httpStatus)
	}
	if data["medications"] != 10 {
		t.Errorf("Expected 10 medications in the report, got %v", data["medications"])
	}
}

func TestHealthCheckDegradedAfterMissedRefresh(t *testing.T) {
	checker := NewHealthChecker(storeWithAge(30*time.Hour, 10))

	status, _, httpStatus := checker.HealthCheck()

	if status != "degraded" {
		t.Errorf("Expected degraded, got %s", status)
	}
	// A missed refresh is reported but still serves traffic
	if httpStatus != http.StatusOK {
		t.Errorf("Expected 200, got %d", httpStatus)
	}
}

func TestHealthCheckUnhealthyAfterTwoMissedRefreshes(t *testing.T) {
	checker := NewHealthChecker(storeWithAge(50*time.Hour, 10))

	status, _, httpStatus := checker.HealthCheck()

	if status != "unhealthy" {
		t.Errorf("Expected unhealthy, got %s", status)
	}
	if httpStatus != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", httpStatus)
	}
}

func TestHealthCheckUnhealthyWithEmptyCatalog(t *testing.T) {
	checker := NewHealthChecker(storeWithAge(1*time.Hour, 0))

	status, _, httpStatus := checker.HealthCheck()

	if status != "unhealthy" {
		t.Errorf("Expected unhealthy for an empty catalog, got %s", status)
	}
	if httpStatus != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", httpStatus)
	}
}

func TestHealthCheckReportsUpdating(t *testing.T) {
	store := storeWithAge(1*time.Hour, 10)
	store.updating = true

	_, data, _ := checkerData(t, store)

	if data["is_updating"] != true {
		t.Errorf("Expected is_updating true, got %v", data["is_updating"])
	}
}

func checkerData(t *testing.T, store *stubStore) (string, map[string]any, int) {
	t.Helper()
	return NewHealthChecker(store).HealthCheck()
}
