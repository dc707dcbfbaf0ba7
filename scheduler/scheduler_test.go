package scheduler

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/vetdose/vetdose-api/catalogloader"
	"github.com/vetdose/vetdose-api/data"
	"github.com/vetdose/vetdose-api/logging"
)

func TestMain(m *testing.M) {
	if err := logging.InitLogger(""); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fakeSource struct {
	name string
	data []byte
	err  error
}

func (s fakeSource) Name() string { return s.name }

func (s fakeSource) Fetch(_ context.Context) ([]byte, error) {
	return s.data, s.err
}

const catalogJSON = `{
	"schema_version": 1,
	"updated_date": "2026-08-01",
	"medications": [
		{"id": "meloxicam", "name": "Meloxicam"},
		{"id": "tramadol", "name": "Tramadol"}
	]
}`

func sourcesOf(sources ...catalogloader.Source) []catalogloader.Source {
	return sources
}

func TestRefreshSwapsStore(t *testing.T) {
	container := data.NewCatalogContainer()
	sched := NewScheduler(container, sourcesOf(fakeSource{name: "test", data: []byte(catalogJSON)}), "06:00")

	if err := sched.Refresh(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got := container.GetMedications(); len(got) != 2 {
		t.Fatalf("Expected 2 medications after refresh, got %d", len(got))
	}
	if _, ok := container.GetMedicationsByID()["tramadol"]; !ok {
		t.Error("Expected the lookup map to be rebuilt on refresh")
	}
	if container.GetLastUpdated().IsZero() {
		t.Error("Expected the refresh to stamp the store")
	}
}

func TestRefreshFailureLeavesStoreUntouched(t *testing.T) {
	container := data.NewCatalogContainer()
	good := NewScheduler(container, sourcesOf(fakeSource{name: "good", data: []byte(catalogJSON)}), "06:00")
	if err := good.Refresh(); err != nil {
		t.Fatalf("Seed refresh failed: %v", err)
	}

	bad := NewScheduler(container, sourcesOf(
		fakeSource{name: "down", err: errors.New("connection refused")},
		fakeSource{name: "corrupt", data: []byte("{not json")},
	), "06:00")

	if err := bad.Refresh(); err == nil {
		t.Fatal("Expected an error when every source fails")
	}

	// The previously loaded catalog must survive a failed refresh
	if got := container.GetMedications(); len(got) != 2 {
		t.Errorf("Expected the prior catalog to remain, got %d medications", len(got))
	}
}

func TestRefreshSkippedWhileUpdating(t *testing.T) {
	container := data.NewCatalogContainer()
	sched := NewScheduler(container, sourcesOf(fakeSource{name: "test", data: []byte(catalogJSON)}), "06:00")

	if !container.BeginUpdate() {
		t.Fatal("Could not mark an update in progress")
	}
	defer container.EndUpdate()

	// A concurrent refresh is a no-op, not an error
	if err := sched.Refresh(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(container.GetMedications()) != 0 {
		t.Error("Expected no catalog swap while another update holds the lock")
	}
}
