// Package catalogloader resolves the active medication catalog from an
// ordered list of sources and parses user-supplied catalog overrides.
package catalogloader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/vetdose/vetdose-api/catalogloader/entities"
	"github.com/vetdose/vetdose-api/logging"
)

// Source is one place a catalog document can be fetched from.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]byte, error)
}

// FileSource reads the catalog document from the local filesystem.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return "file:" + s.Path }

func (s FileSource) Fetch(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.Path, err)
	}
	return data, nil
}

// HTTPSource fetches the catalog document over HTTP.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s HTTPSource) Name() string { return s.URL }

func (s HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 1 * time.Minute}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", s.URL, err)
	}

	response, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", s.URL, err)
	}
	defer func() {
		if err := response.Body.Close(); err != nil {
			logging.Warn("Failed to close response body", "error", err)
		}
	}()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", response.StatusCode, s.URL)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body from %s: %w", s.URL, err)
	}
	return body, nil
}

// LoadError means no configured source yielded a structurally valid
// catalog. The per-source failures are kept for logging and diagnostics.
type LoadError struct {
	Attempts []error
}

func (e *LoadError) Error() string {
	if len(e.Attempts) == 0 {
		return "no catalog sources configured"
	}
	reasons := make([]string, len(e.Attempts))
	for i, err := range e.Attempts {
		reasons[i] = err.Error()
	}
	return "no catalog source succeeded: " + strings.Join(reasons, "; ")
}

// ValidationError means a user-supplied payload was not parseable JSON or
// lacked the medications field.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid catalog payload: " + e.Reason
}

// Load tries the sources in order and returns the catalog from the first
// one whose fetch and structural parse both succeed. The caller replaces
// the store only on success, so a failed load leaves the prior catalog
// untouched.
func Load(ctx context.Context, sources ...Source) (*entities.Catalog, error) {
	var attempts []error

	for _, source := range sources {
		raw, err := source.Fetch(ctx)
		if err != nil {
			logging.Warn("Catalog source fetch failed", "source", source.Name(), "error", err)
			attempts = append(attempts, err)
			continue
		}

		cat, err := parseCatalog(raw)
		if err != nil {
			logging.Warn("Catalog source parse failed", "source", source.Name(), "error", err)
			attempts = append(attempts, fmt.Errorf("%s: %w", source.Name(), err))
			continue
		}

		logging.Info("Catalog loaded", "source", source.Name(), "medication_count", len(cat.Medications))
		return cat, nil
	}

	return nil, &LoadError{Attempts: attempts}
}

// ParseUserPayload parses arbitrary user-supplied text as a catalog. It
// enforces the same structural minimum as Load; any failure is reported as
// a ValidationError and must not mutate the active store.
func ParseUserPayload(raw []byte) (*entities.Catalog, error) {
	cat, err := parseCatalog(raw)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	return cat, nil
}

// catalogDocument mirrors entities.Catalog with a pointer medications
// field, so a present-but-empty list is distinguishable from a missing one.
type catalogDocument struct {
	SchemaVersion int                    `json:"schema_version"`
	UpdatedDate   string                 `json:"updated_date"`
	Medications   *[]entities.Medication `json:"medications"`
}

// parseCatalog applies the structural minimum: valid JSON with a
// medications field. Deeper invariants are the validation package's
// concern and never block a load.
func parseCatalog(raw []byte) (*entities.Catalog, error) {
	var doc catalogDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("not valid JSON: %w", err)
	}
	if doc.Medications == nil {
		return nil, fmt.Errorf("missing medications field")
	}

	return &entities.Catalog{
		SchemaVersion: doc.SchemaVersion,
		UpdatedDate:   doc.UpdatedDate,
		Medications:   *doc.Medications,
	}, nil
}
