// Package handlers provides the HTTP request handlers for the vetdose API
// endpoints, with dependencies injected through the interfaces package.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vetdose/vetdose-api/catalog"
	"github.com/vetdose/vetdose-api/catalogloader"
	"github.com/vetdose/vetdose-api/catalogloader/entities"
	"github.com/vetdose/vetdose-api/data"
	"github.com/vetdose/vetdose-api/dosing"
	"github.com/vetdose/vetdose-api/interfaces"
	"github.com/vetdose/vetdose-api/logging"
	"github.com/vetdose/vetdose-api/metrics"
)

// Compile-time check to ensure HTTPHandlerImpl implements HTTPHandler
var _ interfaces.HTTPHandler = (*HTTPHandlerImpl)(nil)

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	store     interfaces.CatalogStore
	validator interfaces.CatalogValidator
	checker   interfaces.HealthChecker
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(store interfaces.CatalogStore, validator interfaces.CatalogValidator, checker interfaces.HealthChecker) *HTTPHandlerImpl {
	return &HTTPHandlerImpl{
		store:     store,
		validator: validator,
		checker:   checker,
	}
}

// RespondWithJSON writes a JSON response
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	if _, err := w.Write(body); err != nil {
		logging.Warn("Failed to write response body", "error", err)
	}
}

// RespondWithError writes a JSON error response
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, code int, message string) {
	errorResponse := map[string]interface{}{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	}
	h.RespondWithJSON(w, code, errorResponse)
}

// ServeCatalog returns the full active catalog
func (h *HTTPHandlerImpl) ServeCatalog(w http.ResponseWriter, r *http.Request) {
	h.RespondWithJSON(w, http.StatusOK, h.store.GetCatalog())
}

// ServePagedCatalog returns one page of the medication list
func (h *HTTPHandlerImpl) ServePagedCatalog(w http.ResponseWriter, r *http.Request) {
	pageNumber := chi.URLParam(r, "pageNumber")
	page, err := strconv.Atoi(pageNumber)
	if err != nil || page < 1 {
		logging.Warn("Unusual user input", "pageNumber", pageNumber)
		h.RespondWithError(w, http.StatusBadRequest, "Invalid page number")
		return
	}

	medications := h.store.GetMedications()
	pageSize := 10
	start := (page - 1) * pageSize
	end := start + pageSize

	if start >= len(medications) {
		h.RespondWithError(w, http.StatusNotFound, "Page not found")
		return
	}

	if end > len(medications) {
		end = len(medications)
	}

	totalItems := len(medications)
	maxPage := (totalItems + pageSize - 1) / pageSize

	response := map[string]interface{}{
		"data":       medications[start:end],
		"page":       page,
		"pageSize":   pageSize,
		"totalItems": totalItems,
		"maxPage":    maxPage,
	}

	h.RespondWithJSON(w, http.StatusOK, response)
}

// SearchMedications searches by name or synonym, accent- and
// case-insensitively
func (h *HTTPHandlerImpl) SearchMedications(w http.ResponseWriter, r *http.Request) {
	query := chi.URLParam(r, "query")
	if query == "" {
		h.RespondWithError(w, http.StatusBadRequest, "Missing search term")
		return
	}

	if err := h.validator.ValidateInput(query); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	results := catalog.Search(query, h.store.GetMedications())
	if results == nil {
		results = []entities.Medication{}
	}

	// Always return 200 with a results array (empty if no matches)
	h.RespondWithJSON(w, http.StatusOK, results)
}

// FindMedicationByID finds a medication by its catalog id
func (h *HTTPHandlerImpl) FindMedicationByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	med, exists := h.store.GetMedicationsByID()[id]
	if !exists {
		h.RespondWithError(w, http.StatusNotFound, "Medication not found")
		return
	}

	h.RespondWithJSON(w, http.StatusOK, med)
}

// TableRow is one row of the filtered table view.
type TableRow struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Routes             []string `json:"routes"`
	Species            []string `json:"species"`
	DoseRangeSummary   string   `json:"dose_range_summary"`
	PresentationLabels []string `json:"presentation_labels,omitempty"`
}

// ServeTable returns the table view filtered by the route and species
// query parameters; empty or "any" means no constraint.
func (h *HTTPHandlerImpl) ServeTable(w http.ResponseWriter, r *http.Request) {
	routeFilter := r.URL.Query().Get("route")
	speciesFilter := r.URL.Query().Get("species")

	filtered := catalog.FilterTable(routeFilter, speciesFilter, h.store.GetMedications())

	rows := make([]TableRow, 0, len(filtered))
	for i := range filtered {
		m := &filtered[i]

		labels := make([]string, 0, len(m.Presentations))
		for j := range m.Presentations {
			labels = append(labels, catalog.PresentationLabel(&m.Presentations[j]))
		}

		rows = append(rows, TableRow{
			ID:                 m.ID,
			Name:               m.Name,
			Routes:             m.Routes,
			Species:            m.Species,
			DoseRangeSummary:   catalog.DoseRangeSummary(m),
			PresentationLabels: labels,
		})
	}

	h.RespondWithJSON(w, http.StatusOK, rows)
}

// SuggestDose returns the pre-fill suggestion for a medication/species
// pair: the mean of the recommended range and its interval.
func (h *HTTPHandlerImpl) SuggestDose(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	species := chi.URLParam(r, "species")

	med, exists := h.store.GetMedicationsByID()[id]
	if !exists {
		h.RespondWithError(w, http.StatusNotFound, "Medication not found")
		return
	}

	suggestion, ok := dosing.Suggest(&med, species)
	if !ok {
		h.RespondWithError(w, http.StatusNotFound, "No dose range for this species")
		return
	}

	h.RespondWithJSON(w, http.StatusOK, suggestion)
}

// ComputeDose runs a dose calculation for a medication from the JSON
// request body. Validation failures name the offending field; a ceiling
// violation is a flag on the result, never a failure.
func (h *HTTPHandlerImpl) ComputeDose(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	med, exists := h.store.GetMedicationsByID()[id]
	if !exists {
		h.RespondWithError(w, http.StatusNotFound, "Medication not found")
		return
	}

	var req dosing.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := dosing.ComputeDose(&med, req)
	if err != nil {
		var validationErr *dosing.ValidationError
		if errors.As(err, &validationErr) {
			metrics.DoseCalculations.WithLabelValues("invalid").Inc()
			h.RespondWithError(w, http.StatusBadRequest, validationErr.Error())
			return
		}
		metrics.DoseCalculations.WithLabelValues("error").Inc()
		h.RespondWithError(w, http.StatusInternalServerError, "Dose calculation failed")
		return
	}

	metrics.DoseCalculations.WithLabelValues("success").Inc()
	h.RespondWithJSON(w, http.StatusOK, result)
}

// UploadCatalog replaces the active catalog with a user-supplied one. A
// payload that fails the structural check is rejected and the active
// catalog is left untouched.
func (h *HTTPHandlerImpl) UploadCatalog(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	cat, err := catalogloader.ParseUserPayload(raw)
	if err != nil {
		var validationErr *catalogloader.ValidationError
		if errors.As(err, &validationErr) {
			metrics.CatalogLoads.WithLabelValues("invalid").Inc()
			h.RespondWithError(w, http.StatusBadRequest, validationErr.Error())
			return
		}
		h.RespondWithError(w, http.StatusInternalServerError, "Failed to parse catalog")
		return
	}

	if !h.store.BeginUpdate() {
		h.RespondWithError(w, http.StatusConflict, "A catalog refresh is in progress, try again shortly")
		return
	}
	defer h.store.EndUpdate()

	h.store.ReplaceCatalog(cat, data.BuildMedicationsIndex(cat.Medications))

	metrics.CatalogLoads.WithLabelValues("success").Inc()
	metrics.CatalogMedications.Set(float64(len(cat.Medications)))
	logging.Info("Catalog replaced from user payload",
		"medication_count", len(cat.Medications),
		"catalog_date", cat.UpdatedDate,
	)

	h.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":           "catalog replaced",
		"medication_count": len(cat.Medications),
		"catalog_date":     cat.UpdatedDate,
		"schema_version":   cat.SchemaVersion,
	})
}

// HealthCheck returns server health information
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, details, httpStatus := h.checker.HealthCheck()

	response := map[string]interface{}{
		"status": status,
		"data":   details,
	}

	h.RespondWithJSON(w, httpStatus, response)
}
