// Package scheduler refreshes the catalog from the configured sources on a
// daily schedule and keeps an eye on data freshness.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/vetdose/vetdose-api/catalogloader"
	"github.com/vetdose/vetdose-api/data"
	"github.com/vetdose/vetdose-api/interfaces"
	"github.com/vetdose/vetdose-api/logging"
	"github.com/vetdose/vetdose-api/metrics"
	"github.com/vetdose/vetdose-api/validation"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler reloads the catalog from its sources and swaps the store.
type Scheduler struct {
	store     interfaces.CatalogStore
	sources   []catalogloader.Source
	times     string
	scheduler *gocron.Scheduler
}

// NewScheduler creates a scheduler refreshing from the given sources at
// the given daily times (gocron format, e.g. "06:00;18:00").
func NewScheduler(store interfaces.CatalogStore, sources []catalogloader.Source, times string) *Scheduler {
	return &Scheduler{
		store:     store,
		sources:   sources,
		times:     times,
		scheduler: gocron.NewScheduler(time.Local),
	}
}

// Start performs the initial load and schedules the daily refreshes.
func (s *Scheduler) Start() error {
	// Initial load
	if err := s.Refresh(); err != nil {
		logging.Error("Failed to perform initial catalog load", "error", err)
		return fmt.Errorf("initial catalog load failed: %w", err)
	}

	_, err := s.scheduler.Every(1).Days().At(s.times).Do(func() {
		if err := s.Refresh(); err != nil {
			logging.Error("Failed to refresh catalog", "error", err)
		}
	})

	if err != nil {
		logging.Error("Failed to schedule catalog refresh", "error", err)
		return fmt.Errorf("failed to schedule catalog refresh: %w", err)
	}

	s.scheduler.StartAsync()

	s.startFreshnessMonitoring()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// Refresh loads the catalog from the sources and atomically swaps the
// store. A failed load leaves the active catalog untouched.
func (s *Scheduler) Refresh() error {
	// Prevent concurrent updates
	if !s.store.BeginUpdate() {
		logging.Info("Catalog refresh already in progress, skipping...")
		return nil
	}
	defer s.store.EndUpdate()

	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cat, err := catalogloader.Load(ctx, s.sources...)
	if err != nil {
		metrics.CatalogLoads.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	validator := validation.NewCatalogValidator()
	report := validator.ReportCatalogQuality(cat)

	if len(report.DuplicateIDs) > 0 {
		logging.Warn("Duplicate medication ids detected",
			"total", len(report.DuplicateIDs),
			"id_list", report.DuplicateIDs,
		)
	}

	if len(report.MedicationsWithoutDosing) > 0 {
		logging.Warn("Medications without dosing information",
			"count", len(report.MedicationsWithoutDosing),
			"id_list", report.MedicationsWithoutDosing,
		)
	}

	if len(report.PresentationsWithUnknownRoute) > 0 {
		logging.Warn("Presentations tagged with a route their medication does not declare",
			"count", len(report.PresentationsWithUnknownRoute),
			"list", report.PresentationsWithUnknownRoute,
		)
	}

	if len(report.InvertedDoseRanges) > 0 {
		logging.Warn("Dose ranges with low bound above high bound",
			"count", len(report.InvertedDoseRanges),
			"list", report.InvertedDoseRanges,
		)
	}

	// Atomic swap (zero downtime replacement)
	s.store.ReplaceCatalog(cat, data.BuildMedicationsIndex(cat.Medications))

	metrics.CatalogLoads.WithLabelValues("success").Inc()
	metrics.CatalogMedications.Set(float64(len(cat.Medications)))

	elapsed := time.Since(start)
	logging.Info("Catalog refresh completed",
		"duration", elapsed.String(),
		"medication_count", len(cat.Medications),
		"catalog_date", cat.UpdatedDate,
	)

	return nil
}

// startFreshnessMonitoring warns when the catalog misses its daily refresh.
func (s *Scheduler) startFreshnessMonitoring() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			lastUpdate := s.store.GetLastUpdated()
			if time.Since(lastUpdate) > 25*time.Hour {
				logging.Warn("Catalog hasn't been refreshed in over 25 hours")
			}
		}
	}()
}
