package companies

import (
	"context"
	"fmt"
	"time"

	"github.com/salesbridge/salesbridge/pkg/apper"
)

// Contact and deal tables are read directly here with minimal projections.
// Pulling in the full contact/deal services would create an import cycle,
// since those services call back into this one after mutations.
const (
	contactTable = "contact_c"
	dealTable    = "deal_c"
)

var contactRefFields = apper.Fields(
	"Name", "company_c", "company_id_c", "created_at_c", "updated_at_c",
)

var dealRefFields = apper.Fields(
	"company_c", "value_c", "created_at_c", "updated_at_c",
)

// RecalculateMetrics recomputes one company's aggregates from the full
// contact and deal sets and writes them back. The read-modify-write has no
// concurrency guard; concurrent recomputations race and the last write wins.
func (s *Service) RecalculateMetrics(ctx context.Context, companyID int) error {
	company, err := s.GetByID(ctx, companyID)
	if err != nil {
		return fmt.Errorf("failed to load company %d for metrics: %w", companyID, err)
	}

	contacts, err := s.store.FetchRecords(ctx, contactTable, apper.FetchParams{Fields: contactRefFields})
	if err != nil {
		return fmt.Errorf("failed to fetch contacts for metrics: %w", err)
	}

	deals, err := s.store.FetchRecords(ctx, dealTable, apper.FetchParams{Fields: dealRefFields})
	if err != nil {
		return fmt.Errorf("failed to fetch deals for metrics: %w", err)
	}

	contactCount := 0
	var lastActivity time.Time

	for _, rec := range contacts {
		refID, _, _ := rec.Lookup("company_id_c")
		if rec.String("company_c") != company.Name && refID != company.ID {
			continue
		}
		contactCount++
		if ts := recordActivity(rec); ts.After(lastActivity) {
			lastActivity = ts
		}
	}

	totalDealValue := 0.0
	for _, rec := range deals {
		if rec.String("company_c") != company.Name {
			continue
		}
		totalDealValue += rec.Float("value_c")
		if ts := recordActivity(rec); ts.After(lastActivity) {
			lastActivity = ts
		}
	}

	patch := apper.Record{
		"Id":                companyID,
		fieldContactCount:   contactCount,
		fieldTotalDealValue: totalDealValue,
		fieldUpdatedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if lastActivity.IsZero() {
		patch[fieldLastActivity] = nil
	} else {
		patch[fieldLastActivity] = lastActivity.UTC().Format(time.RFC3339)
	}

	results, err := s.store.UpdateRecords(ctx, TableName, []apper.Record{patch})
	if err != nil {
		return fmt.Errorf("failed to write metrics for company %d: %w", companyID, err)
	}
	if !apper.AllSucceeded(results) {
		return fmt.Errorf("metrics update rejected for company %d", companyID)
	}

	s.invalidate(ctx)
	return nil
}

// RecalculateByName resolves a company by its exact name and recomputes its
// aggregates. An unknown name is a no-op: deals carry free-text company
// labels that need not match any stored company.
func (s *Service) RecalculateByName(ctx context.Context, name string) error {
	if name == "" || name == "No Company" {
		return nil
	}

	companies, err := s.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list companies for metrics: %w", err)
	}

	for _, company := range companies {
		if company.Name == name {
			return s.RecalculateMetrics(ctx, company.ID)
		}
	}
	return nil
}

// RefreshAll recomputes aggregates for every company. Failures are logged and
// skipped so one bad company does not stall the sweep.
func (s *Service) RefreshAll(ctx context.Context) error {
	companies, err := s.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list companies for refresh: %w", err)
	}

	failed := 0
	for _, company := range companies {
		if err := s.RecalculateMetrics(ctx, company.ID); err != nil {
			failed++
			s.log.Error("failed to refresh company metrics", "company_id", company.ID, "error", err)
		}
	}

	s.log.Info("company metrics refresh finished", "companies", len(companies), "failed", failed)
	if failed > 0 {
		return fmt.Errorf("metrics refresh failed for %d of %d companies", failed, len(companies))
	}
	return nil
}

// recordActivity returns the record's last-touched time, preferring the
// entity timestamp over the system one, and the update over the create.
func recordActivity(rec apper.Record) time.Time {
	value := rec.FirstString("updated_at_c", "ModifiedOn", "created_at_c", "CreatedOn")
	if value == "" {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}
