// Package companies implements company CRUD plus the derived aggregate
// fields (contact count, total deal value, last activity date). Aggregates
// are snapshots: they are recomputed after contact and deal mutations and by
// the nightly refresh, not kept continuously consistent.
package companies

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/salesbridge/salesbridge/pkg/apper"
	"github.com/salesbridge/salesbridge/pkg/cache"
	"github.com/salesbridge/salesbridge/pkg/logger"
	"github.com/salesbridge/salesbridge/pkg/models"
)

// TableName is the record-store collection backing companies
const TableName = "company_c"

const (
	fieldName           = "Name"
	fieldTags           = "Tags"
	fieldAddress        = "address_c"
	fieldContactCount   = "contact_count_c"
	fieldCreatedAt      = "created_at_c"
	fieldIndustry       = "industry_c"
	fieldLastActivity   = "last_activity_date_c"
	fieldNotes          = "notes_c"
	fieldTotalDealValue = "total_deal_value_c"
	fieldUpdatedAt      = "updated_at_c"
)

var fetchFields = apper.Fields(
	fieldName, fieldTags, fieldAddress, fieldContactCount, fieldCreatedAt,
	fieldIndustry, fieldLastActivity, fieldNotes, fieldTotalDealValue, fieldUpdatedAt,
)

const cacheKey = "companies:all"

// Service handles company business logic
type Service struct {
	store apper.Store
	cache *cache.Client
	log   logger.Logger
	ttl   time.Duration
}

// NewService creates a new company service
func NewService(store apper.Store, cache *cache.Client, log logger.Logger, ttl time.Duration) *Service {
	return &Service{
		store: store,
		cache: cache,
		log:   log,
		ttl:   ttl,
	}
}

// GetAll returns every company, most recently updated first
func (s *Service) GetAll(ctx context.Context) ([]models.Company, error) {
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != "" {
		var out []models.Company
		if err := json.Unmarshal([]byte(cached), &out); err == nil {
			return out, nil
		}
	}

	records, err := s.store.FetchRecords(ctx, TableName, apper.FetchParams{
		Fields:  fetchFields,
		OrderBy: apper.Desc(fieldUpdatedAt),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch companies: %w", err)
	}

	out := make([]models.Company, len(records))
	for i, rec := range records {
		out[i] = normalize(rec)
	}

	if payload, err := json.Marshal(out); err == nil {
		_ = s.cache.Set(ctx, cacheKey, payload, s.ttl)
	}

	return out, nil
}

// GetByID returns a single company, or models.ErrNotFound
func (s *Service) GetByID(ctx context.Context, id int) (*models.Company, error) {
	rec, err := s.store.GetRecordByID(ctx, TableName, id, apper.FetchParams{Fields: fetchFields})
	if err != nil {
		if errors.Is(err, apper.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get company %d: %w", id, err)
	}

	company := normalize(rec)
	return &company, nil
}

// Create stores a new company with zeroed aggregates
func (s *Service) Create(ctx context.Context, req models.CreateCompanyRequest) (*models.Company, error) {
	now := time.Now().UTC().Format(time.RFC3339)

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "Unnamed Company"
	}

	rec := apper.Record{
		fieldName:           name,
		fieldIndustry:       strings.TrimSpace(req.Industry),
		fieldAddress:        strings.TrimSpace(req.Address),
		fieldNotes:          strings.TrimSpace(req.Notes),
		fieldContactCount:   0,
		fieldTotalDealValue: 0,
		fieldCreatedAt:      now,
		fieldUpdatedAt:      now,
	}

	results, err := s.store.CreateRecords(ctx, TableName, []apper.Record{rec})
	if err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	created, err := apper.FirstSuccess(results, s.log)
	if err != nil {
		return nil, models.ErrCreateFailed
	}

	s.invalidate(ctx)
	company := normalize(created)
	return &company, nil
}

// Update applies a partial update; only non-nil request fields are written
func (s *Service) Update(ctx context.Context, id int, req models.UpdateCompanyRequest) (*models.Company, error) {
	patch := apper.Record{"Id": id}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		patch[fieldName] = strings.TrimSpace(*req.Name)
	}
	if req.Industry != nil {
		patch[fieldIndustry] = strings.TrimSpace(*req.Industry)
	}
	if req.Address != nil {
		patch[fieldAddress] = strings.TrimSpace(*req.Address)
	}
	if req.Notes != nil {
		patch[fieldNotes] = strings.TrimSpace(*req.Notes)
	}
	if req.ContactCount != nil {
		patch[fieldContactCount] = *req.ContactCount
	}
	if req.TotalDealValue != nil {
		patch[fieldTotalDealValue] = *req.TotalDealValue
	}
	if req.LastActivityDate != nil {
		patch[fieldLastActivity] = *req.LastActivityDate
	}
	patch[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)

	results, err := s.store.UpdateRecords(ctx, TableName, []apper.Record{patch})
	if err != nil {
		return nil, fmt.Errorf("failed to update company %d: %w", id, err)
	}

	updated, err := apper.FirstSuccess(results, s.log)
	if err != nil {
		return nil, models.ErrUpdateFailed
	}

	s.invalidate(ctx)
	company := normalize(updated)
	return &company, nil
}

// Delete removes a company by id. Contacts and deals referencing it keep
// their dangling references; nothing cascades.
func (s *Service) Delete(ctx context.Context, id int) error {
	results, err := s.store.DeleteRecords(ctx, TableName, []int{id})
	if err != nil {
		return fmt.Errorf("failed to delete company %d: %w", id, err)
	}

	if !apper.AllSucceeded(results) {
		return models.ErrDeleteFailed
	}

	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, "companies:*"); err != nil {
		s.log.Warn("failed to invalidate company cache", "error", err)
	}
}
