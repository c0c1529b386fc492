// Package quotes implements quote CRUD. Quotes differ from the other
// entities in relying on the store's system timestamps rather than their own
// created/updated fields, and in referencing deals purely through a lookup.
package quotes

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

// TableName is the record-store collection backing quotes
const TableName = "quote_c"

const (
	fieldName        = "Name"
	fieldTags        = "Tags"
	fieldQuoteNumber = "quote_number_c"
	fieldDealID      = "deal_c_id_c"
	fieldQuoteDate   = "quote_date_c"
	fieldValidUntil  = "valid_until_date_c"
	fieldAmount      = "quote_amount_c"
	fieldNotes       = "notes_c"
	fieldStatus      = "status_c"
	fieldCreatedOn   = "CreatedOn"
	fieldModifiedOn  = "ModifiedOn"
)

var fetchFields = apper.Fields(
	fieldName, fieldTags, fieldQuoteNumber, fieldDealID, fieldQuoteDate,
	fieldValidUntil, fieldAmount, fieldNotes, fieldStatus,
	fieldCreatedOn, fieldModifiedOn,
)

const cacheKey = "quotes:all"

// Service handles quote business logic
type Service struct {
	store apper.Store
	cache *cache.Client
	log   logger.Logger
	ttl   time.Duration
}

// NewService creates a new quote service
func NewService(store apper.Store, cache *cache.Client, log logger.Logger, ttl time.Duration) *Service {
	return &Service{
		store: store,
		cache: cache,
		log:   log,
		ttl:   ttl,
	}
}

// GetAll returns every quote, newest first
func (s *Service) GetAll(ctx context.Context) ([]models.Quote, error) {
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != "" {
		var out []models.Quote
		if err := json.Unmarshal([]byte(cached), &out); err == nil {
			return out, nil
		}
	}

	records, err := s.store.FetchRecords(ctx, TableName, apper.FetchParams{
		Fields:  fetchFields,
		OrderBy: apper.Desc(fieldCreatedOn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quotes: %w", err)
	}

	out := make([]models.Quote, len(records))
	for i, rec := range records {
		out[i] = normalize(rec)
	}

	if payload, err := json.Marshal(out); err == nil {
		_ = s.cache.Set(ctx, cacheKey, payload, s.ttl)
	}

	return out, nil
}

// GetByID returns a single quote, or models.ErrNotFound
func (s *Service) GetByID(ctx context.Context, id int) (*models.Quote, error) {
	rec, err := s.store.GetRecordByID(ctx, TableName, id, apper.FetchParams{Fields: fetchFields})
	if err != nil {
		if errors.Is(err, apper.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get quote %d: %w", id, err)
	}

	quote := normalize(rec)
	return &quote, nil
}

// Create stores a new quote. Status defaults to Draft.
func (s *Service) Create(ctx context.Context, req models.CreateQuoteRequest) (*models.Quote, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "Untitled Quote"
	}
	status := req.Status
	if status == "" {
		status = models.QuoteStatusDraft
	}

	rec := apper.Record{
		fieldName:        name,
		fieldQuoteNumber: strings.TrimSpace(req.QuoteNumber),
		fieldAmount:      req.Amount,
		fieldNotes:       strings.TrimSpace(req.Notes),
		fieldStatus:      status,
		fieldTags:        strings.TrimSpace(req.Tags),
	}
	if req.DealID != nil {
		rec[fieldDealID] = *req.DealID
	} else {
		rec[fieldDealID] = nil
	}
	if req.QuoteDate != "" {
		rec[fieldQuoteDate] = req.QuoteDate
	} else {
		rec[fieldQuoteDate] = nil
	}
	if req.ValidUntilDate != "" {
		rec[fieldValidUntil] = req.ValidUntilDate
	} else {
		rec[fieldValidUntil] = nil
	}

	results, err := s.store.CreateRecords(ctx, TableName, []apper.Record{rec})
	if err != nil {
		return nil, fmt.Errorf("failed to create quote: %w", err)
	}

	created, err := apper.FirstSuccess(results, s.log)
	if err != nil {
		return nil, models.ErrCreateFailed
	}

	s.invalidate(ctx)
	quote := normalize(created)
	return &quote, nil
}

// Update applies a partial update; only non-nil request fields are written
func (s *Service) Update(ctx context.Context, id int, req models.UpdateQuoteRequest) (*models.Quote, error) {
	patch := apper.Record{"Id": id}

	if req.Name != nil {
		patch[fieldName] = strings.TrimSpace(*req.Name)
	}
	if req.QuoteNumber != nil {
		patch[fieldQuoteNumber] = strings.TrimSpace(*req.QuoteNumber)
	}
	if req.DealID != nil {
		patch[fieldDealID] = *req.DealID
	}
	if req.QuoteDate != nil {
		patch[fieldQuoteDate] = *req.QuoteDate
	}
	if req.ValidUntilDate != nil {
		patch[fieldValidUntil] = *req.ValidUntilDate
	}
	if req.Amount != nil {
		patch[fieldAmount] = *req.Amount
	}
	if req.Notes != nil {
		patch[fieldNotes] = strings.TrimSpace(*req.Notes)
	}
	if req.Status != nil {
		patch[fieldStatus] = *req.Status
	}
	if req.Tags != nil {
		patch[fieldTags] = strings.TrimSpace(*req.Tags)
	}

	results, err := s.store.UpdateRecords(ctx, TableName, []apper.Record{patch})
	if err != nil {
		return nil, fmt.Errorf("failed to update quote %d: %w", id, err)
	}

	updated, err := apper.FirstSuccess(results, s.log)
	if err != nil {
		return nil, models.ErrUpdateFailed
	}

	s.invalidate(ctx)
	quote := normalize(updated)
	return &quote, nil
}

// Delete removes a quote by id
func (s *Service) Delete(ctx context.Context, id int) error {
	results, err := s.store.DeleteRecords(ctx, TableName, []int{id})
	if err != nil {
		return fmt.Errorf("failed to delete quote %d: %w", id, err)
	}

	if !apper.AllSucceeded(results) {
		return models.ErrDeleteFailed
	}

	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, "quotes:*"); err != nil {
		s.log.Warn("failed to invalidate quote cache", "error", err)
	}
}
