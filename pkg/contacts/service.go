// Package contacts implements contact CRUD over the record store, producing
// canonical contact models from raw records.
package contacts

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
	"github.com/salesbridge/salesbridge/pkg/phone"
)

// TableName is the record-store collection backing contacts
const TableName = "contact_c"

const (
	fieldName        = "Name"
	fieldTags        = "Tags"
	fieldCompany     = "company_c"
	fieldCreatedAt   = "created_at_c"
	fieldEmail       = "email_c"
	fieldLastContact = "last_contact_date_c"
	fieldNotes       = "notes_c"
	fieldPhone       = "phone_c"
	fieldUpdatedAt   = "updated_at_c"
	fieldCompanyID   = "company_id_c"
)

var fetchFields = apper.Fields(
	fieldName, fieldTags, fieldCompany, fieldCreatedAt, fieldEmail,
	fieldLastContact, fieldNotes, fieldPhone, fieldUpdatedAt, fieldCompanyID,
)

const cacheKey = "contacts:all"

// Recalculator recomputes a company's aggregate fields. The companies service
// implements it; contacts only ever calls it asynchronously after a mutation.
type Recalculator interface {
	RecalculateMetrics(ctx context.Context, companyID int) error
}

// Service handles contact business logic
type Service struct {
	store       apper.Store
	cache       *cache.Client
	log         logger.Logger
	ttl         time.Duration
	phoneRegion string
	recalc      Recalculator
}

// NewService creates a new contact service
func NewService(store apper.Store, cache *cache.Client, log logger.Logger, ttl time.Duration) *Service {
	return &Service{
		store:       store,
		cache:       cache,
		log:         log,
		ttl:         ttl,
		phoneRegion: phone.DefaultRegion,
	}
}

// SetRecalculator wires the company-metrics trigger. Without one, contact
// mutations simply skip the recomputation side effect.
func (s *Service) SetRecalculator(r Recalculator) {
	s.recalc = r
}

// SetPhoneRegion sets the region used to normalize phone numbers on writes
func (s *Service) SetPhoneRegion(region string) {
	if region != "" {
		s.phoneRegion = region
	}
}

// GetAll returns every contact, newest first. The full list is cached;
// mutations invalidate it.
func (s *Service) GetAll(ctx context.Context) ([]models.Contact, error) {
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != "" {
		var out []models.Contact
		if err := json.Unmarshal([]byte(cached), &out); err == nil {
			return out, nil
		}
	}

	records, err := s.store.FetchRecords(ctx, TableName, apper.FetchParams{
		Fields:  fetchFields,
		OrderBy: apper.Desc(fieldCreatedAt),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contacts: %w", err)
	}

	out := make([]models.Contact, len(records))
	for i, rec := range records {
		out[i] = normalize(rec)
	}

	if payload, err := json.Marshal(out); err == nil {
		_ = s.cache.Set(ctx, cacheKey, payload, s.ttl)
	}

	return out, nil
}

// GetByID returns a single contact, or models.ErrNotFound
func (s *Service) GetByID(ctx context.Context, id int) (*models.Contact, error) {
	rec, err := s.store.GetRecordByID(ctx, TableName, id, apper.FetchParams{Fields: fetchFields})
	if err != nil {
		if errors.Is(err, apper.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get contact %d: %w", id, err)
	}

	contact := normalize(rec)
	return &contact, nil
}

// Create stores a new contact and triggers company-metrics recomputation when
// the contact references a company.
func (s *Service) Create(ctx context.Context, req models.CreateContactRequest) (*models.Contact, error) {
	now := time.Now().UTC().Format(time.RFC3339)

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "Unnamed Contact"
	}

	rec := apper.Record{
		fieldName:      name,
		fieldEmail:     strings.TrimSpace(req.Email),
		fieldPhone:     phone.Normalize(req.Phone, s.phoneRegion),
		fieldCompany:   strings.TrimSpace(req.Company),
		fieldNotes:     strings.TrimSpace(req.Notes),
		fieldCreatedAt: now,
		fieldUpdatedAt: now,
	}
	if req.CompanyID != nil {
		rec[fieldCompanyID] = *req.CompanyID
	} else {
		rec[fieldCompanyID] = nil
	}

	results, err := s.store.CreateRecords(ctx, TableName, []apper.Record{rec})
	if err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	created, err := apper.FirstSuccess(results, s.log)
	if err != nil {
		return nil, models.ErrCreateFailed
	}

	s.invalidate(ctx)
	contact := normalize(created)
	s.triggerRecalc(contact.CompanyID)
	return &contact, nil
}

// Update applies a partial update; only non-nil request fields are written
func (s *Service) Update(ctx context.Context, id int, req models.UpdateContactRequest) (*models.Contact, error) {
	patch := apper.Record{"Id": id}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		patch[fieldName] = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		patch[fieldEmail] = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		patch[fieldPhone] = phone.Normalize(*req.Phone, s.phoneRegion)
	}
	if req.Company != nil {
		patch[fieldCompany] = strings.TrimSpace(*req.Company)
	}
	if req.CompanyID != nil {
		patch[fieldCompanyID] = *req.CompanyID
	}
	if req.Notes != nil {
		patch[fieldNotes] = strings.TrimSpace(*req.Notes)
	}
	if req.LastContactDate != nil {
		patch[fieldLastContact] = *req.LastContactDate
	}
	patch[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)

	results, err := s.store.UpdateRecords(ctx, TableName, []apper.Record{patch})
	if err != nil {
		return nil, fmt.Errorf("failed to update contact %d: %w", id, err)
	}

	updated, err := apper.FirstSuccess(results, s.log)
	if err != nil {
		return nil, models.ErrUpdateFailed
	}

	s.invalidate(ctx)
	contact := normalize(updated)
	s.triggerRecalc(contact.CompanyID)
	return &contact, nil
}

// Delete removes a contact by id
func (s *Service) Delete(ctx context.Context, id int) error {
	results, err := s.store.DeleteRecords(ctx, TableName, []int{id})
	if err != nil {
		return fmt.Errorf("failed to delete contact %d: %w", id, err)
	}

	if !apper.AllSucceeded(results) {
		return models.ErrDeleteFailed
	}

	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, "contacts:*"); err != nil {
		s.log.Warn("failed to invalidate contact cache", "error", err)
	}
}

// triggerRecalc fires the aggregate recomputation in the background. The
// read-modify-write inside is unguarded; last write wins.
func (s *Service) triggerRecalc(companyID *int) {
	if s.recalc == nil || companyID == nil {
		return
	}
	id := *companyID
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.recalc.RecalculateMetrics(ctx, id); err != nil {
			s.log.Error("failed to recompute company metrics", "company_id", id, "error", err)
		}
	}()
}
