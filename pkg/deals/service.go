// Package deals implements deal CRUD, the stage pipeline views, and the
// status transition that stamps stage changes.
package deals

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

// TableName is the record-store collection backing deals
const TableName = "deal_c"

const (
	fieldName         = "Name"
	fieldTags         = "Tags"
	fieldAssignedTo   = "assigned_to_c"
	fieldCompany      = "company_c"
	fieldContactName  = "contact_name_c"
	fieldCreatedAt    = "created_at_c"
	fieldDescription  = "description_c"
	fieldCloseDate    = "expected_close_date_c"
	fieldNotes        = "notes_c"
	fieldProbability  = "probability_c"
	fieldSource       = "source_c"
	fieldStage        = "stage_c"
	fieldStageChanged = "stage_changed_at_c"
	fieldStatus       = "status_c"
	fieldTitle        = "title_c"
	fieldUpdatedAt    = "updated_at_c"
	fieldValue        = "value_c"
	fieldContactID    = "contact_id_c"
)

var fetchFields = apper.Fields(
	fieldName, fieldTags, fieldAssignedTo, fieldCompany, fieldContactName,
	fieldCreatedAt, fieldDescription, fieldCloseDate, fieldNotes,
	fieldProbability, fieldSource, fieldStage, fieldStageChanged, fieldStatus,
	fieldTitle, fieldUpdatedAt, fieldValue, fieldContactID,
)

const cacheKey = "deals:all"

// Recalculator recomputes a company's aggregates by its display name. Deals
// reference companies by free-text label, not id.
type Recalculator interface {
	RecalculateByName(ctx context.Context, company string) error
}

// Service handles deal business logic
type Service struct {
	store  apper.Store
	cache  *cache.Client
	log    logger.Logger
	ttl    time.Duration
	recalc Recalculator
}

// NewService creates a new deal service
func NewService(store apper.Store, cache *cache.Client, log logger.Logger, ttl time.Duration) *Service {
	return &Service{
		store: store,
		cache: cache,
		log:   log,
		ttl:   ttl,
	}
}

// SetRecalculator wires the company-metrics trigger
func (s *Service) SetRecalculator(r Recalculator) {
	s.recalc = r
}

// GetAll returns every deal, newest first
func (s *Service) GetAll(ctx context.Context) ([]models.Deal, error) {
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != "" {
		var out []models.Deal
		if err := json.Unmarshal([]byte(cached), &out); err == nil {
			return out, nil
		}
	}

	records, err := s.store.FetchRecords(ctx, TableName, apper.FetchParams{
		Fields:  fetchFields,
		OrderBy: apper.Desc(fieldCreatedAt),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deals: %w", err)
	}

	out := make([]models.Deal, len(records))
	for i, rec := range records {
		out[i] = normalize(rec)
	}

	if payload, err := json.Marshal(out); err == nil {
		_ = s.cache.Set(ctx, cacheKey, payload, s.ttl)
	}

	return out, nil
}

// GetByID returns a single deal, or models.ErrNotFound
func (s *Service) GetByID(ctx context.Context, id int) (*models.Deal, error) {
	rec, err := s.store.GetRecordByID(ctx, TableName, id, apper.FetchParams{Fields: fetchFields})
	if err != nil {
		if errors.Is(err, apper.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get deal %d: %w", id, err)
	}

	deal := normalize(rec)
	return &deal, nil
}

// GetByStage returns deals in the given pipeline stage
func (s *Service) GetByStage(ctx context.Context, stage string) ([]models.Deal, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.Deal, 0, len(all))
	for _, deal := range all {
		if deal.Stage == stage {
			out = append(out, deal)
		}
	}
	return out, nil
}

// GetPipelineStats aggregates deal count and value per stage, in the fixed
// stage order. Every stage is present even when empty.
func (s *Service) GetPipelineStats(ctx context.Context) ([]models.StagePipeline, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	byStage := make(map[string]*models.StagePipeline, len(models.DealStages))
	stats := make([]models.StagePipeline, len(models.DealStages))
	for i, stage := range models.DealStages {
		stats[i] = models.StagePipeline{Stage: stage}
		byStage[stage] = &stats[i]
	}

	for _, deal := range all {
		if entry, ok := byStage[deal.Stage]; ok {
			entry.Count++
			entry.Value += deal.Value
		}
	}

	return stats, nil
}

// Create stores a new deal, stamping the stage-changed timestamp, and
// triggers metrics recomputation for the referenced company.
func (s *Service) Create(ctx context.Context, req models.CreateDealRequest) (*models.Deal, error) {
	now := time.Now().UTC().Format(time.RFC3339)

	title := strings.TrimSpace(req.Title)
	name := title
	if name == "" {
		name = "Untitled Deal"
	}

	contactName := req.ContactName
	if contactName == "" {
		contactName = "Unknown Contact"
	}
	company := req.Company
	if company == "" {
		company = "No Company"
	}
	probability := 50
	if req.Probability != nil {
		probability = *req.Probability
	}
	status := req.Status
	if status == "" {
		status = "active"
	}
	stage := req.Stage
	if stage == "" {
		stage = models.StageLead
	}

	rec := apper.Record{
		fieldName:         name,
		fieldTitle:        title,
		fieldContactName:  contactName,
		fieldCompany:      company,
		fieldValue:        req.Value,
		fieldProbability:  probability,
		fieldNotes:        strings.TrimSpace(req.Notes),
		fieldStatus:       status,
		fieldStage:        stage,
		fieldSource:       req.Source,
		fieldDescription:  strings.TrimSpace(req.Description),
		fieldCreatedAt:    now,
		fieldUpdatedAt:    now,
		fieldStageChanged: now,
	}
	if req.ContactID != nil {
		rec[fieldContactID] = *req.ContactID
	} else {
		rec[fieldContactID] = nil
	}
	if req.ExpectedCloseDate != "" {
		rec[fieldCloseDate] = req.ExpectedCloseDate
	} else {
		rec[fieldCloseDate] = nil
	}
	if req.AssignedTo != "" {
		rec[fieldAssignedTo] = req.AssignedTo
	} else {
		rec[fieldAssignedTo] = nil
	}

	results, err := s.store.CreateRecords(ctx, TableName, []apper.Record{rec})
	if err != nil {
		return nil, fmt.Errorf("failed to create deal: %w", err)
	}

	created, err := apper.FirstSuccess(results, s.log)
	if err != nil {
		return nil, models.ErrCreateFailed
	}

	s.invalidate(ctx)
	deal := normalize(created)
	s.triggerRecalc(deal.Company)
	return &deal, nil
}

// Update applies a partial update; only non-nil request fields are written.
// A title change also rewrites the record's display name.
func (s *Service) Update(ctx context.Context, id int, req models.UpdateDealRequest) (*models.Deal, error) {
	patch := apper.Record{"Id": id}

	if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
		patch[fieldTitle] = strings.TrimSpace(*req.Title)
		patch[fieldName] = strings.TrimSpace(*req.Title)
	}
	if req.ContactID != nil {
		patch[fieldContactID] = *req.ContactID
	}
	if req.ContactName != nil {
		patch[fieldContactName] = *req.ContactName
	}
	if req.Company != nil {
		patch[fieldCompany] = *req.Company
	}
	if req.Value != nil {
		patch[fieldValue] = *req.Value
	}
	if req.Probability != nil {
		patch[fieldProbability] = *req.Probability
	}
	if req.ExpectedCloseDate != nil {
		patch[fieldCloseDate] = *req.ExpectedCloseDate
	}
	if req.Notes != nil {
		patch[fieldNotes] = strings.TrimSpace(*req.Notes)
	}
	if req.AssignedTo != nil {
		patch[fieldAssignedTo] = *req.AssignedTo
	}
	if req.Status != nil {
		patch[fieldStatus] = *req.Status
	}
	if req.Stage != nil {
		patch[fieldStage] = *req.Stage
	}
	if req.Source != nil {
		patch[fieldSource] = *req.Source
	}
	if req.Description != nil {
		patch[fieldDescription] = strings.TrimSpace(*req.Description)
	}
	patch[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)

	results, err := s.store.UpdateRecords(ctx, TableName, []apper.Record{patch})
	if err != nil {
		return nil, fmt.Errorf("failed to update deal %d: %w", id, err)
	}

	updated, err := apper.FirstSuccess(results, s.log)
	if err != nil {
		return nil, models.ErrUpdateFailed
	}

	s.invalidate(ctx)
	deal := normalize(updated)
	s.triggerRecalc(deal.Company)
	return &deal, nil
}

// UpdateStatus moves a deal's status and stage together and stamps the
// stage-changed timestamp
func (s *Service) UpdateStatus(ctx context.Context, id int, status, stage string) (*models.Deal, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	patch := apper.Record{
		"Id":              id,
		fieldStatus:       status,
		fieldStage:        stage,
		fieldStageChanged: now,
		fieldUpdatedAt:    now,
	}

	results, err := s.store.UpdateRecords(ctx, TableName, []apper.Record{patch})
	if err != nil {
		return nil, fmt.Errorf("failed to update deal status %d: %w", id, err)
	}

	updated, err := apper.FirstSuccess(results, s.log)
	if err != nil {
		return nil, models.ErrUpdateFailed
	}

	s.invalidate(ctx)
	deal := normalize(updated)
	return &deal, nil
}

// Delete removes a deal by id
func (s *Service) Delete(ctx context.Context, id int) error {
	results, err := s.store.DeleteRecords(ctx, TableName, []int{id})
	if err != nil {
		return fmt.Errorf("failed to delete deal %d: %w", id, err)
	}

	if !apper.AllSucceeded(results) {
		return models.ErrDeleteFailed
	}

	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, "deals:*"); err != nil {
		s.log.Warn("failed to invalidate deal cache", "error", err)
	}
}

func (s *Service) triggerRecalc(company string) {
	if s.recalc == nil || company == "" || company == "No Company" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.recalc.RecalculateByName(ctx, company); err != nil {
			s.log.Error("failed to recompute company metrics", "company", company, "error", err)
		}
	}()
}
