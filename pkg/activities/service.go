// Package activities implements activity CRUD and the task views built on
// top of it: open tasks, completed history, overdue tasks, and the per-contact
// and per-deal timelines.
package activities

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/salesbridge/salesbridge/pkg/apper"
	"github.com/salesbridge/salesbridge/pkg/cache"
	"github.com/salesbridge/salesbridge/pkg/logger"
	"github.com/salesbridge/salesbridge/pkg/models"
)

// TableName is the record-store collection backing activities
const TableName = "activity_c"

const (
	fieldName        = "Name"
	fieldTags        = "Tags"
	fieldAssignedTo  = "assigned_to_c"
	fieldCompletedAt = "completed_at_c"
	fieldContactName = "contact_name_c"
	fieldCreatedAt   = "created_at_c"
	fieldDealTitle   = "deal_title_c"
	fieldDescription = "description_c"
	fieldDueDate     = "due_date_c"
	fieldOutcome     = "outcome_c"
	fieldPriority    = "priority_c"
	fieldStatus      = "status_c"
	fieldTitle       = "title_c"
	fieldType        = "type_c"
	fieldUpdatedAt   = "updated_at_c"
	fieldContactID   = "contact_id_c"
	fieldDealID      = "deal_id_c"
)

var fetchFields = apper.Fields(
	fieldName, fieldTags, fieldAssignedTo, fieldCompletedAt, fieldContactName,
	fieldCreatedAt, fieldDealTitle, fieldDescription, fieldDueDate,
	fieldOutcome, fieldPriority, fieldStatus, fieldTitle, fieldType,
	fieldUpdatedAt, fieldContactID, fieldDealID,
)

const cacheKey = "activities:all"

// defaultOutcome is recorded when a task is completed without a note
const defaultOutcome = "Task completed successfully"

// Service handles activity business logic
type Service struct {
	store apper.Store
	cache *cache.Client
	log   logger.Logger
	ttl   time.Duration
	now   func() time.Time
}

// NewService creates a new activity service
func NewService(store apper.Store, cache *cache.Client, log logger.Logger, ttl time.Duration) *Service {
	return &Service{
		store: store,
		cache: cache,
		log:   log,
		ttl:   ttl,
		now:   time.Now,
	}
}

// GetAll returns every activity, newest first
func (s *Service) GetAll(ctx context.Context) ([]models.Activity, error) {
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != "" {
		var out []models.Activity
		if err := json.Unmarshal([]byte(cached), &out); err == nil {
			return out, nil
		}
	}

	records, err := s.store.FetchRecords(ctx, TableName, apper.FetchParams{
		Fields:  fetchFields,
		OrderBy: apper.Desc(fieldCreatedAt),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activities: %w", err)
	}

	out := make([]models.Activity, len(records))
	for i, rec := range records {
		out[i] = normalize(rec)
	}

	if payload, err := json.Marshal(out); err == nil {
		_ = s.cache.Set(ctx, cacheKey, payload, s.ttl)
	}

	return out, nil
}

// GetByID returns a single activity, or models.ErrNotFound
func (s *Service) GetByID(ctx context.Context, id int) (*models.Activity, error) {
	rec, err := s.store.GetRecordByID(ctx, TableName, id, apper.FetchParams{Fields: fetchFields})
	if err != nil {
		if errors.Is(err, apper.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get activity %d: %w", id, err)
	}

	activity := normalize(rec)
	return &activity, nil
}

// GetTasks returns activities that are not completed
func (s *Service) GetTasks(ctx context.Context) ([]models.Activity, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.Activity, 0, len(all))
	for _, a := range all {
		if a.Status != models.ActivityStatusCompleted {
			out = append(out, a)
		}
	}
	return out, nil
}

// GetHistory returns completed activities, most recently completed first
func (s *Service) GetHistory(ctx context.Context) ([]models.Activity, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.Activity, 0, len(all))
	for _, a := range all {
		if a.Status == models.ActivityStatusCompleted {
			out = append(out, a)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return parseTime(out[j].CompletedAt).Before(parseTime(out[i].CompletedAt))
	})
	return out, nil
}

// GetOverdue returns open tasks whose due date is in the past. Tasks without
// a due date are never overdue.
func (s *Service) GetOverdue(ctx context.Context) ([]models.Activity, error) {
	tasks, err := s.GetTasks(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]models.Activity, 0, len(tasks))
	for _, a := range tasks {
		if a.DueDate == "" {
			continue
		}
		if due := parseTime(a.DueDate); !due.IsZero() && due.Before(now) {
			out = append(out, a)
		}
	}
	return out, nil
}

// GetByContact returns the activity timeline for one contact
func (s *Service) GetByContact(ctx context.Context, contactID int) ([]models.Activity, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.Activity, 0, len(all))
	for _, a := range all {
		if a.ContactID != nil && *a.ContactID == contactID {
			out = append(out, a)
		}
	}
	return out, nil
}

// GetByDeal returns the activity timeline for one deal
func (s *Service) GetByDeal(ctx context.Context, dealID int) ([]models.Activity, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.Activity, 0, len(all))
	for _, a := range all {
		if a.DealID != nil && *a.DealID == dealID {
			out = append(out, a)
		}
	}
	return out, nil
}

// Create stores a new activity
func (s *Service) Create(ctx context.Context, req models.CreateActivityRequest) (*models.Activity, error) {
	now := s.now().UTC().Format(time.RFC3339)

	title := strings.TrimSpace(req.Title)
	name := title
	if name == "" {
		name = "Untitled Activity"
	}

	activityType := req.Type
	if activityType == "" {
		activityType = "call"
	}
	status := req.Status
	if status == "" {
		status = models.ActivityStatusPending
	}
	priority := req.Priority
	if priority == "" {
		priority = models.ActivityPriorityNormal
	}
	assignedTo := req.AssignedTo
	if assignedTo == "" {
		assignedTo = "Current User"
	}

	rec := apper.Record{
		fieldName:        name,
		fieldType:        activityType,
		fieldTitle:       title,
		fieldDescription: strings.TrimSpace(req.Description),
		fieldStatus:      status,
		fieldPriority:    priority,
		fieldAssignedTo:  assignedTo,
		fieldCreatedAt:   now,
		fieldUpdatedAt:   now,
	}
	if req.DueDate != "" {
		rec[fieldDueDate] = req.DueDate
	} else {
		rec[fieldDueDate] = nil
	}
	if req.ContactID != nil {
		rec[fieldContactID] = *req.ContactID
	} else {
		rec[fieldContactID] = nil
	}
	if req.ContactName != "" {
		rec[fieldContactName] = req.ContactName
	} else {
		rec[fieldContactName] = nil
	}
	if req.DealID != nil {
		rec[fieldDealID] = *req.DealID
	} else {
		rec[fieldDealID] = nil
	}
	if req.DealTitle != "" {
		rec[fieldDealTitle] = req.DealTitle
	} else {
		rec[fieldDealTitle] = nil
	}

	results, err := s.store.CreateRecords(ctx, TableName, []apper.Record{rec})
	if err != nil {
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}

	created, err := apper.FirstSuccess(results, s.log)
	if err != nil {
		return nil, models.ErrCreateFailed
	}

	s.invalidate(ctx)
	activity := normalize(created)
	return &activity, nil
}

// Update applies a partial update; only non-nil request fields are written
func (s *Service) Update(ctx context.Context, id int, req models.UpdateActivityRequest) (*models.Activity, error) {
	patch := apper.Record{"Id": id}

	if req.Type != nil && *req.Type != "" {
		patch[fieldType] = *req.Type
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
		patch[fieldTitle] = strings.TrimSpace(*req.Title)
		patch[fieldName] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		patch[fieldDescription] = strings.TrimSpace(*req.Description)
	}
	if req.Status != nil && *req.Status != "" {
		patch[fieldStatus] = *req.Status
	}
	if req.Priority != nil && *req.Priority != "" {
		patch[fieldPriority] = *req.Priority
	}
	if req.DueDate != nil && *req.DueDate != "" {
		patch[fieldDueDate] = *req.DueDate
	}
	if req.CompletedAt != nil {
		patch[fieldCompletedAt] = *req.CompletedAt
	}
	if req.ContactID != nil {
		patch[fieldContactID] = *req.ContactID
	}
	if req.ContactName != nil {
		patch[fieldContactName] = *req.ContactName
	}
	if req.DealID != nil {
		patch[fieldDealID] = *req.DealID
	}
	if req.DealTitle != nil {
		patch[fieldDealTitle] = *req.DealTitle
	}
	if req.AssignedTo != nil && *req.AssignedTo != "" {
		patch[fieldAssignedTo] = *req.AssignedTo
	}
	if req.Outcome != nil {
		patch[fieldOutcome] = *req.Outcome
	}
	patch[fieldUpdatedAt] = s.now().UTC().Format(time.RFC3339)

	results, err := s.store.UpdateRecords(ctx, TableName, []apper.Record{patch})
	if err != nil {
		return nil, fmt.Errorf("failed to update activity %d: %w", id, err)
	}

	updated, err := apper.FirstSuccess(results, s.log)
	if err != nil {
		return nil, models.ErrUpdateFailed
	}

	s.invalidate(ctx)
	activity := normalize(updated)
	return &activity, nil
}

// Complete closes a task: status moves to completed, the completion time is
// stamped, and the outcome defaults when the note is empty.
func (s *Service) Complete(ctx context.Context, id int, outcome string) (*models.Activity, error) {
	now := s.now().UTC().Format(time.RFC3339)

	outcome = strings.TrimSpace(outcome)
	if outcome == "" {
		outcome = defaultOutcome
	}

	patch := apper.Record{
		"Id":             id,
		fieldStatus:      models.ActivityStatusCompleted,
		fieldCompletedAt: now,
		fieldOutcome:     outcome,
		fieldUpdatedAt:   now,
	}

	results, err := s.store.UpdateRecords(ctx, TableName, []apper.Record{patch})
	if err != nil {
		return nil, fmt.Errorf("failed to complete activity %d: %w", id, err)
	}

	updated, err := apper.FirstSuccess(results, s.log)
	if err != nil {
		return nil, models.ErrUpdateFailed
	}

	s.invalidate(ctx)
	activity := normalize(updated)
	return &activity, nil
}

// Delete removes an activity by id
func (s *Service) Delete(ctx context.Context, id int) error {
	results, err := s.store.DeleteRecords(ctx, TableName, []int{id})
	if err != nil {
		return fmt.Errorf("failed to delete activity %d: %w", id, err)
	}

	if !apper.AllSucceeded(results) {
		return models.ErrDeleteFailed
	}

	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, "activities:*"); err != nil {
		s.log.Warn("failed to invalidate activity cache", "error", err)
	}
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	return time.Time{}
}
