package activities

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesbridge/salesbridge/pkg/apper"
	"github.com/salesbridge/salesbridge/pkg/apper/appertest"
	"github.com/salesbridge/salesbridge/pkg/cache"
	"github.com/salesbridge/salesbridge/pkg/logger"
	"github.com/salesbridge/salesbridge/pkg/models"
)

func setupService(t *testing.T) (*Service, *appertest.Server) {
	t.Helper()

	srv := appertest.NewServer()
	t.Cleanup(srv.Close)

	mr := miniredis.RunT(t)
	cacheClient, err := cache.NewClient("redis://" + mr.Addr())
	require.NoError(t, err)

	store := apper.NewClient(apper.Config{BaseURL: srv.URL()})
	return NewService(store, cacheClient, logger.Default(), time.Minute), srv
}

func TestNormalizeDefaults(t *testing.T) {
	svc, srv := setupService(t)

	srv.Seed(TableName, map[string]any{"Name": "Bare Activity"})

	activities, err := svc.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, activities, 1)

	a := activities[0]
	assert.Equal(t, "Bare Activity", a.Title)
	assert.Equal(t, models.ActivityStatusPending, a.Status)
	assert.Equal(t, models.ActivityPriorityNormal, a.Priority)
	assert.Equal(t, "Current User", a.AssignedTo)
	assert.Nil(t, a.ContactID)
	assert.Nil(t, a.DealID)
}

func TestGetTasksExcludesCompleted(t *testing.T) {
	svc, srv := setupService(t)

	srv.Seed(TableName, map[string]any{"title_c": "open one"})
	srv.Seed(TableName, map[string]any{"title_c": "open two", "status_c": "pending"})
	srv.Seed(TableName, map[string]any{"title_c": "done", "status_c": "completed"})

	tasks, err := svc.GetTasks(context.Background())
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
	for _, task := range tasks {
		assert.NotEqual(t, models.ActivityStatusCompleted, task.Status)
	}
}

func TestGetHistoryNewestCompletionFirst(t *testing.T) {
	svc, srv := setupService(t)

	srv.Seed(TableName, map[string]any{
		"title_c": "older", "status_c": "completed",
		"completed_at_c": "2024-01-01T10:00:00Z",
	})
	srv.Seed(TableName, map[string]any{
		"title_c": "newer", "status_c": "completed",
		"completed_at_c": "2024-06-01T10:00:00Z",
	})
	srv.Seed(TableName, map[string]any{"title_c": "still open"})

	history, err := svc.GetHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "newer", history[0].Title)
	assert.Equal(t, "older", history[1].Title)
}

func TestGetOverdue(t *testing.T) {
	svc, srv := setupService(t)
	svc.now = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }

	srv.Seed(TableName, map[string]any{"title_c": "overdue", "due_date_c": "2024-06-01T00:00:00Z"})
	srv.Seed(TableName, map[string]any{"title_c": "upcoming", "due_date_c": "2024-07-01T00:00:00Z"})
	srv.Seed(TableName, map[string]any{"title_c": "no due date"})
	srv.Seed(TableName, map[string]any{
		"title_c": "done late", "status_c": "completed",
		"due_date_c": "2024-05-01T00:00:00Z",
	})

	overdue, err := svc.GetOverdue(context.Background())
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "overdue", overdue[0].Title)
}

func TestGetByContactAndDeal(t *testing.T) {
	svc, srv := setupService(t)
	ctx := context.Background()

	srv.Seed(TableName, map[string]any{"title_c": "for contact", "contact_id_c": float64(3)})
	srv.Seed(TableName, map[string]any{"title_c": "for deal", "deal_id_c": float64(8)})
	srv.Seed(TableName, map[string]any{"title_c": "unrelated"})

	byContact, err := svc.GetByContact(ctx, 3)
	require.NoError(t, err)
	require.Len(t, byContact, 1)
	assert.Equal(t, "for contact", byContact[0].Title)

	byDeal, err := svc.GetByDeal(ctx, 8)
	require.NoError(t, err)
	require.Len(t, byDeal, 1)
	assert.Equal(t, "for deal", byDeal[0].Title)
}

func TestCreateDefaults(t *testing.T) {
	svc, _ := setupService(t)

	activity, err := svc.Create(context.Background(), models.CreateActivityRequest{
		Title: "Follow up call",
	})
	require.NoError(t, err)

	assert.Equal(t, "Follow up call", activity.Title)
	assert.Equal(t, "call", activity.Type)
	assert.Equal(t, models.ActivityStatusPending, activity.Status)
	assert.Equal(t, models.ActivityPriorityNormal, activity.Priority)
	assert.Equal(t, "Current User", activity.AssignedTo)
}

func TestComplete(t *testing.T) {
	svc, srv := setupService(t)
	ctx := context.Background()

	seeded := srv.Seed(TableName, map[string]any{"title_c": "task to finish"})
	id := int(seeded["Id"].(float64))

	activity, err := svc.Complete(ctx, id, "Spoke with the customer")
	require.NoError(t, err)

	assert.Equal(t, models.ActivityStatusCompleted, activity.Status)
	assert.Equal(t, "Spoke with the customer", activity.Outcome)
	assert.NotEmpty(t, activity.CompletedAt)
}

func TestCompleteDefaultOutcome(t *testing.T) {
	svc, srv := setupService(t)

	seeded := srv.Seed(TableName, map[string]any{"title_c": "quiet finish"})
	id := int(seeded["Id"].(float64))

	activity, err := svc.Complete(context.Background(), id, "   ")
	require.NoError(t, err)
	assert.Equal(t, defaultOutcome, activity.Outcome)
}

func TestUpdatePartial(t *testing.T) {
	svc, srv := setupService(t)

	seeded := srv.Seed(TableName, map[string]any{
		"title_c":    "original",
		"priority_c": "high",
	})
	id := int(seeded["Id"].(float64))

	desc := "new description"
	activity, err := svc.Update(context.Background(), id, models.UpdateActivityRequest{Description: &desc})
	require.NoError(t, err)

	assert.Equal(t, "new description", activity.Description)
	assert.Equal(t, "original", activity.Title)
	assert.Equal(t, "high", activity.Priority)
}

func TestDelete(t *testing.T) {
	svc, srv := setupService(t)
	ctx := context.Background()

	seeded := srv.Seed(TableName, map[string]any{"title_c": "doomed"})
	id := int(seeded["Id"].(float64))

	require.NoError(t, svc.Delete(ctx, id))
	assert.Equal(t, 0, srv.Count(TableName))
	assert.ErrorIs(t, svc.Delete(ctx, id), models.ErrDeleteFailed)
}
