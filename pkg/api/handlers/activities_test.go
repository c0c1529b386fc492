package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesbridge/salesbridge/pkg/models"
)

func TestActivityTasks(t *testing.T) {
	env := setupEnv(t)
	env.srv.Seed("activity_c", map[string]any{"title_c": "Open call", "status_c": "pending"})
	env.srv.Seed("activity_c", map[string]any{"title_c": "Done call", "status_c": "completed"})

	e := echo.New()
	handler := NewActivityHandler(env.activities, nil)

	c, rec := newContext(e, http.MethodGet, "/api/v1/activities/tasks", "")
	require.NoError(t, handler.Tasks(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var list []models.Activity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Open call", list[0].Title)
}

func TestActivityComplete(t *testing.T) {
	env := setupEnv(t)
	seeded := env.srv.Seed("activity_c", map[string]any{"title_c": "Call Ada", "status_c": "pending"})

	e := echo.New()
	handler := NewActivityHandler(env.activities, nil)

	c, rec := newContext(e, http.MethodPost, "/api/v1/activities/1/complete", `{"outcome":"Reached, follow up next week"}`)
	c.SetParamNames("id")
	c.SetParamValues(seededID(seeded))

	require.NoError(t, handler.Complete(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var activity models.Activity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &activity))
	assert.Equal(t, models.ActivityStatusCompleted, activity.Status)
	assert.Equal(t, "Reached, follow up next week", activity.Outcome)
	assert.NotEmpty(t, activity.CompletedAt)
}

func TestActivityCompleteDefaultOutcome(t *testing.T) {
	env := setupEnv(t)
	seeded := env.srv.Seed("activity_c", map[string]any{"title_c": "Call Ada", "status_c": "pending"})

	e := echo.New()
	handler := NewActivityHandler(env.activities, nil)

	c, rec := newContext(e, http.MethodPost, "/api/v1/activities/1/complete", `{}`)
	c.SetParamNames("id")
	c.SetParamValues(seededID(seeded))

	require.NoError(t, handler.Complete(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var activity models.Activity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &activity))
	assert.Equal(t, "Task completed successfully", activity.Outcome)
}

func TestActivityByContact(t *testing.T) {
	env := setupEnv(t)
	env.srv.Seed("activity_c", map[string]any{"title_c": "Linked", "contact_id_c": float64(7)})
	env.srv.Seed("activity_c", map[string]any{"title_c": "Other", "contact_id_c": float64(8)})
	env.srv.Seed("activity_c", map[string]any{"title_c": "Unlinked"})

	e := echo.New()
	handler := NewActivityHandler(env.activities, nil)

	c, rec := newContext(e, http.MethodGet, "/api/v1/activities/contact/7", "")
	c.SetParamNames("id")
	c.SetParamValues("7")

	require.NoError(t, handler.ByContact(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var list []models.Activity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Linked", list[0].Title)
}

func TestActivityCreateDefaults(t *testing.T) {
	env := setupEnv(t)

	e := echo.New()
	handler := NewActivityHandler(env.activities, nil)

	c, rec := newContext(e, http.MethodPost, "/api/v1/activities", `{"title":"Ping Ada"}`)
	require.NoError(t, handler.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var activity models.Activity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &activity))
	assert.Equal(t, "call", activity.Type)
	assert.Equal(t, models.ActivityStatusPending, activity.Status)
	assert.Equal(t, models.ActivityPriorityNormal, activity.Priority)
	assert.Equal(t, "Current User", activity.AssignedTo)
}
