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

func TestDealPipelineStats(t *testing.T) {
	env := setupEnv(t)
	env.srv.Seed("deal_c", map[string]any{"title_c": "One", "stage_c": "Lead", "value_c": float64(100)})
	env.srv.Seed("deal_c", map[string]any{"title_c": "Two", "stage_c": "Lead", "value_c": float64(250)})
	env.srv.Seed("deal_c", map[string]any{"title_c": "Three", "stage_c": "Closed", "value_c": float64(900)})

	e := echo.New()
	handler := NewDealHandler(env.deals, nil)

	c, rec := newContext(e, http.MethodGet, "/api/v1/deals/pipeline/stats", "")
	require.NoError(t, handler.PipelineStats(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var stats []models.StagePipeline
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Len(t, stats, len(models.DealStages))

	assert.Equal(t, models.StageLead, stats[0].Stage)
	assert.Equal(t, 2, stats[0].Count)
	assert.Equal(t, float64(350), stats[0].Value)

	assert.Equal(t, models.StageClosed, stats[4].Stage)
	assert.Equal(t, 1, stats[4].Count)
	assert.Equal(t, float64(900), stats[4].Value)

	// Empty stages still appear
	assert.Equal(t, models.StageProposal, stats[2].Stage)
	assert.Equal(t, 0, stats[2].Count)
}

func TestDealListByStage(t *testing.T) {
	env := setupEnv(t)
	env.srv.Seed("deal_c", map[string]any{"title_c": "In", "stage_c": "Proposal"})
	env.srv.Seed("deal_c", map[string]any{"title_c": "Out", "stage_c": "Lead"})

	e := echo.New()
	handler := NewDealHandler(env.deals, nil)

	c, rec := newContext(e, http.MethodGet, "/api/v1/deals/stage/Proposal", "")
	c.SetParamNames("stage")
	c.SetParamValues("Proposal")

	require.NoError(t, handler.ListByStage(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var list []models.Deal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "In", list[0].Title)
}

func TestDealListByStageInvalid(t *testing.T) {
	env := setupEnv(t)

	e := echo.New()
	handler := NewDealHandler(env.deals, nil)

	c, rec := newContext(e, http.MethodGet, "/api/v1/deals/stage/Bogus", "")
	c.SetParamNames("stage")
	c.SetParamValues("Bogus")

	require.NoError(t, handler.ListByStage(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDealCreateDefaults(t *testing.T) {
	env := setupEnv(t)

	e := echo.New()
	handler := NewDealHandler(env.deals, nil)

	c, rec := newContext(e, http.MethodPost, "/api/v1/deals", `{"title":"New Deal"}`)
	require.NoError(t, handler.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var deal models.Deal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &deal))
	assert.Equal(t, "New Deal", deal.Title)
	assert.Equal(t, models.StageLead, deal.Stage)
	assert.Equal(t, 50, deal.Probability)
	assert.Equal(t, "active", deal.Status)
}

func TestDealUpdateStatus(t *testing.T) {
	env := setupEnv(t)
	seeded := env.srv.Seed("deal_c", map[string]any{
		"title_c": "Moving",
		"stage_c": "Lead",
		"stage_changed_at_c": "2024-01-01T00:00:00Z",
	})

	e := echo.New()
	handler := NewDealHandler(env.deals, nil)

	c, rec := newContext(e, http.MethodPatch, "/api/v1/deals/1/status",
		`{"status":"active","stage":"Qualified"}`)
	c.SetParamNames("id")
	c.SetParamValues(seededID(seeded))

	require.NoError(t, handler.UpdateStatus(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var deal models.Deal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &deal))
	assert.Equal(t, models.StageQualified, deal.Stage)
	assert.NotEqual(t, "2024-01-01T00:00:00Z", deal.StageChangedAt)
}

func TestDealUpdateStatusInvalidStage(t *testing.T) {
	env := setupEnv(t)
	seeded := env.srv.Seed("deal_c", map[string]any{"title_c": "Moving", "stage_c": "Lead"})

	e := echo.New()
	handler := NewDealHandler(env.deals, nil)

	c, rec := newContext(e, http.MethodPatch, "/api/v1/deals/1/status",
		`{"status":"active","stage":"NotAStage"}`)
	c.SetParamNames("id")
	c.SetParamValues(seededID(seeded))

	require.NoError(t, handler.UpdateStatus(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
