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

func TestCompanyCreate(t *testing.T) {
	env := setupEnv(t)

	e := echo.New()
	handler := NewCompanyHandler(env.companies, nil)

	c, rec := newContext(e, http.MethodPost, "/api/v1/companies",
		`{"name":"Acme Corp","industry":"Manufacturing","contactCount":99}`)
	require.NoError(t, handler.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var company models.Company
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &company))
	assert.Equal(t, "Acme Corp", company.Name)
	// Aggregates always start at zero; client-supplied values are ignored
	assert.Equal(t, 0, company.ContactCount)
	assert.Equal(t, float64(0), company.TotalDealValue)
}

func TestCompanyRecalculate(t *testing.T) {
	env := setupEnv(t)
	seeded := env.srv.Seed("company_c", map[string]any{"Name": "Acme Corp"})
	env.srv.Seed("contact_c", map[string]any{"Name": "Ada", "company_c": "Acme Corp"})
	env.srv.Seed("deal_c", map[string]any{"title_c": "Big", "company_c": "Acme Corp", "value_c": float64(2000)})

	e := echo.New()
	handler := NewCompanyHandler(env.companies, nil)

	c, rec := newContext(e, http.MethodPost, "/api/v1/companies/1/recalculate", "")
	c.SetParamNames("id")
	c.SetParamValues(seededID(seeded))

	require.NoError(t, handler.Recalculate(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var company models.Company
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &company))
	assert.Equal(t, 1, company.ContactCount)
	assert.Equal(t, float64(2000), company.TotalDealValue)
}

func TestCompanyRecalculateNotFound(t *testing.T) {
	env := setupEnv(t)

	e := echo.New()
	handler := NewCompanyHandler(env.companies, nil)

	c, rec := newContext(e, http.MethodPost, "/api/v1/companies/42/recalculate", "")
	c.SetParamNames("id")
	c.SetParamValues("42")

	require.NoError(t, handler.Recalculate(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCompanyListSortedByUpdatedAt(t *testing.T) {
	env := setupEnv(t)
	env.srv.Seed("company_c", map[string]any{"Name": "Older", "updated_at_c": "2024-01-01T00:00:00Z"})
	env.srv.Seed("company_c", map[string]any{"Name": "Newer", "updated_at_c": "2024-06-01T00:00:00Z"})

	e := echo.New()
	handler := NewCompanyHandler(env.companies, nil)

	c, rec := newContext(e, http.MethodGet, "/api/v1/companies", "")
	require.NoError(t, handler.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []models.Company `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "Newer", resp.Data[0].Name)
}
