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

func TestContactList(t *testing.T) {
	env := setupEnv(t)
	env.srv.Seed("contact_c", map[string]any{"Name": "Ada Lovelace", "email_c": "ada@example.com"})
	env.srv.Seed("contact_c", map[string]any{"Name": "Grace Hopper"})
	env.srv.Seed("contact_c", map[string]any{"Name": "Alan Turing"})

	e := echo.New()
	handler := NewContactHandler(env.contacts, nil)

	c, rec := newContext(e, http.MethodGet, "/api/v1/contacts?search=ada", "")
	require.NoError(t, handler.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data       []models.Contact `json:"data"`
		Pagination struct {
			Total int `json:"total"`
			Page  int `json:"page"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Ada Lovelace", resp.Data[0].Name)
	assert.Equal(t, 1, resp.Pagination.Total)
	assert.Equal(t, 1, resp.Pagination.Page)
}

func TestContactListClickSort(t *testing.T) {
	env := setupEnv(t)
	env.srv.Seed("contact_c", map[string]any{"Name": "Beta"})
	env.srv.Seed("contact_c", map[string]any{"Name": "Alpha"})

	e := echo.New()
	handler := NewContactHandler(env.contacts, nil)

	// Clicking "name" while already ascending on it flips to descending
	c, rec := newContext(e, http.MethodGet,
		"/api/v1/contacts?sortField=name&sortDir=asc&clickSort=name&page=3", "")
	require.NoError(t, handler.List(c))

	var resp struct {
		Data []models.Contact `json:"data"`
		Sort struct {
			Field     string `json:"field"`
			Direction string `json:"direction"`
		} `json:"sort"`
		Pagination struct {
			Page int `json:"page"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "name", resp.Sort.Field)
	assert.Equal(t, "desc", resp.Sort.Direction)
	assert.Equal(t, 1, resp.Pagination.Page, "a sort click returns to the first page")
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "Beta", resp.Data[0].Name)
}

func TestContactGetNotFound(t *testing.T) {
	env := setupEnv(t)

	e := echo.New()
	handler := NewContactHandler(env.contacts, nil)

	c, rec := newContext(e, http.MethodGet, "/api/v1/contacts/999", "")
	c.SetParamNames("id")
	c.SetParamValues("999")

	require.NoError(t, handler.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestContactGetBadID(t *testing.T) {
	env := setupEnv(t)

	e := echo.New()
	handler := NewContactHandler(env.contacts, nil)

	c, rec := newContext(e, http.MethodGet, "/api/v1/contacts/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")

	require.NoError(t, handler.Get(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContactCreate(t *testing.T) {
	env := setupEnv(t)

	e := echo.New()
	handler := NewContactHandler(env.contacts, nil)

	c, rec := newContext(e, http.MethodPost, "/api/v1/contacts",
		`{"name":"Ada Lovelace","email":"ada@example.com","phone":"(415) 555-2671"}`)
	require.NoError(t, handler.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var contact models.Contact
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &contact))
	assert.Equal(t, "Ada Lovelace", contact.Name)
	assert.Equal(t, "+14155552671", contact.Phone)
	assert.Equal(t, 1, env.srv.Count("contact_c"))
}

func TestContactCreateValidation(t *testing.T) {
	env := setupEnv(t)

	e := echo.New()
	handler := NewContactHandler(env.contacts, nil)

	// Missing required name
	c, rec := newContext(e, http.MethodPost, "/api/v1/contacts", `{"email":"ada@example.com"}`)
	require.NoError(t, handler.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, env.srv.Count("contact_c"))
}

func TestContactUpdate(t *testing.T) {
	env := setupEnv(t)
	seeded := env.srv.Seed("contact_c", map[string]any{"Name": "Ada", "notes_c": "keep"})

	e := echo.New()
	handler := NewContactHandler(env.contacts, nil)

	c, rec := newContext(e, http.MethodPut, "/api/v1/contacts/1", `{"email":"ada@new.example"}`)
	c.SetParamNames("id")
	c.SetParamValues(seededID(seeded))

	require.NoError(t, handler.Update(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var contact models.Contact
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &contact))
	assert.Equal(t, "ada@new.example", contact.Email)
	assert.Equal(t, "keep", contact.Notes)
}

func TestContactDelete(t *testing.T) {
	env := setupEnv(t)
	seeded := env.srv.Seed("contact_c", map[string]any{"Name": "Ada"})

	e := echo.New()
	handler := NewContactHandler(env.contacts, nil)

	c, rec := newContext(e, http.MethodDelete, "/api/v1/contacts/1", "")
	c.SetParamNames("id")
	c.SetParamValues(seededID(seeded))

	require.NoError(t, handler.Delete(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, env.srv.Count("contact_c"))
}
