package apper_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesbridge/salesbridge/pkg/apper"
	"github.com/salesbridge/salesbridge/pkg/apper/appertest"
	"github.com/salesbridge/salesbridge/pkg/logger"
)

func setupClient(t *testing.T) (*apper.Client, *appertest.Server) {
	t.Helper()
	srv := appertest.NewServer()
	t.Cleanup(srv.Close)

	client := apper.NewClient(apper.Config{
		BaseURL:   srv.URL(),
		ProjectID: "test-project",
		PublicKey: "test-key",
	})
	return client, srv
}

func TestFetchRecords(t *testing.T) {
	client, srv := setupClient(t)
	ctx := context.Background()

	srv.Seed("contact_c", map[string]any{"Name": "Ada Lovelace", "email_c": "ada@example.com"})
	srv.Seed("contact_c", map[string]any{"Name": "Grace Hopper", "email_c": "grace@example.com"})

	records, err := client.FetchRecords(ctx, "contact_c", apper.FetchParams{
		Fields: apper.Fields("Name", "email_c"),
	})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Ada Lovelace", records[0].String("Name"))
	assert.NotZero(t, records[0].ID())
}

func TestFetchRecordsOrdered(t *testing.T) {
	client, srv := setupClient(t)
	ctx := context.Background()

	srv.Seed("deal_c", map[string]any{"title_c": "small", "value_c": float64(100)})
	srv.Seed("deal_c", map[string]any{"title_c": "big", "value_c": float64(900)})
	srv.Seed("deal_c", map[string]any{"title_c": "mid", "value_c": float64(500)})

	records, err := client.FetchRecords(ctx, "deal_c", apper.FetchParams{
		Fields:  apper.Fields("title_c", "value_c"),
		OrderBy: apper.Desc("value_c"),
	})
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "big", records[0].String("title_c"))
	assert.Equal(t, "small", records[2].String("title_c"))
}

func TestFetchRecordsFailure(t *testing.T) {
	client, srv := setupClient(t)
	srv.FailNext("table unavailable")

	_, err := client.FetchRecords(context.Background(), "contact_c", apper.FetchParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "table unavailable")
}

func TestGetRecordByID(t *testing.T) {
	client, srv := setupClient(t)
	ctx := context.Background()

	seeded := srv.Seed("company_c", map[string]any{"Name": "Acme"})
	id := int(seeded["Id"].(float64))

	rec, err := client.GetRecordByID(ctx, "company_c", id, apper.FetchParams{Fields: apper.Fields("Name")})
	require.NoError(t, err)
	assert.Equal(t, "Acme", rec.String("Name"))

	_, err = client.GetRecordByID(ctx, "company_c", 9999, apper.FetchParams{})
	assert.ErrorIs(t, err, apper.ErrNotFound)
}

func TestCreateRecords(t *testing.T) {
	client, srv := setupClient(t)
	ctx := context.Background()

	results, err := client.CreateRecords(ctx, "contact_c", []apper.Record{
		{"Name": "New Contact", "email_c": "new@example.com"},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.True(t, results[0].Success)
	assert.NotZero(t, results[0].Data.ID())
	assert.NotEmpty(t, results[0].Data.String("CreatedOn"))
	assert.Equal(t, 1, srv.Count("contact_c"))
}

func TestCreateRecordsFieldRejection(t *testing.T) {
	client, srv := setupClient(t)
	srv.WriteHook = func(table string, rec map[string]any) *appertest.FieldError {
		if rec["email_c"] == "bad" {
			return &appertest.FieldError{FieldLabel: "Email", Message: "invalid email"}
		}
		return nil
	}

	results, err := client.CreateRecords(context.Background(), "contact_c", []apper.Record{
		{"Name": "ok", "email_c": "fine@example.com"},
		{"Name": "rejected", "email_c": "bad"},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	require.Len(t, results[1].Errors, 1)
	assert.Equal(t, "Email", results[1].Errors[0].FieldLabel)
}

func TestUpdateRecordsPartial(t *testing.T) {
	client, srv := setupClient(t)
	ctx := context.Background()

	seeded := srv.Seed("deal_c", map[string]any{
		"title_c": "Original Title",
		"value_c": float64(5000),
		"stage_c": "Lead",
	})
	id := int(seeded["Id"].(float64))

	results, err := client.UpdateRecords(ctx, "deal_c", []apper.Record{
		{"Id": id, "stage_c": "Qualified"},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.True(t, results[0].Success)

	stored := srv.Get("deal_c", id)
	assert.Equal(t, "Qualified", stored["stage_c"])
	assert.Equal(t, "Original Title", stored["title_c"])
	assert.Equal(t, float64(5000), stored["value_c"])
}

func TestDeleteRecords(t *testing.T) {
	client, srv := setupClient(t)
	ctx := context.Background()

	seeded := srv.Seed("quote_c", map[string]any{"Name": "Q-100"})
	id := int(seeded["Id"].(float64))

	results, err := client.DeleteRecords(ctx, "quote_c", []int{id, 424242})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.Equal(t, 0, srv.Count("quote_c"))
}

func TestFirstSuccess(t *testing.T) {
	log := logger.Default()

	t.Run("picks first successful record", func(t *testing.T) {
		rec, err := apper.FirstSuccess([]apper.WriteResult{
			{Success: false, Message: "nope"},
			{Success: true, Data: apper.Record{"Id": float64(7)}},
			{Success: true, Data: apper.Record{"Id": float64(8)}},
		}, log)
		require.NoError(t, err)
		assert.Equal(t, 7, rec.ID())
	})

	t.Run("all failed", func(t *testing.T) {
		_, err := apper.FirstSuccess([]apper.WriteResult{
			{Success: false, Errors: []apper.FieldError{{FieldLabel: "Name", Message: "required"}}},
		}, log)
		assert.ErrorIs(t, err, apper.ErrAllFailed)
	})

	t.Run("empty batch", func(t *testing.T) {
		_, err := apper.FirstSuccess(nil, log)
		assert.ErrorIs(t, err, apper.ErrAllFailed)
	})
}

func TestAllSucceeded(t *testing.T) {
	assert.True(t, apper.AllSucceeded([]apper.WriteResult{{Success: true}, {Success: true}}))
	assert.False(t, apper.AllSucceeded([]apper.WriteResult{{Success: true}, {Success: false}}))
	assert.False(t, apper.AllSucceeded(nil))
}
