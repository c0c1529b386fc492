package apper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrNotFound is returned by GetRecordByID when the store has no such record
var ErrNotFound = errors.New("record not found")

// Store is the record-store boundary. The HTTP Client implements it against
// the hosted store; tests substitute their own implementation or point the
// Client at an appertest server.
type Store interface {
	FetchRecords(ctx context.Context, table string, params FetchParams) ([]Record, error)
	GetRecordByID(ctx context.Context, table string, id int, params FetchParams) (Record, error)
	CreateRecords(ctx context.Context, table string, records []Record) ([]WriteResult, error)
	UpdateRecords(ctx context.Context, table string, records []Record) ([]WriteResult, error)
	DeleteRecords(ctx context.Context, table string, ids []int) ([]WriteResult, error)
}

// Config carries the credentials and endpoint for a Client. It is passed in
// at startup; there is no package-level singleton.
type Config struct {
	BaseURL   string
	ProjectID string
	PublicKey string
	Timeout   time.Duration
}

// Client is the HTTP implementation of Store
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a record-store client from explicit configuration
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}
}

// FetchRecords fetches all records of a table with the given projection and
// order. An unsuccessful response is an error to the caller.
func (c *Client) FetchRecords(ctx context.Context, table string, params FetchParams) ([]Record, error) {
	var resp fetchResponse
	url := fmt.Sprintf("%s/v1/tables/%s/query", c.cfg.BaseURL, table)
	if err := c.post(ctx, url, params, &resp); err != nil {
		return nil, err
	}

	if !resp.Success {
		return nil, fmt.Errorf("fetch %s rejected: %s", table, resp.Message)
	}

	return resp.Data, nil
}

// GetRecordByID fetches a single record. Returns ErrNotFound when the store
// reports no such record.
func (c *Client) GetRecordByID(ctx context.Context, table string, id int, params FetchParams) (Record, error) {
	var resp singleResponse
	url := fmt.Sprintf("%s/v1/tables/%s/records/%d", c.cfg.BaseURL, table, id)
	if err := c.post(ctx, url, params, &resp); err != nil {
		return nil, err
	}

	if !resp.Success || resp.Data == nil {
		return nil, fmt.Errorf("%w: %s/%d", ErrNotFound, table, id)
	}

	return resp.Data, nil
}

// CreateRecords creates a batch of records and returns the per-record results
func (c *Client) CreateRecords(ctx context.Context, table string, records []Record) ([]WriteResult, error) {
	url := fmt.Sprintf("%s/v1/tables/%s/create", c.cfg.BaseURL, table)
	return c.write(ctx, url, createRequest{Records: records})
}

// UpdateRecords updates a batch of records (each must carry its Id) and
// returns the per-record results
func (c *Client) UpdateRecords(ctx context.Context, table string, records []Record) ([]WriteResult, error) {
	url := fmt.Sprintf("%s/v1/tables/%s/update", c.cfg.BaseURL, table)
	return c.write(ctx, url, createRequest{Records: records})
}

// DeleteRecords deletes records by id and returns the per-record results
func (c *Client) DeleteRecords(ctx context.Context, table string, ids []int) ([]WriteResult, error) {
	url := fmt.Sprintf("%s/v1/tables/%s/delete", c.cfg.BaseURL, table)
	return c.write(ctx, url, deleteRequest{RecordIDs: ids})
}

func (c *Client) write(ctx context.Context, url string, body any) ([]WriteResult, error) {
	var resp writeResponse
	if err := c.post(ctx, url, body, &resp); err != nil {
		return nil, err
	}

	if !resp.Success {
		return nil, fmt.Errorf("write rejected: %s", resp.Message)
	}

	return resp.Results, nil
}

func (c *Client) post(ctx context.Context, url string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Apper-Project-Id", c.cfg.ProjectID)
	req.Header.Set("X-Apper-Public-Key", c.cfg.PublicKey)

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("record store request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("record store returned status %d", res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
