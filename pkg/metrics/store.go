package metrics

import (
	"context"
	"time"

	"github.com/salesbridge/salesbridge/pkg/apper"
)

// InstrumentedStore wraps a record store and records a timed series for every
// round-trip. It implements apper.Store, so it drops in between the HTTP
// client and the services.
type InstrumentedStore struct {
	store apper.Store
	m     *Metrics
}

// NewInstrumentedStore wraps store with call metrics
func NewInstrumentedStore(store apper.Store, m *Metrics) *InstrumentedStore {
	return &InstrumentedStore{store: store, m: m}
}

func (s *InstrumentedStore) FetchRecords(ctx context.Context, table string, params apper.FetchParams) ([]apper.Record, error) {
	start := time.Now()
	records, err := s.store.FetchRecords(ctx, table, params)
	s.m.RecordStoreCall(table, "fetch", time.Since(start), err)
	return records, err
}

func (s *InstrumentedStore) GetRecordByID(ctx context.Context, table string, id int, params apper.FetchParams) (apper.Record, error) {
	start := time.Now()
	record, err := s.store.GetRecordByID(ctx, table, id, params)
	s.m.RecordStoreCall(table, "get", time.Since(start), err)
	return record, err
}

func (s *InstrumentedStore) CreateRecords(ctx context.Context, table string, records []apper.Record) ([]apper.WriteResult, error) {
	start := time.Now()
	results, err := s.store.CreateRecords(ctx, table, records)
	s.m.RecordStoreCall(table, "create", time.Since(start), err)
	return results, err
}

func (s *InstrumentedStore) UpdateRecords(ctx context.Context, table string, records []apper.Record) ([]apper.WriteResult, error) {
	start := time.Now()
	results, err := s.store.UpdateRecords(ctx, table, records)
	s.m.RecordStoreCall(table, "update", time.Since(start), err)
	return results, err
}

func (s *InstrumentedStore) DeleteRecords(ctx context.Context, table string, ids []int) ([]apper.WriteResult, error) {
	start := time.Now()
	results, err := s.store.DeleteRecords(ctx, table, ids)
	s.m.RecordStoreCall(table, "delete", time.Since(start), err)
	return results, err
}
