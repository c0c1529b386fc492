// Package appertest provides an in-memory record store speaking the Apper
// wire protocol, for exercising services end to end over a real HTTP client.
package appertest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

type record map[string]any

type table struct {
	records []record
	nextID  int
}

// FieldError mirrors the wire shape of a per-field rejection
type FieldError struct {
	FieldLabel string `json:"fieldLabel"`
	Message    string `json:"message"`
}

// Server is an in-memory record store behind an httptest server
type Server struct {
	mu     sync.Mutex
	tables map[string]*table
	http   *httptest.Server

	failNextMessage string

	// WriteHook, when set, is consulted for every created or updated record;
	// a non-nil return rejects that record with the given field error.
	WriteHook func(tableName string, rec map[string]any) *FieldError
}

// NewServer starts an empty in-memory record store
func NewServer() *Server {
	s := &Server{tables: make(map[string]*table)}
	s.http = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// URL returns the base URL clients should be configured with
func (s *Server) URL() string {
	return s.http.URL
}

// Close shuts the server down
func (s *Server) Close() {
	s.http.Close()
}

// FailNext makes the next request fail at the application level with the
// given message ({success: false})
func (s *Server) FailNext(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNextMessage = message
}

// Seed inserts a record directly, assigning an Id and timestamps when absent,
// and returns the stored copy
func (s *Server) Seed(tableName string, fields map[string]any) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	tbl := s.table(tableName)
	rec := record{}
	for k, v := range fields {
		rec[k] = v
	}
	if _, ok := rec["Id"]; !ok {
		tbl.nextID++
		rec["Id"] = float64(tbl.nextID)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if _, ok := rec["CreatedOn"]; !ok {
		rec["CreatedOn"] = now
	}
	if _, ok := rec["ModifiedOn"]; !ok {
		rec["ModifiedOn"] = now
	}
	tbl.records = append(tbl.records, rec)
	return rec
}

// Count returns the number of records in a table
func (s *Server) Count(tableName string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.table(tableName).records)
}

// Get returns the stored record with the given id, or nil
func (s *Server) Get(tableName string, id int) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec := s.table(tableName).find(id); rec != nil {
		return rec
	}
	return nil
}

func (s *Server) table(name string) *table {
	tbl, ok := s.tables[name]
	if !ok {
		tbl = &table{}
		s.tables[name] = tbl
	}
	return tbl
}

func (t *table) find(id int) record {
	for _, rec := range t.records {
		if recID(rec) == id {
			return rec
		}
	}
	return nil
}

func recID(rec record) int {
	switch v := rec["Id"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

type fetchParams struct {
	Fields []struct {
		Field struct {
			Name string `json:"Name"`
		} `json:"field"`
	} `json:"fields"`
	OrderBy []struct {
		FieldName string `json:"fieldName"`
		SortType  string `json:"sorttype"`
	} `json:"orderBy"`
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failNextMessage != "" {
		msg := s.failNextMessage
		s.failNextMessage = ""
		writeJSON(w, map[string]any{"success": false, "message": msg})
		return
	}

	// Paths: /v1/tables/{table}/query | /records/{id} | /create | /update | /delete
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 4 || parts[0] != "v1" || parts[1] != "tables" {
		http.NotFound(w, r)
		return
	}

	tableName := parts[2]
	action := parts[3]

	switch action {
	case "query":
		s.handleQuery(w, r, tableName)
	case "records":
		if len(parts) != 5 {
			http.NotFound(w, r)
			return
		}
		id, _ := strconv.Atoi(parts[4])
		s.handleGet(w, tableName, id)
	case "create":
		s.handleCreate(w, r, tableName)
	case "update":
		s.handleUpdate(w, r, tableName)
	case "delete":
		s.handleDelete(w, r, tableName)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request, tableName string) {
	var params fetchParams
	_ = json.NewDecoder(r.Body).Decode(&params)

	tbl := s.table(tableName)
	out := make([]record, len(tbl.records))
	copy(out, tbl.records)

	for _, ob := range params.OrderBy {
		field, desc := ob.FieldName, strings.EqualFold(ob.SortType, "DESC")
		sort.SliceStable(out, func(i, j int) bool {
			if desc {
				return lessValues(out[j][field], out[i][field])
			}
			return lessValues(out[i][field], out[j][field])
		})
	}

	writeJSON(w, map[string]any{"success": true, "data": out})
}

func (s *Server) handleGet(w http.ResponseWriter, tableName string, id int) {
	rec := s.table(tableName).find(id)
	if rec == nil {
		writeJSON(w, map[string]any{"success": false, "message": "Record does not exist"})
		return
	}
	writeJSON(w, map[string]any{"success": true, "data": rec})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request, tableName string) {
	var req struct {
		Records []record `json:"records"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	tbl := s.table(tableName)
	results := make([]map[string]any, 0, len(req.Records))

	for _, rec := range req.Records {
		if s.WriteHook != nil {
			if fieldErr := s.WriteHook(tableName, rec); fieldErr != nil {
				results = append(results, map[string]any{
					"success": false,
					"errors":  []FieldError{*fieldErr},
					"message": "record rejected",
				})
				continue
			}
		}

		tbl.nextID++
		rec["Id"] = float64(tbl.nextID)
		now := time.Now().UTC().Format(time.RFC3339)
		rec["CreatedOn"] = now
		rec["ModifiedOn"] = now
		tbl.records = append(tbl.records, rec)
		results = append(results, map[string]any{"success": true, "data": rec})
	}

	writeJSON(w, map[string]any{"success": true, "results": results})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request, tableName string) {
	var req struct {
		Records []record `json:"records"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	tbl := s.table(tableName)
	results := make([]map[string]any, 0, len(req.Records))

	for _, patch := range req.Records {
		existing := tbl.find(recID(patch))
		if existing == nil {
			results = append(results, map[string]any{"success": false, "message": "Record does not exist"})
			continue
		}

		if s.WriteHook != nil {
			if fieldErr := s.WriteHook(tableName, patch); fieldErr != nil {
				results = append(results, map[string]any{
					"success": false,
					"errors":  []FieldError{*fieldErr},
					"message": "record rejected",
				})
				continue
			}
		}

		// Partial update: only fields present in the patch are touched
		for k, v := range patch {
			if k == "Id" {
				continue
			}
			existing[k] = v
		}
		existing["ModifiedOn"] = time.Now().UTC().Format(time.RFC3339)
		results = append(results, map[string]any{"success": true, "data": existing})
	}

	writeJSON(w, map[string]any{"success": true, "results": results})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request, tableName string) {
	var req struct {
		RecordIDs []int `json:"RecordIds"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	tbl := s.table(tableName)
	results := make([]map[string]any, 0, len(req.RecordIDs))

	for _, id := range req.RecordIDs {
		found := false
		for i, rec := range tbl.records {
			if recID(rec) == id {
				tbl.records = append(tbl.records[:i], tbl.records[i+1:]...)
				found = true
				break
			}
		}
		if found {
			results = append(results, map[string]any{"success": true})
		} else {
			results = append(results, map[string]any{"success": false, "message": "Record does not exist"})
		}
	}

	writeJSON(w, map[string]any{"success": true, "results": results})
}

func lessValues(a, b any) bool {
	af, aIsNum := a.(float64)
	bf, bIsNum := b.(float64)
	if aIsNum && bIsNum {
		return af < bf
	}

	as, _ := a.(string)
	bs, _ := b.(string)
	return as < bs
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}
