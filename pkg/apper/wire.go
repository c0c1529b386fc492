// Package apper is the client for the hosted Apper record store. It is the
// only package that speaks the store's wire shapes; everything above it works
// with canonical records produced by the per-entity normalizers.
package apper

// FieldName identifies a projected field in a fetch request
type FieldName struct {
	Name string `json:"Name"`
}

// FieldSpec wraps a field name the way the store expects it:
// {"field": {"Name": "email_c"}}
type FieldSpec struct {
	Field FieldName `json:"field"`
}

// OrderBy requests server-side ordering of a fetch
type OrderBy struct {
	FieldName string `json:"fieldName"`
	SortType  string `json:"sorttype"` // "ASC" or "DESC"
}

// FetchParams is the request body for fetch and get-by-id calls
type FetchParams struct {
	Fields  []FieldSpec `json:"fields"`
	OrderBy []OrderBy   `json:"orderBy,omitempty"`
}

// Fields builds a projection list from plain field names
func Fields(names ...string) []FieldSpec {
	specs := make([]FieldSpec, len(names))
	for i, name := range names {
		specs[i] = FieldSpec{Field: FieldName{Name: name}}
	}
	return specs
}

// Desc builds a single-field descending order clause
func Desc(field string) []OrderBy {
	return []OrderBy{{FieldName: field, SortType: "DESC"}}
}

// fetchResponse is the read envelope: {success, data, message}
type fetchResponse struct {
	Success bool     `json:"success"`
	Data    []Record `json:"data"`
	Message string   `json:"message"`
}

// singleResponse is the get-by-id envelope
type singleResponse struct {
	Success bool   `json:"success"`
	Data    Record `json:"data"`
	Message string `json:"message"`
}

// FieldError describes a per-field rejection inside a batch write result
type FieldError struct {
	FieldLabel string `json:"fieldLabel"`
	Message    string `json:"message"`
}

// WriteResult is one record's outcome inside a batched write/delete response
type WriteResult struct {
	Success bool         `json:"success"`
	Data    Record       `json:"data"`
	Errors  []FieldError `json:"errors,omitempty"`
	Message string       `json:"message,omitempty"`
}

// writeResponse is the write envelope: {success, results: [...]}
type writeResponse struct {
	Success bool          `json:"success"`
	Results []WriteResult `json:"results"`
	Message string        `json:"message"`
}

// createRequest is the body for batched creates and updates
type createRequest struct {
	Records []Record `json:"records"`
}

// deleteRequest is the body for batched deletes
type deleteRequest struct {
	RecordIDs []int `json:"RecordIds"`
}
