package models

import "errors"

// Failure taxonomy for service operations. Handlers translate these into
// HTTP responses; everything else is wrapped transport or store failure.
var (
	ErrNotFound     = errors.New("record not found")
	ErrCreateFailed = errors.New("create rejected by record store")
	ErrUpdateFailed = errors.New("update rejected by record store")
	ErrDeleteFailed = errors.New("delete rejected by record store")
)

// ErrorResponse is the JSON error body returned by the API
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
