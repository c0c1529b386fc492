package apper

import (
	"errors"

	"github.com/salesbridge/salesbridge/pkg/logger"
)

// ErrAllFailed is returned by FirstSuccess when every record in a batch was
// rejected by the store
var ErrAllFailed = errors.New("all records rejected by record store")

// FirstSuccess reduces a batched write response to the first successful
// record. Failed entries are logged field by field and otherwise ignored;
// the reduction only errors when nothing succeeded.
func FirstSuccess(results []WriteResult, log logger.Logger) (Record, error) {
	var first Record
	failed := 0

	for _, res := range results {
		if res.Success {
			if first == nil {
				first = res.Data
			}
			continue
		}

		failed++
		for _, fieldErr := range res.Errors {
			log.Error("record store rejected field",
				"field", fieldErr.FieldLabel,
				"message", fieldErr.Message)
		}
		if res.Message != "" {
			log.Error("record store rejected record", "message", res.Message)
		}
	}

	if failed > 0 {
		log.Warn("partial batch failure", "failed", failed, "total", len(results))
	}

	if first == nil {
		return nil, ErrAllFailed
	}

	return first, nil
}

// AllSucceeded reports whether every record in a batched response succeeded
func AllSucceeded(results []WriteResult) bool {
	for _, res := range results {
		if !res.Success {
			return false
		}
	}
	return len(results) > 0
}
