package quotes

import (
	"github.com/salesbridge/salesbridge/pkg/apper"
	"github.com/salesbridge/salesbridge/pkg/models"
)

// normalize maps a raw quote record to the canonical model. The deal name
// comes solely from the lookup's display label.
func normalize(rec apper.Record) models.Quote {
	var dealID *int
	dealName := ""
	if id, name, ok := rec.Lookup(fieldDealID); ok && id != 0 {
		dealID = &id
		dealName = name
	}
	if dealName == "" {
		dealName = "No Deal"
	}

	status := rec.String(fieldStatus)
	if status == "" {
		status = models.QuoteStatusDraft
	}

	return models.Quote{
		ID:             rec.ID(),
		Name:           rec.String(fieldName),
		QuoteNumber:    rec.String(fieldQuoteNumber),
		DealID:         dealID,
		DealName:       dealName,
		QuoteDate:      rec.String(fieldQuoteDate),
		ValidUntilDate: rec.String(fieldValidUntil),
		Amount:         rec.Float(fieldAmount),
		Notes:          rec.String(fieldNotes),
		Status:         status,
		Tags:           rec.String(fieldTags),
		CreatedAt:      rec.String(fieldCreatedOn),
		UpdatedAt:      rec.String(fieldModifiedOn),
	}
}
