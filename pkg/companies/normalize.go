package companies

import (
	"github.com/salesbridge/salesbridge/pkg/apper"
	"github.com/salesbridge/salesbridge/pkg/models"
)

// normalize maps a raw company record to the canonical model. Absent
// aggregates read as zero; lastActivityDate stays empty until computed.
func normalize(rec apper.Record) models.Company {
	return models.Company{
		ID:               rec.ID(),
		Name:             rec.String(fieldName),
		Industry:         rec.String(fieldIndustry),
		Address:          rec.String(fieldAddress),
		Notes:            rec.String(fieldNotes),
		ContactCount:     rec.Int(fieldContactCount),
		TotalDealValue:   rec.Float(fieldTotalDealValue),
		LastActivityDate: rec.String(fieldLastActivity),
		CreatedAt:        rec.FirstString(fieldCreatedAt, "CreatedOn"),
		UpdatedAt:        rec.FirstString(fieldUpdatedAt, "ModifiedOn"),
	}
}
