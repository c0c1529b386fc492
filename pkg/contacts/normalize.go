package contacts

import (
	"github.com/salesbridge/salesbridge/pkg/apper"
	"github.com/salesbridge/salesbridge/pkg/models"
)

// normalize maps a raw contact record to the canonical model. It never fails:
// missing fields produce their documented defaults. The company label prefers
// the free-text field over the lookup's display name.
func normalize(rec apper.Record) models.Contact {
	var companyID *int
	lookupName := ""
	if id, name, ok := rec.Lookup(fieldCompanyID); ok && id != 0 {
		companyID = &id
		lookupName = name
	}

	company := rec.String(fieldCompany)
	if company == "" {
		company = lookupName
	}

	return models.Contact{
		ID:              rec.ID(),
		Name:            rec.String(fieldName),
		Email:           rec.String(fieldEmail),
		Phone:           rec.String(fieldPhone),
		Company:         company,
		CompanyID:       companyID,
		LastContactDate: rec.String(fieldLastContact),
		Notes:           rec.String(fieldNotes),
		CreatedAt:       rec.FirstString(fieldCreatedAt, "CreatedOn"),
		UpdatedAt:       rec.FirstString(fieldUpdatedAt, "ModifiedOn"),
	}
}
