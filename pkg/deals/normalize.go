package deals

import (
	"github.com/salesbridge/salesbridge/pkg/apper"
	"github.com/salesbridge/salesbridge/pkg/models"
)

// normalize maps a raw deal record to the canonical model. The title prefers
// the entity field over the generic display name; contact name prefers the
// free-text field over the lookup's label.
func normalize(rec apper.Record) models.Deal {
	var contactID *int
	lookupName := ""
	if id, name, ok := rec.Lookup(fieldContactID); ok && id != 0 {
		contactID = &id
		lookupName = name
	}

	contactName := rec.String(fieldContactName)
	if contactName == "" {
		contactName = lookupName
	}
	if contactName == "" {
		contactName = "Unknown Contact"
	}

	company := rec.String(fieldCompany)
	if company == "" {
		company = "No Company"
	}

	probability := rec.Int(fieldProbability)
	if probability == 0 {
		probability = 50
	}

	status := rec.String(fieldStatus)
	if status == "" {
		status = "active"
	}

	stage := rec.String(fieldStage)
	if stage == "" {
		stage = models.StageLead
	}

	return models.Deal{
		ID:                rec.ID(),
		Title:             rec.FirstString(fieldTitle, fieldName),
		ContactID:         contactID,
		ContactName:       contactName,
		Company:           company,
		Value:             rec.Float(fieldValue),
		Probability:       probability,
		ExpectedCloseDate: rec.String(fieldCloseDate),
		Notes:             rec.String(fieldNotes),
		AssignedTo:        rec.String(fieldAssignedTo),
		Status:            status,
		Stage:             stage,
		Source:            rec.String(fieldSource),
		Description:       rec.String(fieldDescription),
		StageChangedAt:    rec.String(fieldStageChanged),
		CreatedAt:         rec.FirstString(fieldCreatedAt, "CreatedOn"),
		UpdatedAt:         rec.FirstString(fieldUpdatedAt, "ModifiedOn"),
	}
}
