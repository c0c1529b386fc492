package activities

import (
	"github.com/salesbridge/salesbridge/pkg/apper"
	"github.com/salesbridge/salesbridge/pkg/models"
)

// normalize maps a raw activity record to the canonical model
func normalize(rec apper.Record) models.Activity {
	var contactID *int
	contactLookup := ""
	if id, name, ok := rec.Lookup(fieldContactID); ok && id != 0 {
		contactID = &id
		contactLookup = name
	}

	var dealID *int
	dealLookup := ""
	if id, name, ok := rec.Lookup(fieldDealID); ok && id != 0 {
		dealID = &id
		dealLookup = name
	}

	contactName := rec.String(fieldContactName)
	if contactName == "" {
		contactName = contactLookup
	}

	dealTitle := rec.String(fieldDealTitle)
	if dealTitle == "" {
		dealTitle = dealLookup
	}

	status := rec.String(fieldStatus)
	if status == "" {
		status = models.ActivityStatusPending
	}

	priority := rec.String(fieldPriority)
	if priority == "" {
		priority = models.ActivityPriorityNormal
	}

	assignedTo := rec.String(fieldAssignedTo)
	if assignedTo == "" {
		assignedTo = "Current User"
	}

	return models.Activity{
		ID:          rec.ID(),
		Type:        rec.String(fieldType),
		Title:       rec.FirstString(fieldTitle, fieldName),
		Description: rec.String(fieldDescription),
		Status:      status,
		Priority:    priority,
		DueDate:     rec.String(fieldDueDate),
		CompletedAt: rec.String(fieldCompletedAt),
		ContactID:   contactID,
		ContactName: contactName,
		DealID:      dealID,
		DealTitle:   dealTitle,
		AssignedTo:  assignedTo,
		Outcome:     rec.String(fieldOutcome),
		CreatedAt:   rec.FirstString(fieldCreatedAt, "CreatedOn"),
		UpdatedAt:   rec.FirstString(fieldUpdatedAt, "ModifiedOn"),
	}
}
