package activities

import (
	"github.com/salesbridge/salesbridge/pkg/listview"
	"github.com/salesbridge/salesbridge/pkg/models"
)

// Schema drives the activities list view
var Schema = listview.Schema[models.Activity]{
	Search: []func(models.Activity) string{
		func(a models.Activity) string { return a.Title },
		func(a models.Activity) string { return a.Description },
		func(a models.Activity) string { return a.ContactName },
		func(a models.Activity) string { return a.DealTitle },
	},
	Keys: map[string]listview.Key[models.Activity]{
		"title":       {Kind: listview.KindString, String: func(a models.Activity) string { return a.Title }},
		"type":        {Kind: listview.KindString, String: func(a models.Activity) string { return a.Type }},
		"status":      {Kind: listview.KindString, String: func(a models.Activity) string { return a.Status }},
		"priority":    {Kind: listview.KindString, String: func(a models.Activity) string { return a.Priority }},
		"contactName": {Kind: listview.KindString, String: func(a models.Activity) string { return a.ContactName }},
		"dueDate":     {Kind: listview.KindDate, Date: func(a models.Activity) string { return a.DueDate }},
		"completedAt": {Kind: listview.KindDate, Date: func(a models.Activity) string { return a.CompletedAt }},
		"createdAt":   {Kind: listview.KindDate, Date: func(a models.Activity) string { return a.CreatedAt }},
	},
	DefaultSort: listview.Sort{Field: "createdAt", Direction: listview.Desc},
}
