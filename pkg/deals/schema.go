package deals

import (
	"github.com/salesbridge/salesbridge/pkg/listview"
	"github.com/salesbridge/salesbridge/pkg/models"
)

// Schema drives the deals list view
var Schema = listview.Schema[models.Deal]{
	Search: []func(models.Deal) string{
		func(d models.Deal) string { return d.Title },
		func(d models.Deal) string { return d.ContactName },
		func(d models.Deal) string { return d.Company },
		func(d models.Deal) string { return d.Stage },
	},
	Keys: map[string]listview.Key[models.Deal]{
		"title":             {Kind: listview.KindString, String: func(d models.Deal) string { return d.Title }},
		"company":           {Kind: listview.KindString, String: func(d models.Deal) string { return d.Company }},
		"contactName":       {Kind: listview.KindString, String: func(d models.Deal) string { return d.ContactName }},
		"stage":             {Kind: listview.KindString, String: func(d models.Deal) string { return d.Stage }},
		"value":             {Kind: listview.KindNumber, Number: func(d models.Deal) float64 { return d.Value }},
		"probability":       {Kind: listview.KindNumber, Number: func(d models.Deal) float64 { return float64(d.Probability) }},
		"expectedCloseDate": {Kind: listview.KindDate, Date: func(d models.Deal) string { return d.ExpectedCloseDate }},
		"createdAt":         {Kind: listview.KindDate, Date: func(d models.Deal) string { return d.CreatedAt }},
		"updatedAt":         {Kind: listview.KindDate, Date: func(d models.Deal) string { return d.UpdatedAt }},
	},
	DefaultSort: listview.Sort{Field: "createdAt", Direction: listview.Desc},
}
