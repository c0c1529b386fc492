package companies

import (
	"github.com/salesbridge/salesbridge/pkg/listview"
	"github.com/salesbridge/salesbridge/pkg/models"
)

// Schema drives the companies list view
var Schema = listview.Schema[models.Company]{
	Search: []func(models.Company) string{
		func(c models.Company) string { return c.Name },
		func(c models.Company) string { return c.Industry },
		func(c models.Company) string { return c.Address },
	},
	Keys: map[string]listview.Key[models.Company]{
		"name":             {Kind: listview.KindString, String: func(c models.Company) string { return c.Name }},
		"industry":         {Kind: listview.KindString, String: func(c models.Company) string { return c.Industry }},
		"contactCount":     {Kind: listview.KindNumber, Number: func(c models.Company) float64 { return float64(c.ContactCount) }},
		"totalDealValue":   {Kind: listview.KindNumber, Number: func(c models.Company) float64 { return c.TotalDealValue }},
		"lastActivityDate": {Kind: listview.KindDate, Date: func(c models.Company) string { return c.LastActivityDate }},
		"createdAt":        {Kind: listview.KindDate, Date: func(c models.Company) string { return c.CreatedAt }},
		"updatedAt":        {Kind: listview.KindDate, Date: func(c models.Company) string { return c.UpdatedAt }},
	},
	DefaultSort: listview.Sort{Field: "updatedAt", Direction: listview.Desc},
}
