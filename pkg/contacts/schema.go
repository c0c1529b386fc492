package contacts

import (
	"github.com/salesbridge/salesbridge/pkg/listview"
	"github.com/salesbridge/salesbridge/pkg/models"
)

// Schema drives the contacts list view: search spans name, email, company and
// phone; default order is newest first.
var Schema = listview.Schema[models.Contact]{
	Search: []func(models.Contact) string{
		func(c models.Contact) string { return c.Name },
		func(c models.Contact) string { return c.Email },
		func(c models.Contact) string { return c.Company },
		func(c models.Contact) string { return c.Phone },
	},
	Keys: map[string]listview.Key[models.Contact]{
		"name":            {Kind: listview.KindString, String: func(c models.Contact) string { return c.Name }},
		"email":           {Kind: listview.KindString, String: func(c models.Contact) string { return c.Email }},
		"company":         {Kind: listview.KindString, String: func(c models.Contact) string { return c.Company }},
		"lastContactDate": {Kind: listview.KindDate, Date: func(c models.Contact) string { return c.LastContactDate }},
		"createdAt":       {Kind: listview.KindDate, Date: func(c models.Contact) string { return c.CreatedAt }},
		"updatedAt":       {Kind: listview.KindDate, Date: func(c models.Contact) string { return c.UpdatedAt }},
	},
	DefaultSort: listview.Sort{Field: "createdAt", Direction: listview.Desc},
}
