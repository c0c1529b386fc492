package quotes

import (
	"github.com/salesbridge/salesbridge/pkg/listview"
	"github.com/salesbridge/salesbridge/pkg/models"
)

// Schema drives the quotes list view: search spans name, number, deal name
// and status; default order is newest first.
var Schema = listview.Schema[models.Quote]{
	Search: []func(models.Quote) string{
		func(q models.Quote) string { return q.Name },
		func(q models.Quote) string { return q.QuoteNumber },
		func(q models.Quote) string { return q.DealName },
		func(q models.Quote) string { return q.Status },
	},
	Keys: map[string]listview.Key[models.Quote]{
		"name":           {Kind: listview.KindString, String: func(q models.Quote) string { return q.Name }},
		"quoteNumber":    {Kind: listview.KindString, String: func(q models.Quote) string { return q.QuoteNumber }},
		"dealName":       {Kind: listview.KindString, String: func(q models.Quote) string { return q.DealName }},
		"status":         {Kind: listview.KindString, String: func(q models.Quote) string { return q.Status }},
		"amount":         {Kind: listview.KindNumber, Number: func(q models.Quote) float64 { return q.Amount }},
		"quoteDate":      {Kind: listview.KindDate, Date: func(q models.Quote) string { return q.QuoteDate }},
		"validUntilDate": {Kind: listview.KindDate, Date: func(q models.Quote) string { return q.ValidUntilDate }},
		"createdAt":      {Kind: listview.KindDate, Date: func(q models.Quote) string { return q.CreatedAt }},
	},
	DefaultSort: listview.Sort{Field: "createdAt", Direction: listview.Desc},
}
