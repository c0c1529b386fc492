package models

// Quote statuses
const (
	QuoteStatusDraft    = "Draft"
	QuoteStatusSent     = "Sent"
	QuoteStatusAccepted = "Accepted"
	QuoteStatusRejected = "Rejected"
	QuoteStatusExpired  = "Expired"
)

// Quote is the canonical quote record. Tags is a comma-joined string, as
// stored.
type Quote struct {
	ID             int     `json:"Id"`
	Name           string  `json:"name"`
	QuoteNumber    string  `json:"quoteNumber"`
	DealID         *int    `json:"dealId"`
	DealName       string  `json:"dealName"`
	QuoteDate      string  `json:"quoteDate"`
	ValidUntilDate string  `json:"validUntilDate"`
	Amount         float64 `json:"amount"`
	Notes          string  `json:"notes"`
	Status         string  `json:"status"`
	Tags           string  `json:"tags"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
}

// CreateQuoteRequest carries the fields accepted when creating a quote.
// The date-order check (validUntilDate not before quoteDate) is enforced by
// the handler since validator tags cannot compare the two.
type CreateQuoteRequest struct {
	Name           string  `json:"name" validate:"required,min=1,max=200"`
	QuoteNumber    string  `json:"quoteNumber" validate:"omitempty,max=50"`
	DealID         *int    `json:"dealId" validate:"omitempty,gt=0"`
	QuoteDate      string  `json:"quoteDate"`
	ValidUntilDate string  `json:"validUntilDate"`
	Amount         float64 `json:"amount" validate:"omitempty,gte=0"`
	Notes          string  `json:"notes"`
	Status         string  `json:"status" validate:"omitempty,oneof=Draft Sent Accepted Rejected Expired"`
	Tags           string  `json:"tags"`
}

// UpdateQuoteRequest is a partial update; nil fields are left untouched
type UpdateQuoteRequest struct {
	Name           *string  `json:"name" validate:"omitempty,min=1,max=200"`
	QuoteNumber    *string  `json:"quoteNumber" validate:"omitempty,max=50"`
	DealID         *int     `json:"dealId" validate:"omitempty,gt=0"`
	QuoteDate      *string  `json:"quoteDate"`
	ValidUntilDate *string  `json:"validUntilDate"`
	Amount         *float64 `json:"amount" validate:"omitempty,gte=0"`
	Notes          *string  `json:"notes"`
	Status         *string  `json:"status" validate:"omitempty,oneof=Draft Sent Accepted Rejected Expired"`
	Tags           *string  `json:"tags"`
}
