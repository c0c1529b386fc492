package models

// Company is the canonical company record. The aggregate fields
// (ContactCount, TotalDealValue, LastActivityDate) are derived snapshots
// recomputed after contact or deal mutations; they may be stale between
// recomputation triggers.
type Company struct {
	ID               int     `json:"Id"`
	Name             string  `json:"name"`
	Industry         string  `json:"industry"`
	Address          string  `json:"address"`
	Notes            string  `json:"notes"`
	ContactCount     int     `json:"contactCount"`
	TotalDealValue   float64 `json:"totalDealValue"`
	LastActivityDate string  `json:"lastActivityDate"`
	CreatedAt        string  `json:"createdAt"`
	UpdatedAt        string  `json:"updatedAt"`
}

// CreateCompanyRequest carries the fields accepted when creating a company.
// Aggregates always start at zero.
type CreateCompanyRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Industry string `json:"industry" validate:"omitempty,max=100"`
	Address  string `json:"address" validate:"omitempty,max=500"`
	Notes    string `json:"notes"`
}

// UpdateCompanyRequest is a partial update; nil fields are left untouched
type UpdateCompanyRequest struct {
	Name             *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Industry         *string  `json:"industry" validate:"omitempty,max=100"`
	Address          *string  `json:"address" validate:"omitempty,max=500"`
	Notes            *string  `json:"notes"`
	ContactCount     *int     `json:"contactCount"`
	TotalDealValue   *float64 `json:"totalDealValue"`
	LastActivityDate *string  `json:"lastActivityDate"`
}
