package models

// Contact is the canonical contact record. Field names follow the canonical
// JSON contract; the wire mapping lives in pkg/contacts.
type Contact struct {
	ID              int    `json:"Id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Company         string `json:"company"`
	CompanyID       *int   `json:"companyId"`
	LastContactDate string `json:"lastContactDate"`
	Notes           string `json:"notes"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

// CreateContactRequest carries the fields accepted when creating a contact
type CreateContactRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=200"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone" validate:"omitempty,max=40"`
	Company   string `json:"company" validate:"omitempty,max=200"`
	CompanyID *int   `json:"companyId" validate:"omitempty,gt=0"`
	Notes     string `json:"notes"`
}

// UpdateContactRequest is a partial update; nil fields are left untouched
// server-side.
type UpdateContactRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=1,max=200"`
	Email           *string `json:"email" validate:"omitempty,email"`
	Phone           *string `json:"phone" validate:"omitempty,max=40"`
	Company         *string `json:"company" validate:"omitempty,max=200"`
	CompanyID       *int    `json:"companyId" validate:"omitempty,gt=0"`
	LastContactDate *string `json:"lastContactDate"`
	Notes           *string `json:"notes"`
}
