package models

// Pipeline stages in their fixed order. Stage is a free-moving label, not a
// state machine: any stage can be set at any time, and stageChangedAt records
// when it last moved.
const (
	StageLead        = "Lead"
	StageQualified   = "Qualified"
	StageProposal    = "Proposal"
	StageNegotiation = "Negotiation"
	StageClosed      = "Closed"
)

// DealStages lists the pipeline stages in display order
var DealStages = []string{StageLead, StageQualified, StageProposal, StageNegotiation, StageClosed}

// ValidStage reports whether s is one of the known pipeline stages
func ValidStage(s string) bool {
	for _, stage := range DealStages {
		if stage == s {
			return true
		}
	}
	return false
}

// Deal is the canonical deal record
type Deal struct {
	ID                int     `json:"Id"`
	Title             string  `json:"title"`
	ContactID         *int    `json:"contactId"`
	ContactName       string  `json:"contactName"`
	Company           string  `json:"company"`
	Value             float64 `json:"value"`
	Probability       int     `json:"probability"`
	ExpectedCloseDate string  `json:"expectedCloseDate"`
	Notes             string  `json:"notes"`
	AssignedTo        string  `json:"assignedTo"`
	Status            string  `json:"status"`
	Stage             string  `json:"stage"`
	Source            string  `json:"source"`
	Description       string  `json:"description"`
	StageChangedAt    string  `json:"stageChangedAt"`
	CreatedAt         string  `json:"createdAt"`
	UpdatedAt         string  `json:"updatedAt"`
}

// CreateDealRequest carries the fields accepted when creating a deal
type CreateDealRequest struct {
	Title             string  `json:"title" validate:"required,min=1,max=200"`
	ContactID         *int    `json:"contactId" validate:"omitempty,gt=0"`
	ContactName       string  `json:"contactName" validate:"omitempty,max=200"`
	Company           string  `json:"company" validate:"omitempty,max=200"`
	Value             float64 `json:"value" validate:"omitempty,gte=0"`
	Probability       *int    `json:"probability" validate:"omitempty,gte=0,lte=100"`
	ExpectedCloseDate string  `json:"expectedCloseDate"`
	Notes             string  `json:"notes"`
	AssignedTo        string  `json:"assignedTo"`
	Status            string  `json:"status"`
	Stage             string  `json:"stage" validate:"omitempty,oneof=Lead Qualified Proposal Negotiation Closed"`
	Source            string  `json:"source"`
	Description       string  `json:"description"`
}

// UpdateDealRequest is a partial update; nil fields are left untouched
type UpdateDealRequest struct {
	Title             *string  `json:"title" validate:"omitempty,min=1,max=200"`
	ContactID         *int     `json:"contactId" validate:"omitempty,gt=0"`
	ContactName       *string  `json:"contactName" validate:"omitempty,max=200"`
	Company           *string  `json:"company" validate:"omitempty,max=200"`
	Value             *float64 `json:"value" validate:"omitempty,gte=0"`
	Probability       *int     `json:"probability" validate:"omitempty,gte=0,lte=100"`
	ExpectedCloseDate *string  `json:"expectedCloseDate"`
	Notes             *string  `json:"notes"`
	AssignedTo        *string  `json:"assignedTo"`
	Status            *string  `json:"status"`
	Stage             *string  `json:"stage" validate:"omitempty,oneof=Lead Qualified Proposal Negotiation Closed"`
	Source            *string  `json:"source"`
	Description       *string  `json:"description"`
}

// UpdateDealStatusRequest moves a deal's status and stage together, stamping
// stageChangedAt
type UpdateDealStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Stage  string `json:"stage" validate:"required,oneof=Lead Qualified Proposal Negotiation Closed"`
}

// StagePipeline is one stage's aggregate in the pipeline stats
type StagePipeline struct {
	Stage string  `json:"stage"`
	Count int     `json:"count"`
	Value float64 `json:"value"`
}
