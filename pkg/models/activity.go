package models

// Activity statuses and priorities used across the task views
const (
	ActivityStatusPending   = "pending"
	ActivityStatusCompleted = "completed"

	ActivityPriorityNormal = "normal"
)

// Activity is the canonical activity record. Tasks are activities that are
// not completed; history is the completed set.
type Activity struct {
	ID          int    `json:"Id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	DueDate     string `json:"dueDate"`
	CompletedAt string `json:"completedAt"`
	ContactID   *int   `json:"contactId"`
	ContactName string `json:"contactName"`
	DealID      *int   `json:"dealId"`
	DealTitle   string `json:"dealTitle"`
	AssignedTo  string `json:"assignedTo"`
	Outcome     string `json:"outcome"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// CreateActivityRequest carries the fields accepted when creating an activity
type CreateActivityRequest struct {
	Type        string `json:"type" validate:"omitempty,max=50"`
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description"`
	Status      string `json:"status" validate:"omitempty,max=50"`
	Priority    string `json:"priority" validate:"omitempty,max=50"`
	DueDate     string `json:"dueDate"`
	ContactID   *int   `json:"contactId" validate:"omitempty,gt=0"`
	ContactName string `json:"contactName" validate:"omitempty,max=200"`
	DealID      *int   `json:"dealId" validate:"omitempty,gt=0"`
	DealTitle   string `json:"dealTitle" validate:"omitempty,max=200"`
	AssignedTo  string `json:"assignedTo" validate:"omitempty,max=200"`
}

// UpdateActivityRequest is a partial update; nil fields are left untouched
type UpdateActivityRequest struct {
	Type        *string `json:"type" validate:"omitempty,max=50"`
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	Status      *string `json:"status" validate:"omitempty,max=50"`
	Priority    *string `json:"priority" validate:"omitempty,max=50"`
	DueDate     *string `json:"dueDate"`
	CompletedAt *string `json:"completedAt"`
	ContactID   *int    `json:"contactId" validate:"omitempty,gt=0"`
	ContactName *string `json:"contactName" validate:"omitempty,max=200"`
	DealID      *int    `json:"dealId" validate:"omitempty,gt=0"`
	DealTitle   *string `json:"dealTitle" validate:"omitempty,max=200"`
	AssignedTo  *string `json:"assignedTo" validate:"omitempty,max=200"`
	Outcome     *string `json:"outcome"`
}

// CompleteActivityRequest closes a task with an optional outcome note
type CompleteActivityRequest struct {
	Outcome string `json:"outcome" validate:"omitempty,max=1000"`
}
