package domain

import "time"

// Complaint statuses.
const (
	ComplaintPending    = "pending"
	ComplaintInProgress = "in_progress"
	ComplaintResolved   = "resolved"
	ComplaintRejected   = "rejected"
)

// ComplaintStatuses are the statuses an admin may set.
var ComplaintStatuses = []string{ComplaintPending, ComplaintInProgress, ComplaintResolved, ComplaintRejected}

// Complaint is a resident complaint.
type Complaint struct {
	ID              string    `json:"_id"`
	ComplaintNumber string    `json:"complaintNumber"`
	ComplaintType   string    `json:"complaintType"`
	Priority        string    `json:"priority"`
	Description     string    `json:"description"`
	Status          string    `json:"status"`
	UserName        string    `json:"userName"`
	UserCNIC        string    `json:"userCnic"`
	Owner           *UserRef  `json:"userId,omitempty"`
	AdminResponse   string    `json:"adminResponse,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (c Complaint) RecordID() string { return c.ID }

func (c Complaint) StatusLabel(time.Time) string { return withStatus(c.Status, ComplaintPending) }

func (c Complaint) SearchFields() []string {
	return append([]string{c.ComplaintNumber, c.UserName, c.UserCNIC, c.ComplaintType, c.Description},
		c.Owner.searchFields()...)
}

func (c Complaint) Actions(time.Time) []Action {
	return []Action{ActionView, ActionUpdateStatus, ActionDelete}
}

// ComplaintStatusUpdate is the body of a complaint status change.
type ComplaintStatusUpdate struct {
	Status        string `json:"status" form:"status" validate:"required,oneof=pending in_progress resolved rejected"`
	AdminResponse string `json:"adminResponse" form:"adminResponse" validate:"max=2000"`
}
