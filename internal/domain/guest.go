package domain

import "time"

// Guest request statuses.
const (
	GuestPending  = "pending"
	GuestApproved = "approved"
	GuestRejected = "rejected"
	GuestExpired  = "expired"
)

// GuestRequest is a resident's request to admit a visitor.
type GuestRequest struct {
	ID              string     `json:"_id"`
	GuestName       string     `json:"guestName"`
	GuestMobile     string     `json:"guestMobile"`
	VisitType       string     `json:"visitType"`
	CustomVisitType string     `json:"customVisitType,omitempty"`
	VisitDate       *time.Time `json:"visitDate,omitempty"`
	ExpectedTime    string     `json:"expectedTime,omitempty"`
	Status          string     `json:"status"`
	ExpiresAt       *time.Time `json:"expiresAt,omitempty"`
	IsExpired       bool       `json:"isExpired"`
	AdminResponse   string     `json:"adminResponse,omitempty"`
	UserName        string     `json:"userName"`
	UserCNIC        string     `json:"userCnic"`
	UserHouseNumber string     `json:"userHouseNumber"`
	Owner           *UserRef   `json:"userId,omitempty"`
	ApprovedAt      *time.Time `json:"approvedAt,omitempty"`
	RejectedAt      *time.Time `json:"rejectedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// Expired reports whether the request has lapsed at now. Only pending and
// approved requests can expire.
func (g GuestRequest) Expired(now time.Time) bool {
	if g.Status != GuestPending && g.Status != GuestApproved {
		return g.Status == GuestExpired
	}
	if g.IsExpired {
		return true
	}
	return g.ExpiresAt != nil && !g.ExpiresAt.After(now)
}

// VisitLabel is the visit type shown to admins.
func (g GuestRequest) VisitLabel() string {
	if g.VisitType == "other" && g.CustomVisitType != "" {
		return g.CustomVisitType
	}
	return g.VisitType
}

func (g GuestRequest) RecordID() string { return g.ID }

func (g GuestRequest) StatusLabel(now time.Time) string {
	if g.Expired(now) {
		return GuestExpired
	}
	return withStatus(g.Status, GuestPending)
}

func (g GuestRequest) SearchFields() []string {
	return append([]string{g.GuestName, g.GuestMobile, g.UserName, g.UserCNIC, g.UserHouseNumber},
		g.Owner.searchFields()...)
}

func (g GuestRequest) Actions(now time.Time) []Action {
	actions := []Action{ActionView}
	if g.Status == GuestPending && !g.Expired(now) {
		actions = append(actions, ActionApprove, ActionReject)
	}
	return append(actions, ActionDelete)
}
