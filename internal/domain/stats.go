package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Badges are the sidebar counts. Every field is always defined; a resource
// whose poll failed contributes zeros.
type Badges struct {
	Users           StatusCounts `json:"users"`
	Complaints      StatusCounts `json:"complaints"`
	Payments        StatusCounts `json:"payments"`
	VehicleRequests StatusCounts `json:"vehicleRequests"`
	Cards           CardStats    `json:"cards"`
	Guests          GuestStats   `json:"guests"`
}

// StatusCounts is a list's size broken down by status.
type StatusCounts struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
}

// Count returns the number of records in status, zero if none.
func (s StatusCounts) Count(status string) int {
	return s.ByStatus[status]
}

// CountStatuses counts records by their status label.
func CountStatuses[T interface{ StatusLabel(now time.Time) string }](records []T, now time.Time) StatusCounts {
	counts := StatusCounts{Total: len(records), ByStatus: make(map[string]int)}
	for _, r := range records {
		counts.ByStatus[r.StatusLabel(now)]++
	}
	return counts
}

// CardStats is the digital card overview.
type CardStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Approved  int `json:"approved"`
	Rejected  int `json:"rejected"`
	Suspended int `json:"suspended"`
}

// GuestStats is the guest request overview.
type GuestStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Expired  int `json:"expired"`
}

// UserStats is the body of the users stats endpoint.
type UserStats struct {
	TotalUsers     int `json:"totalUsers"`
	ApprovedUsers  int `json:"approvedUsers"`
	PendingUsers   int `json:"pendingUsers"`
	SuspendedUsers int `json:"suspendedUsers"`
	TotalVehicles  int `json:"totalVehicles"`
}

// ComplaintStats is the body of the complaints stats endpoint.
type ComplaintStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Resolved   int `json:"resolved"`
	Rejected   int `json:"rejected"`
}

// PaymentStats is the body of the payments overview endpoint.
type PaymentStats struct {
	Overview struct {
		Total     int `json:"total"`
		Pending   int `json:"pending"`
		Submitted int `json:"submitted"`
		Approved  int `json:"approved"`
		Rejected  int `json:"rejected"`
	} `json:"overview"`
	Amounts struct {
		TotalCollected decimal.Decimal `json:"totalCollected"`
	} `json:"amounts"`
}

// DashboardStats are the numbers on the dashboard. A section whose request
// failed is left zero.
type DashboardStats struct {
	Users      UserStats
	Complaints ComplaintStats
	Payments   PaymentStats
}

// TotalUsers, PendingApprovals, PendingComplaints and PendingPayments are the
// headline cards.
func (d DashboardStats) TotalUsers() int        { return d.Users.TotalUsers }
func (d DashboardStats) PendingApprovals() int  { return d.Users.PendingUsers }
func (d DashboardStats) PendingComplaints() int { return d.Complaints.Pending }
func (d DashboardStats) PendingPayments() int   { return d.Payments.Overview.Pending }
