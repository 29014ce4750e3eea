package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment statuses.
const (
	PaymentPending   = "pending"
	PaymentSubmitted = "submitted"
	PaymentApproved  = "approved"
	PaymentRejected  = "rejected"
)

// Payment is a resident's monthly maintenance payment.
type Payment struct {
	ID              string          `json:"_id"`
	Amount          decimal.Decimal `json:"amount"`
	MonthDisplay    string          `json:"monthDisplay"`
	MonthNumber     int             `json:"monthNumber"`
	Year            int             `json:"year"`
	Status          string          `json:"status"`
	TransactionID   string          `json:"transactionId,omitempty"`
	Remarks         string          `json:"remarks,omitempty"`
	RejectionReason string          `json:"rejectionReason,omitempty"`
	PaymentProof    *Image          `json:"paymentProof,omitempty"`
	Owner           *UserRef        `json:"userId,omitempty"`
	DueDate         *time.Time      `json:"dueDate,omitempty"`
	PaidDate        *time.Time      `json:"paidDate,omitempty"`
	SubmittedAt     *time.Time      `json:"submittedAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

func (p Payment) RecordID() string { return p.ID }

func (p Payment) StatusLabel(time.Time) string { return withStatus(p.Status, PaymentPending) }

func (p Payment) SearchFields() []string {
	return append([]string{p.TransactionID, p.MonthDisplay}, p.Owner.searchFields()...)
}

func (p Payment) Actions(time.Time) []Action {
	if p.Status == PaymentSubmitted || p.Status == PaymentPending {
		return []Action{ActionView, ActionApprove, ActionReject}
	}
	return []Action{ActionView}
}
