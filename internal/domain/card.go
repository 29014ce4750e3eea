package domain

import "time"

// Digital card statuses.
const (
	CardPending   = "pending"
	CardApproved  = "approved"
	CardRejected  = "rejected"
	CardSuspended = "suspended"
)

// DigitalCard is a resident's digital society card.
type DigitalCard struct {
	ID               string     `json:"_id"`
	CardNumber       string     `json:"cardNumber"`
	Owner            *UserRef   `json:"userId,omitempty"`
	Status           string     `json:"status"`
	IssuedDate       *time.Time `json:"issuedDate,omitempty"`
	ExpiryDate       *time.Time `json:"expiryDate,omitempty"`
	PrintCount       int        `json:"printCount"`
	LastPrintedAt    *time.Time `json:"lastPrintedAt,omitempty"`
	RejectionReason  string     `json:"rejectionReason,omitempty"`
	SuspensionReason string     `json:"suspensionReason,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

func (c DigitalCard) RecordID() string { return c.ID }

func (c DigitalCard) StatusLabel(time.Time) string { return withStatus(c.Status, CardPending) }

func (c DigitalCard) SearchFields() []string {
	return append([]string{c.CardNumber}, c.Owner.searchFields()...)
}

func (c DigitalCard) Actions(time.Time) []Action {
	actions := []Action{ActionView}
	switch c.Status {
	case CardPending:
		actions = append(actions, ActionApprove, ActionReject)
	case CardApproved:
		actions = append(actions, ActionSuspend)
	case CardSuspended:
		actions = append(actions, ActionReactivate)
	}
	return append(actions, ActionDelete)
}

// DigitalCardDetail wraps a single card as the API returns it.
type DigitalCardDetail struct {
	Card DigitalCard `json:"card"`
}
