package domain

import "time"

// Journal outcomes.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
	OutcomeRejected  = "rejected"
)

// ActionRecord is one admin action in the activity journal. It never carries
// resource payloads.
type ActionRecord struct {
	ID         string    `db:"id" json:"id"`
	Admin      string    `db:"admin" json:"admin"`
	Resource   Resource  `db:"resource" json:"resource"`
	Action     Action    `db:"action" json:"action"`
	TargetID   string    `db:"target_id" json:"targetId"`
	Outcome    string    `db:"outcome" json:"outcome"`
	Message    string    `db:"message" json:"message"`
	OccurredAt time.Time `db:"occurred_at" json:"occurredAt"`
}
