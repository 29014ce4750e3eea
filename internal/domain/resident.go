package domain

import "time"

// Resident account statuses.
const (
	ResidentPending   = "pending"
	ResidentApproved  = "approved"
	ResidentRejected  = "rejected"
	ResidentSuspended = "suspended"
)

// Resident is a registered society member (an API "user").
type Resident struct {
	ID               string    `json:"_id"`
	FullName         string    `json:"fullName"`
	Email            string    `json:"email"`
	PhoneNumber      string    `json:"phoneNumber"`
	CNIC             string    `json:"cnicNumber"`
	HouseNumber      string    `json:"houseNumber"`
	OwnershipStatus  string    `json:"ownershipStatus,omitempty"`
	AccountStatus    string    `json:"accountStatus"`
	ProfilePicture   *Image    `json:"profilePicture,omitempty"`
	CNICFront        *Image    `json:"cnicFront,omitempty"`
	CNICBack         *Image    `json:"cnicBack,omitempty"`
	RejectionReason  string    `json:"rejectionReason,omitempty"`
	SuspensionReason string    `json:"suspensionReason,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (r Resident) RecordID() string { return r.ID }

func (r Resident) StatusLabel(time.Time) string { return withStatus(r.AccountStatus, ResidentPending) }

func (r Resident) SearchFields() []string {
	return []string{r.FullName, r.CNIC, r.Email, r.HouseNumber, r.PhoneNumber}
}

func (r Resident) Actions(time.Time) []Action {
	actions := []Action{ActionView}
	switch r.AccountStatus {
	case ResidentPending:
		actions = append(actions, ActionApprove, ActionReject)
	case ResidentApproved:
		actions = append(actions, ActionSuspend)
	case ResidentSuspended:
		actions = append(actions, ActionActivate)
	case ResidentRejected:
		actions = append(actions, ActionApprove)
	}
	return append(actions, ActionDelete)
}

// ProfileURL returns the profile picture URL, or "".
func (r Resident) ProfileURL() string {
	if r.ProfilePicture == nil {
		return ""
	}
	return r.ProfilePicture.URL
}

// ResidentDetail is a resident together with their registered vehicles.
type ResidentDetail struct {
	User     Resident  `json:"user"`
	Vehicles []Vehicle `json:"vehicles"`
}
