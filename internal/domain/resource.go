package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// Resource names a manageable entity kind. The value doubles as the console's path segment.
type Resource string

const (
	ResourceResidents       Resource = "residents"
	ResourceVehicles        Resource = "vehicles"
	ResourceVehicleRequests Resource = "vehicle-requests"
	ResourceComplaints      Resource = "complaints"
	ResourcePayments        Resource = "payments"
	ResourceDigitalCards    Resource = "digital-cards"
	ResourceGuestRequests   Resource = "guest-requests"
	ResourceDeals           Resource = "deals"
	ResourceDealCategories  Resource = "deal-categories"
	ResourceCoupons         Resource = "coupons"
	ResourceAnnouncements   Resource = "announcements"
)

// Resources lists every resource in sidebar order.
var Resources = []Resource{
	ResourceResidents,
	ResourceVehicles,
	ResourceVehicleRequests,
	ResourceComplaints,
	ResourcePayments,
	ResourceDigitalCards,
	ResourceGuestRequests,
	ResourceDeals,
	ResourceDealCategories,
	ResourceAnnouncements,
}

// ParseResource returns the resource named by s.
func ParseResource(s string) (Resource, error) {
	for _, r := range Resources {
		if string(r) == s {
			return r, nil
		}
	}
	if s == string(ResourceCoupons) {
		return ResourceCoupons, nil
	}
	return "", ErrUnknownResource
}

// Action is something an admin can do to a record.
type Action string

const (
	ActionView           Action = "view"
	ActionApprove        Action = "approve"
	ActionReject         Action = "reject"
	ActionSuspend        Action = "suspend"
	ActionActivate       Action = "activate"
	ActionReactivate     Action = "reactivate"
	ActionDelete         Action = "delete"
	ActionUpdateStatus   Action = "update-status"
	ActionCreate         Action = "create"
	ActionUpdate         Action = "update"
	ActionToggleFeatured Action = "toggle-featured"
	ActionToggleActive   Action = "toggle-active"
	ActionCoupons        Action = "coupons"
)

// Record is implemented by every list item the console renders.
type Record interface {
	RecordID() string
	// StatusLabel is the status shown on the badge; it may be derived from now.
	StatusLabel(now time.Time) string
	// SearchFields are the values free-text search matches against.
	SearchFields() []string
	// Actions are the buttons offered for the record in its current status.
	Actions(now time.Time) []Action
}

// Image is a hosted image reference.
type Image struct {
	URL string `json:"url"`
}

// UserRef is the resident a record belongs to. The API sends either a bare id
// or a populated user object.
type UserRef struct {
	ID             string `json:"_id"`
	FullName       string `json:"fullName,omitempty"`
	CNIC           string `json:"cnicNumber,omitempty"`
	HouseNumber    string `json:"houseNumber,omitempty"`
	PhoneNumber    string `json:"phoneNumber,omitempty"`
	ProfilePicture *Image `json:"profilePicture,omitempty"`
}

// UnmarshalJSON accepts a string id or an object.
func (u *UserRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*u = UserRef{ID: id}
		return nil
	}
	type plain UserRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*u = UserRef(p)
	return nil
}

// ProfileURL returns the profile picture URL, or "".
func (u *UserRef) ProfileURL() string {
	if u == nil || u.ProfilePicture == nil {
		return ""
	}
	return u.ProfilePicture.URL
}

func (u *UserRef) searchFields() []string {
	if u == nil {
		return nil
	}
	return []string{u.FullName, u.CNIC, u.HouseNumber, u.PhoneNumber}
}

func withStatus(status string, fallback string) string {
	if status == "" {
		return fallback
	}
	return status
}
