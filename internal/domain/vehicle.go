package domain

import "time"

// Vehicle change request types.
const (
	VehicleRequestAdd    = "add"
	VehicleRequestUpdate = "update"
	VehicleRequestDelete = "delete"
)

// Vehicle change request statuses.
const (
	VehicleRequestPending  = "pending"
	VehicleRequestApproved = "approved"
	VehicleRequestRejected = "rejected"
)

// Vehicle is a registered resident vehicle.
type Vehicle struct {
	ID                 string    `json:"_id"`
	Make               string    `json:"make"`
	Model              string    `json:"model"`
	PlateNumber        string    `json:"plateNumber"`
	Type               string    `json:"type"`
	Color              string    `json:"color"`
	VerificationStatus string    `json:"verificationStatus"`
	RegistrationImage  *Image    `json:"registrationImage,omitempty"`
	VehicleImage       *Image    `json:"vehicleImage,omitempty"`
	Owner              *UserRef  `json:"userId,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

func (v Vehicle) RecordID() string { return v.ID }

func (v Vehicle) StatusLabel(time.Time) string { return withStatus(v.VerificationStatus, "pending") }

func (v Vehicle) SearchFields() []string {
	return append([]string{v.PlateNumber, v.Make, v.Model}, v.Owner.searchFields()...)
}

func (v Vehicle) Actions(time.Time) []Action { return []Action{ActionView} }

// VehicleData is the vehicle a change request proposes.
type VehicleData struct {
	PlateNumber       string `json:"plateNumber"`
	Make              string `json:"make"`
	Model             string `json:"model"`
	Color             string `json:"color"`
	Type              string `json:"type"`
	RegistrationImage *Image `json:"registrationImage,omitempty"`
	VehicleImage      *Image `json:"vehicleImage,omitempty"`
}

// VehicleRequest is a resident's request to add, update or remove a vehicle.
type VehicleRequest struct {
	ID              string      `json:"_id"`
	Owner           *UserRef    `json:"userId,omitempty"`
	RequestType     string      `json:"requestType"`
	Status          string      `json:"status"`
	RequestedData   VehicleData `json:"requestedData"`
	RejectionReason string      `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	ReviewedAt      *time.Time  `json:"reviewedAt,omitempty"`
}

func (v VehicleRequest) RecordID() string { return v.ID }

func (v VehicleRequest) StatusLabel(time.Time) string {
	return withStatus(v.Status, VehicleRequestPending)
}

func (v VehicleRequest) SearchFields() []string {
	return append([]string{v.RequestedData.PlateNumber, v.RequestedData.Make, v.RequestedData.Model},
		v.Owner.searchFields()...)
}

func (v VehicleRequest) Actions(time.Time) []Action {
	if v.Status == VehicleRequestPending {
		return []Action{ActionApprove, ActionReject}
	}
	return nil
}
