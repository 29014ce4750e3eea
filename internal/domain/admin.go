package domain

// AdminProfile is the logged-in administrator as reported by the API.
type AdminProfile struct {
	ID       string `json:"_id"`
	FullName string `json:"fullName"`
	CNIC     string `json:"cnicNumber"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}

// DealStats is the body of the deals stats endpoint.
type DealStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
	Featured int `json:"featured"`
}

// LoginInput is the admin login form.
type LoginInput struct {
	CNIC     string `json:"cnicNumber" form:"cnicNumber" validate:"notblank,max=20"`
	Password string `json:"password" form:"password" validate:"required"`
}
