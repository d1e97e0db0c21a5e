package types

// ------------------------------
// Request Types
// ------------------------------

// CreateUserRequest holds parameters for a new user
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      *int   `json:"age,omitempty"`
	Gender   string `json:"gender,omitempty"`
}

// CreateTripRequest holds parameters for a new trip. UserID is sent as a
// query parameter, not in the body.
type CreateTripRequest struct {
	Destination  string `json:"destination"`
	DurationDays int    `json:"duration_days"`
	DoingLaundry bool   `json:"doing_laundry"`
	Activities   string `json:"activities,omitempty"`
	UserID       string `json:"-"`
}
