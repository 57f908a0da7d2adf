package user

// UserResponse defines the response structure for user information.
type UserResponse struct {
	ID            uint   `json:"id"`
	Email         string `json:"email"`
	FullName      string `json:"full_name"`
	Role          string `json:"role"`
	ReaderCredits int    `json:"reader_credits"`
	IsActive      bool   `json:"is_active"`
	Token         string `json:"token,omitempty"`
}

// ProfileResponse extends the user view with borrowing state.
type ProfileResponse struct {
	UserResponse
	ActiveLoans      int64   `json:"active_loans"`
	OutstandingFines float64 `json:"outstanding_fines"`
}
