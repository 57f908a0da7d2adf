package borrowing

import "time"

type CreateRequestInput struct {
	BookID uint `json:"book_id" binding:"required"`
}

// RequestResponse defines the response structure for a borrow request.
type RequestResponse struct {
	ID           uint       `json:"id"`
	ReaderID     uint       `json:"reader_id"`
	BookID       uint       `json:"book_id"`
	Status       string     `json:"status"`
	RequestedAt  time.Time  `json:"requested_at"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	ReviewedByID *uint      `json:"reviewed_by_id,omitempty"`
	ReviewNotes  string     `json:"review_notes,omitempty"`
}

// RecordResponse defines the response structure for a borrow record.
type RecordResponse struct {
	ID            uint       `json:"id"`
	ReaderID      uint       `json:"reader_id"`
	BookID        uint       `json:"book_id"`
	BorrowedAt    time.Time  `json:"borrowed_at"`
	DueDate       time.Time  `json:"due_date"`
	ReturnedAt    *time.Time `json:"returned_at,omitempty"`
	Status        string     `json:"status"`
	UsedCredit    bool       `json:"used_credit"`
	CreditsEarned int        `json:"credits_earned"`
}
