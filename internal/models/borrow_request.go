package models

import "time"

const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusDeclined = "declined"
)

// BorrowRequest carries a partial unique index over (reader_id, book_id)
// scoped to pending rows, so a reader can never hold two pending requests
// for the same book, no matter how the inserts interleave.
type BorrowRequest struct {
	ID           uint `gorm:"primarykey"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ReaderID     uint   `gorm:"index;not null;uniqueIndex:uniq_pending_borrow_request,where:status = 'pending'"`
	BookID       uint   `gorm:"index;not null;uniqueIndex:uniq_pending_borrow_request,where:status = 'pending'"`
	Status       string `gorm:"index;not null;default:'pending'"`
	RequestedAt  time.Time
	ReviewedAt   *time.Time
	ReviewedByID *uint
	ReviewNotes  string `gorm:"type:text"`
}

func (r *BorrowRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}

func (r *BorrowRequest) Approve(reviewerID uint, notes string) {
	now := time.Now()
	r.Status = RequestStatusApproved
	r.ReviewedAt = &now
	r.ReviewedByID = &reviewerID
	r.ReviewNotes = notes
}

func (r *BorrowRequest) Decline(reviewerID uint, notes string) {
	now := time.Now()
	r.Status = RequestStatusDeclined
	r.ReviewedAt = &now
	r.ReviewedByID = &reviewerID
	r.ReviewNotes = notes
}
