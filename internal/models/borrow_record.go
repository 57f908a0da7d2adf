package models

import "time"

const (
	BorrowStatusActive   = "active"
	BorrowStatusOverdue  = "overdue"
	BorrowStatusReturned = "returned"
)

type BorrowRecord struct {
	ID            uint `gorm:"primarykey"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ReaderID      uint      `gorm:"index;not null"`
	BookID        uint      `gorm:"index;not null"`
	BorrowedAt    time.Time `gorm:"not null"`
	DueDate       time.Time `gorm:"index;not null"`
	ReturnedAt    *time.Time
	Status        string `gorm:"index;not null;default:'active'"`
	UsedCredit    bool   `gorm:"not null;default:false"`
	CreditsEarned int    `gorm:"not null;default:0"`
}

func (r *BorrowRecord) IsActive() bool {
	return r.Status == BorrowStatusActive
}

func (r *BorrowRecord) IsReturned() bool {
	return r.Status == BorrowStatusReturned
}

// IsOverdue reports whether the loan is past due, whether or not the overdue
// sweep has marked it yet.
func (r *BorrowRecord) IsOverdue(now time.Time) bool {
	return r.Status == BorrowStatusOverdue ||
		(r.Status == BorrowStatusActive && now.After(r.DueDate))
}

// DaysOverdue counts whole days past the due date. For returned loans the
// return instant is the comparison point, otherwise now.
func (r *BorrowRecord) DaysOverdue(now time.Time) int {
	if !r.IsOverdue(now) && r.ReturnedAt == nil {
		return 0
	}
	compare := now
	if r.ReturnedAt != nil {
		compare = *r.ReturnedAt
	}
	if !compare.After(r.DueDate) {
		return 0
	}
	return int(compare.Sub(r.DueDate).Hours() / 24)
}

// DaysReturnedEarly counts whole days between the return instant and the due
// date. A return at the exact due instant counts as zero.
func (r *BorrowRecord) DaysReturnedEarly() int {
	if r.ReturnedAt == nil || !r.IsReturned() {
		return 0
	}
	if !r.DueDate.After(*r.ReturnedAt) {
		return 0
	}
	return int(r.DueDate.Sub(*r.ReturnedAt).Hours() / 24)
}

func (r *BorrowRecord) Return(now time.Time) {
	r.Status = BorrowStatusReturned
	r.ReturnedAt = &now
}

func (r *BorrowRecord) MarkOverdue() {
	r.Status = BorrowStatusOverdue
}
