package models

import "time"

const (
	FineStatusPending = "pending"
	FineStatusPaid    = "paid"
	FineStatusWaived  = "waived"
)

// Fine carries a unique index on BorrowRecordID: a loan is fined at most once,
// re-assessment updates the existing row instead of inserting another.
type Fine struct {
	ID             uint `gorm:"primarykey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ReaderID       uint    `gorm:"index;not null"`
	BorrowRecordID uint    `gorm:"uniqueIndex;not null"`
	Amount         float64 `gorm:"type:decimal(10,2);not null"`
	OverdueDays    int     `gorm:"not null"`
	Status         string  `gorm:"index;not null;default:'pending'"`
	Description    string  `gorm:"type:text"`
	PaidAt         *time.Time
	WaivedAt       *time.Time
	WaivedByID     *uint
	WaiverReason   string
}

func (f *Fine) IsPending() bool {
	return f.Status == FineStatusPending
}

func (f *Fine) MarkPaid(now time.Time) {
	f.Status = FineStatusPaid
	f.PaidAt = &now
}

func (f *Fine) Waive(staffID uint, reason string, now time.Time) {
	f.Status = FineStatusWaived
	f.WaivedByID = &staffID
	f.WaiverReason = reason
	f.WaivedAt = &now
}
