package models

import "time"

const (
	PaymentStatusPending   = "pending"
	PaymentStatusPaid      = "paid"
	PaymentStatusCancelled = "cancelled"
)

// Payment correlates an external gateway order with the fine it settles. The
// gateway callback is matched back in by ID; the core never blocks on it.
type Payment struct {
	ID          string `gorm:"primarykey;type:varchar(64)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	UserID      uint    `gorm:"index;not null"`
	FineID      uint    `gorm:"index;not null"`
	Amount      float64 `gorm:"type:decimal(10,2);not null"`
	Status      string  `gorm:"index;not null;default:'pending'"`
	Provider    string  `gorm:"type:varchar(50)"`
	ExternalID  string  `gorm:"type:varchar(100)"`
	CompletedAt *time.Time
}
