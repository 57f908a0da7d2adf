package models

import "time"

const (
	SubscriptionTypeFree    = "free"
	SubscriptionTypePremium = "premium"
)

// Subscription is append-only: upgrades and downgrades deactivate the current
// row and insert a new one, so a reader's plan history is never rewritten.
type Subscription struct {
	ID                 uint `gorm:"primarykey"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
	UserID             uint      `gorm:"index;not null"`
	Type               string    `gorm:"not null;default:'free'"`
	StartDate          time.Time `gorm:"not null"`
	EndDate            time.Time `gorm:"not null"`
	BookLimit          int       `gorm:"not null"`
	BorrowDurationDays int       `gorm:"not null"`
	DailyFineAmount    float64   `gorm:"type:decimal(10,2);not null"`
	Active             bool      `gorm:"index;not null;default:true"`
}

func (s *Subscription) IsExpired(now time.Time) bool {
	return now.After(s.EndDate)
}
