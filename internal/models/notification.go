package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	NotificationTypeRequestApproved = "borrow_request_approved"
	NotificationTypeRequestDeclined = "borrow_request_declined"
	NotificationTypeDueReminder     = "book_due_reminder"
	NotificationTypeBookOverdue     = "book_overdue"
	NotificationTypeFineIssued      = "fine_issued"
	NotificationTypeSubExpiry       = "subscription_expiry_reminder"
)

type Notification struct {
	ID            uint `gorm:"primarykey"`
	CreatedAt     time.Time
	UserID        uint   `gorm:"index;not null"`
	Type          string `gorm:"index;not null"`
	Title         string `gorm:"not null"`
	Message       string `gorm:"type:text"`
	Payload       datatypes.JSON
	ReferenceID   *uint
	ReferenceType string `gorm:"type:varchar(50)"`
	Read          bool   `gorm:"not null;default:false"`
}
