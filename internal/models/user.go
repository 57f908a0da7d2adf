package models

import "time"

const (
	RoleReader    = "reader"
	RoleLibrarian = "librarian"
	RoleAdmin     = "admin"
)

type User struct {
	ID            uint `gorm:"primarykey"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Email         string `gorm:"uniqueIndex;not null"`
	Password      string `gorm:"not null"`
	FullName      string `gorm:"not null"`
	Role          string `gorm:"not null;default:'reader'"`
	ReaderCredits int    `gorm:"not null;default:0"`
	IsActive      bool   `gorm:"not null;default:true"`
	Version       int    `gorm:"default:1"`
}

// IsStaff reports whether the user is exempt from subscription limits and fines.
func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleLibrarian
}

func (u *User) IsReader() bool {
	return u.Role == RoleReader
}
