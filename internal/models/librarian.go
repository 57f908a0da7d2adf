package models

import "time"

// Librarian is the staff profile linking a librarian user to the single
// category whose borrow requests they review.
type Librarian struct {
	ID                 uint `gorm:"primarykey"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
	UserID             uint `gorm:"uniqueIndex;not null"`
	AssignedCategoryID uint `gorm:"index;not null"`
	AssignedCategory   Category `gorm:"foreignKey:AssignedCategoryID"`
}
