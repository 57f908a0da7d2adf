package models

import "time"

type Category struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	Name      string `gorm:"uniqueIndex;not null"`
}

type Book struct {
	ID              uint `gorm:"primarykey"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Title           string `gorm:"not null"`
	Author          string `gorm:"not null"`
	ISBN            string `gorm:"uniqueIndex"`
	CategoryID      uint   `gorm:"index;not null"`
	Category        Category
	TotalCopies     int  `gorm:"not null"`
	AvailableCopies int  `gorm:"not null"`
	Active          bool `gorm:"not null;default:true"`
}

func (b *Book) IsAvailable() bool {
	return b.Active && b.AvailableCopies > 0
}
