package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/harshinipriyannaS/Librivault/internal/database"
	"github.com/harshinipriyannaS/Librivault/internal/models"
)

var ErrBookNotFound = errors.New("book not found")
var ErrBookUnavailable = errors.New("book is not available for borrowing")

func FindBookByID(bookID uint) (models.Book, error) {
	var book models.Book
	if err := database.DB.Preload("Category").First(&book, bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return book, ErrBookNotFound
		}
		return book, err
	}
	return book, nil
}

// decrementAvailableCopiesTx takes one copy out of circulation. The guarded
// UPDATE is the availability check: zero rows affected means another writer
// took the last copy (or the book was deactivated), and the caller must treat
// the book as unavailable. available_copies never goes below zero.
func decrementAvailableCopiesTx(tx *gorm.DB, bookID uint) error {
	result := tx.Model(&models.Book{}).
		Where("id = ? AND active = ? AND available_copies > 0", bookID, true).
		UpdateColumn("available_copies", gorm.Expr("available_copies - 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookUnavailable
	}
	return nil
}

// incrementAvailableCopiesTx puts a returned copy back, never exceeding
// total_copies.
func incrementAvailableCopiesTx(tx *gorm.DB, bookID uint) error {
	result := tx.Model(&models.Book{}).
		Where("id = ? AND available_copies < total_copies", bookID).
		UpdateColumn("available_copies", gorm.Expr("available_copies + 1"))
	return result.Error
}
