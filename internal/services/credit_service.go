package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/harshinipriyannaS/Librivault/config"
	"github.com/harshinipriyannaS/Librivault/internal/database"
	"github.com/harshinipriyannaS/Librivault/internal/models"
)

var ErrInsufficientCredits = errors.New("insufficient credits")

const creditUpdateAttempts = 3

func maxCreditLimit() int {
	return config.Get().MaxCreditLimit
}

// EarnCredits adds credits to a reader's balance, clamped to the configured
// maximum. Returns the new balance.
func EarnCredits(userID uint, amount int) (int, error) {
	var balance int
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		balance, txErr = earnCreditsTx(tx, userID, amount)
		return txErr
	})
	if err == nil {
		invalidateUserCache(userID)
	}
	return balance, err
}

// SpendCredits removes credits from a reader's balance. Fails with
// ErrInsufficientCredits if the balance cannot cover the amount.
func SpendCredits(userID uint, amount int) (int, error) {
	var balance int
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		balance, txErr = spendCreditsTx(tx, userID, amount)
		return txErr
	})
	if err == nil {
		invalidateUserCache(userID)
	}
	return balance, err
}

func earnCreditsTx(tx *gorm.DB, userID uint, amount int) (int, error) {
	return adjustCreditsTx(tx, userID, func(current int) (int, error) {
		next := current + amount
		if limit := maxCreditLimit(); next > limit {
			next = limit
		}
		return next, nil
	})
}

func spendCreditsTx(tx *gorm.DB, userID uint, amount int) (int, error) {
	return adjustCreditsTx(tx, userID, func(current int) (int, error) {
		if current < amount {
			return 0, ErrInsufficientCredits
		}
		next := current - amount
		if next < 0 {
			next = 0
		}
		return next, nil
	})
}

// adjustCreditsTx applies a balance mutation under the user's optimistic
// version check, retrying a bounded number of times on concurrent writers.
func adjustCreditsTx(tx *gorm.DB, userID uint, mutate func(current int) (int, error)) (int, error) {
	for attempt := 0; attempt < creditUpdateAttempts; attempt++ {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, ErrUserNotFound
			}
			return 0, err
		}

		next, err := mutate(user.ReaderCredits)
		if err != nil {
			return 0, err
		}

		result := tx.Model(&models.User{}).
			Where("id = ? AND version = ?", user.ID, user.Version).
			Updates(map[string]interface{}{
				"reader_credits": next,
				"version":        user.Version + 1,
			})
		if result.Error != nil {
			return 0, result.Error
		}
		if result.RowsAffected > 0 {
			return next, nil
		}
		// Lost the version race, reload and retry
	}
	return 0, ErrOptimisticLock
}
