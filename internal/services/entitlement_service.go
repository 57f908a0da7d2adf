package services

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/harshinipriyannaS/Librivault/config"
	"github.com/harshinipriyannaS/Librivault/internal/database"
	"github.com/harshinipriyannaS/Librivault/internal/models"
)

// ErrNoActiveSubscription means a reader has no active subscription row.
// Every reader gets a free subscription at registration, so hitting this is a
// data-integrity fault, not a user mistake.
var ErrNoActiveSubscription = errors.New("no active subscription found")

// UnlimitedBookLimit is the sentinel book limit for staff policies. Callers
// must skip limit arithmetic entirely when Unlimited is set.
const UnlimitedBookLimit = -1

// BorrowPolicy is the entitlement in force for one user: how many books they
// may hold, for how long, and what an overdue day costs them.
type BorrowPolicy struct {
	BookLimit          int
	BorrowDurationDays int
	DailyFineAmount    float64
	Unlimited          bool
}

// ResolvePolicy returns the borrowing policy for a user. Staff get a fixed
// unlimited policy; readers get the terms of their active subscription.
func ResolvePolicy(user *models.User) (BorrowPolicy, error) {
	return resolvePolicyTx(database.DB, user)
}

func resolvePolicyTx(tx *gorm.DB, user *models.User) (BorrowPolicy, error) {
	if user.IsStaff() {
		return BorrowPolicy{
			BookLimit:          UnlimitedBookLimit,
			BorrowDurationDays: config.Get().StaffBorrowDurationDays,
			DailyFineAmount:    0,
			Unlimited:          true,
		}, nil
	}

	subscription, err := findActiveSubscriptionTx(tx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			zap.L().Error("reader has no active subscription",
				zap.Uint("user_id", user.ID))
			return BorrowPolicy{}, ErrNoActiveSubscription
		}
		return BorrowPolicy{}, err
	}

	return BorrowPolicy{
		BookLimit:          subscription.BookLimit,
		BorrowDurationDays: subscription.BorrowDurationDays,
		DailyFineAmount:    subscription.DailyFineAmount,
	}, nil
}

func findActiveSubscriptionTx(tx *gorm.DB, userID uint) (models.Subscription, error) {
	var subscription models.Subscription
	err := tx.Where("user_id = ? AND active = ?", userID, true).
		Order("id desc").
		First(&subscription).Error
	return subscription, err
}
