package services

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/harshinipriyannaS/Librivault/config"
	"github.com/harshinipriyannaS/Librivault/internal/database"
	"github.com/harshinipriyannaS/Librivault/internal/models"
)

var ErrStaffNoSubscription = errors.New("staff members do not hold subscriptions")
var ErrAlreadyPremium = errors.New("user already has an active premium subscription")

// SubscriptionPlan describes a plan offered to readers.
type SubscriptionPlan struct {
	Type            string  `json:"type"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	BookLimit       int     `json:"book_limit"`
	DurationDays    int     `json:"duration_days"`
	DailyFineAmount float64 `json:"daily_fine_amount"`
}

// AvailableSubscriptionPlans returns the plans readers can hold.
func AvailableSubscriptionPlans() []SubscriptionPlan {
	cfg := config.Get()
	return []SubscriptionPlan{
		{
			Type:            models.SubscriptionTypeFree,
			Name:            "Free Plan",
			Description:     "Basic access to the library",
			Price:           0,
			BookLimit:       cfg.FreeBookLimit,
			DurationDays:    cfg.FreeDurationDays,
			DailyFineAmount: cfg.FreeDailyFine,
		},
		{
			Type:            models.SubscriptionTypePremium,
			Name:            "Premium Plan",
			Description:     "More books, longer loans, lower fines",
			Price:           cfg.PremiumPrice,
			BookLimit:       cfg.PremiumBookLimit,
			DurationDays:    cfg.PremiumDurationDays,
			DailyFineAmount: cfg.PremiumDailyFine,
		},
	}
}

// GetUserSubscription returns the active subscription for a reader. Staff get
// a synthetic unlimited view since they never hold a subscription row.
func GetUserSubscription(userID uint) (*models.Subscription, error) {
	user, err := FindUserByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if user.IsStaff() {
		return staffSubscriptionView(&user), nil
	}

	subscription, err := findActiveSubscriptionTx(database.DB, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveSubscription
		}
		return nil, err
	}
	return &subscription, nil
}

// CreateDefaultFreeSubscription gives a new reader the free plan. Called at
// registration; every reader must always hold exactly one active subscription.
func CreateDefaultFreeSubscription(userID uint) (*models.Subscription, error) {
	var subscription *models.Subscription
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		subscription, txErr = createDefaultFreeSubscriptionTx(tx, userID)
		return txErr
	})
	return subscription, err
}

func createDefaultFreeSubscriptionTx(tx *gorm.DB, userID uint) (*models.Subscription, error) {
	cfg := config.Get()
	now := time.Now()

	subscription := models.Subscription{
		UserID:             userID,
		Type:               models.SubscriptionTypeFree,
		StartDate:          now,
		EndDate:            now.AddDate(0, 0, cfg.FreeDurationDays),
		BookLimit:          cfg.FreeBookLimit,
		BorrowDurationDays: cfg.FreeDurationDays,
		DailyFineAmount:    cfg.FreeDailyFine,
		Active:             true,
	}
	if err := tx.Create(&subscription).Error; err != nil {
		return nil, err
	}

	zap.L().Info("free subscription created",
		zap.Uint("user_id", userID),
		zap.Uint("subscription_id", subscription.ID))
	return &subscription, nil
}

// UpgradeToPremium replaces the reader's active subscription with a premium
// one. The old row is deactivated, never rewritten, so plan history survives.
func UpgradeToPremium(userID uint) (*models.Subscription, error) {
	user, err := FindUserByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if user.IsStaff() {
		return nil, ErrStaffNoSubscription
	}

	cfg := config.Get()

	var subscription models.Subscription
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		current, err := findActiveSubscriptionTx(tx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoActiveSubscription
			}
			return err
		}

		if current.Type == models.SubscriptionTypePremium {
			return ErrAlreadyPremium
		}

		if err := tx.Model(&current).Update("active", false).Error; err != nil {
			return err
		}

		now := time.Now()
		subscription = models.Subscription{
			UserID:             userID,
			Type:               models.SubscriptionTypePremium,
			StartDate:          now,
			EndDate:            now.AddDate(0, 0, cfg.PremiumDurationDays),
			BookLimit:          cfg.PremiumBookLimit,
			BorrowDurationDays: cfg.PremiumDurationDays,
			DailyFineAmount:    cfg.PremiumDailyFine,
			Active:             true,
		}
		return tx.Create(&subscription).Error
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("subscription upgraded to premium",
		zap.Uint("user_id", userID),
		zap.Uint("subscription_id", subscription.ID))
	return &subscription, nil
}

// ProcessExpiredSubscriptions is the daily expiry sweep: expired premium plans
// downgrade to a fresh free subscription, expired free plans renew in place.
// A failure on one subscription is logged and does not abort the batch.
func ProcessExpiredSubscriptions() {
	cfg := config.Get()
	now := time.Now()

	var expired []models.Subscription
	if err := database.DB.
		Where("active = ? AND end_date <= ?", true, now).
		Find(&expired).Error; err != nil {
		zap.L().Error("expired subscription scan failed", zap.Error(err))
		return
	}

	processed := 0
	for i := range expired {
		subscription := &expired[i]
		var err error
		if subscription.Type == models.SubscriptionTypePremium {
			err = database.DB.Transaction(func(tx *gorm.DB) error {
				if err := tx.Model(subscription).Update("active", false).Error; err != nil {
					return err
				}
				_, err := createDefaultFreeSubscriptionTx(tx, subscription.UserID)
				return err
			})
		} else {
			err = database.DB.Model(subscription).
				Update("end_date", now.AddDate(0, 0, cfg.FreeDurationDays)).Error
		}

		if err != nil {
			zap.L().Error("failed to process expired subscription",
				zap.Uint("subscription_id", subscription.ID),
				zap.Uint("user_id", subscription.UserID),
				zap.Error(err))
			continue
		}
		processed++
	}

	zap.L().Info("processed expired subscriptions", zap.Int("count", processed))
}

// SendSubscriptionExpiryReminders notifies readers whose plan expires in 7 or
// 3 days, using an hour-wide window around each threshold.
func SendSubscriptionExpiryReminders() {
	now := time.Now()
	for _, days := range []int{7, 3} {
		target := now.AddDate(0, 0, days)
		windowStart := target.Add(-time.Hour)
		windowEnd := target.Add(time.Hour)

		var expiring []models.Subscription
		if err := database.DB.
			Where("active = ? AND end_date BETWEEN ? AND ?", true, windowStart, windowEnd).
			Find(&expiring).Error; err != nil {
			zap.L().Error("expiry reminder scan failed",
				zap.Int("days", days), zap.Error(err))
			continue
		}

		for i := range expiring {
			notifySubscriptionExpiry(expiring[i].UserID, expiring[i].ID, days)
		}
	}
}

func staffSubscriptionView(user *models.User) *models.Subscription {
	now := time.Now()
	return &models.Subscription{
		UserID:             user.ID,
		Type:               models.SubscriptionTypePremium,
		StartDate:          now,
		EndDate:            now.AddDate(100, 0, 0),
		BookLimit:          UnlimitedBookLimit,
		BorrowDurationDays: config.Get().StaffBorrowDurationDays,
		DailyFineAmount:    0,
		Active:             true,
	}
}
