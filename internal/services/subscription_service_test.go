package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/harshinipriyannaS/Librivault/internal/database"
	"github.com/harshinipriyannaS/Librivault/internal/models"
)

func TestUpgradeToPremium(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	reader := seedReader(0)
	free := seedSubscription(reader.ID, models.SubscriptionTypeFree, 3, 14, 0.50, time.Now().AddDate(0, 0, 14))

	premium, err := UpgradeToPremium(reader.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.SubscriptionTypePremium, premium.Type)
	assert.Equal(t, 10, premium.BookLimit)

	// Exactly one active subscription; the old row survives deactivated
	var active []models.Subscription
	database.DB.Where("user_id = ? AND active = ?", reader.ID, true).Find(&active)
	assert.Len(t, active, 1)
	assert.Equal(t, premium.ID, active[0].ID)

	var oldFree models.Subscription
	database.DB.First(&oldFree, free.ID)
	assert.False(t, oldFree.Active)

	// Upgrading twice fails
	_, err = UpgradeToPremium(reader.ID)
	assert.ErrorIs(t, err, ErrAlreadyPremium)
}

func TestUpgradeToPremium_Guards(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	admin := seedUser(models.RoleAdmin, 0)
	_, err := UpgradeToPremium(admin.ID)
	assert.ErrorIs(t, err, ErrStaffNoSubscription)

	orphan := seedReader(0)
	_, err = UpgradeToPremium(orphan.ID)
	assert.ErrorIs(t, err, ErrNoActiveSubscription)
}

func TestProcessExpiredSubscriptions_PremiumDowngrades(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	reader := seedReader(0)
	expired := seedSubscription(reader.ID, models.SubscriptionTypePremium, 10, 30, 0.25, time.Now().Add(-time.Hour))

	ProcessExpiredSubscriptions()

	var oldPremium models.Subscription
	database.DB.First(&oldPremium, expired.ID)
	assert.False(t, oldPremium.Active)

	// A fresh free subscription replaced it
	current, err := findActiveSubscriptionTx(database.DB, reader.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.SubscriptionTypeFree, current.Type)
	assert.True(t, current.EndDate.After(time.Now()))
}

func TestProcessExpiredSubscriptions_FreeRenews(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	reader := seedReader(0)
	expired := seedSubscription(reader.ID, models.SubscriptionTypeFree, 3, 14, 0.50, time.Now().Add(-time.Hour))

	ProcessExpiredSubscriptions()

	// Same row, pushed-out end date, still the only subscription
	var fresh models.Subscription
	database.DB.First(&fresh, expired.ID)
	assert.True(t, fresh.Active)
	assert.True(t, fresh.EndDate.After(time.Now()))

	var total int64
	database.DB.Model(&models.Subscription{}).Where("user_id = ?", reader.ID).Count(&total)
	assert.Equal(t, int64(1), total)
}

func TestGetUserSubscription_StaffView(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	admin := seedUser(models.RoleAdmin, 0)

	sub, err := GetUserSubscription(admin.ID)
	assert.NoError(t, err)
	assert.Equal(t, UnlimitedBookLimit, sub.BookLimit)
	assert.Equal(t, 0.0, sub.DailyFineAmount)
}

func TestSendSubscriptionExpiryReminders(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	soon := seedReader(0)
	later := seedReader(0)
	seedSubscription(soon.ID, models.SubscriptionTypePremium, 10, 30, 0.25, time.Now().AddDate(0, 0, 7))
	seedSubscription(later.ID, models.SubscriptionTypePremium, 10, 30, 0.25, time.Now().AddDate(0, 0, 20))

	SendSubscriptionExpiryReminders()

	var count int64
	database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", soon.ID, models.NotificationTypeSubExpiry).
		Count(&count)
	assert.Equal(t, int64(1), count)

	database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", later.ID, models.NotificationTypeSubExpiry).
		Count(&count)
	assert.Equal(t, int64(0), count)
}
