package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/harshinipriyannaS/Librivault/internal/models"
)

func TestResolvePolicy_Reader(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	reader := seedReader(0)
	seedSubscription(reader.ID, models.SubscriptionTypePremium, 10, 30, 0.25, time.Now().AddDate(0, 0, 30))

	policy, err := ResolvePolicy(&reader)
	assert.NoError(t, err)
	assert.Equal(t, 10, policy.BookLimit)
	assert.Equal(t, 30, policy.BorrowDurationDays)
	assert.InDelta(t, 0.25, policy.DailyFineAmount, 0.001)
	assert.False(t, policy.Unlimited)
}

func TestResolvePolicy_LatestActiveWins(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	reader := seedReader(0)
	seedSubscription(reader.ID, models.SubscriptionTypeFree, 3, 14, 0.50, time.Now().AddDate(0, 0, 14))
	seedSubscription(reader.ID, models.SubscriptionTypePremium, 10, 30, 0.25, time.Now().AddDate(0, 0, 30))

	policy, err := ResolvePolicy(&reader)
	assert.NoError(t, err)
	assert.Equal(t, 10, policy.BookLimit)
}

func TestResolvePolicy_Staff(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	admin := seedUser(models.RoleAdmin, 0)

	policy, err := ResolvePolicy(&admin)
	assert.NoError(t, err)
	assert.True(t, policy.Unlimited)
	assert.Equal(t, UnlimitedBookLimit, policy.BookLimit)
	assert.Equal(t, 30, policy.BorrowDurationDays)
	assert.Equal(t, 0.0, policy.DailyFineAmount)
}

func TestResolvePolicy_NoSubscription(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	orphan := seedReader(0)

	_, err := ResolvePolicy(&orphan)
	assert.ErrorIs(t, err, ErrNoActiveSubscription)
}
