package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harshinipriyannaS/Librivault/internal/database"
	"github.com/harshinipriyannaS/Librivault/internal/models"
)

func TestEarnCredits_ClampsAtMax(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	reader := seedReader(8)

	balance, err := EarnCredits(reader.ID, 5)
	assert.NoError(t, err)
	assert.Equal(t, 10, balance) // capped, not 13

	var fresh models.User
	database.DB.First(&fresh, reader.ID)
	assert.Equal(t, 10, fresh.ReaderCredits)
}

func TestSpendCredits(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	reader := seedReader(2)

	balance, err := SpendCredits(reader.ID, 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, balance)

	_, err = SpendCredits(reader.ID, 5)
	assert.ErrorIs(t, err, ErrInsufficientCredits)

	var fresh models.User
	database.DB.First(&fresh, reader.ID)
	assert.Equal(t, 1, fresh.ReaderCredits)
}

func TestAdjustCredits_VersionBumps(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	reader := seedReader(0)

	_, err := EarnCredits(reader.ID, 2)
	assert.NoError(t, err)
	_, err = EarnCredits(reader.ID, 2)
	assert.NoError(t, err)

	var fresh models.User
	database.DB.First(&fresh, reader.ID)
	assert.Equal(t, 4, fresh.ReaderCredits)
	assert.Equal(t, 3, fresh.Version)
}

func TestSpendCredits_UnknownUser(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	_, err := SpendCredits(9999, 1)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
