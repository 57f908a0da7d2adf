package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harshinipriyannaS/Librivault/internal/database"
	"github.com/harshinipriyannaS/Librivault/internal/models"
)

func TestAssignLibrarianCategory(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	reader := seedReader(0)
	categoryA, _ := seedBook(1)
	categoryB, _ := seedBook(1)

	profile, err := AssignLibrarianCategory(reader.ID, categoryA.ID)
	assert.NoError(t, err)
	assert.Equal(t, categoryA.ID, profile.AssignedCategoryID)

	// The user was promoted
	var fresh models.User
	database.DB.First(&fresh, reader.ID)
	assert.Equal(t, models.RoleLibrarian, fresh.Role)

	// Re-assignment moves the same profile, no duplicate row
	profile, err = AssignLibrarianCategory(reader.ID, categoryB.ID)
	assert.NoError(t, err)
	assert.Equal(t, categoryB.ID, profile.AssignedCategoryID)

	var count int64
	database.DB.Model(&models.Librarian{}).Where("user_id = ?", reader.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAssignLibrarianCategory_Guards(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	category, _ := seedBook(1)

	_, err := AssignLibrarianCategory(9999, category.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	reader := seedReader(0)
	_, err = AssignLibrarianCategory(reader.ID, 9999)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
