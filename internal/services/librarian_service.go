package services

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/harshinipriyannaS/Librivault/internal/database"
	"github.com/harshinipriyannaS/Librivault/internal/models"
)

var ErrCategoryNotFound = errors.New("category not found")

// AssignLibrarianCategory promotes a user to librarian and binds them to a
// category. A librarian reviews only requests for books in their category, so
// the profile row is the review authority. Re-assigning moves the librarian
// to the new category.
func AssignLibrarianCategory(userID, categoryID uint) (*models.Librarian, error) {
	user, err := FindUserByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	var category models.Category
	if err := database.DB.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	var profile models.Librarian
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if user.Role != models.RoleLibrarian {
			if err := tx.Model(&models.User{}).
				Where("id = ?", userID).
				Update("role", models.RoleLibrarian).Error; err != nil {
				return err
			}
		}

		err := tx.Where("user_id = ?", userID).First(&profile).Error
		if err == nil {
			return tx.Model(&profile).Update("assigned_category_id", categoryID).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		profile = models.Librarian{
			UserID:             userID,
			AssignedCategoryID: categoryID,
		}
		return tx.Create(&profile).Error
	})
	if err != nil {
		return nil, err
	}

	invalidateUserCache(userID)

	zap.L().Info("librarian assigned to category",
		zap.Uint("user_id", userID),
		zap.Uint("category_id", categoryID))
	profile.AssignedCategoryID = categoryID
	return &profile, nil
}
