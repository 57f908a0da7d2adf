package services

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/harshinipriyannaS/Librivault/internal/database"
	"github.com/harshinipriyannaS/Librivault/internal/models"
)

var seedCounter uint64

func nextSeed() uint64 {
	return atomic.AddUint64(&seedCounter, 1)
}

func setupTestDB() {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	db.Migrator().DropTable(
		&models.User{}, &models.Category{}, &models.Book{}, &models.Librarian{},
		&models.Subscription{}, &models.BorrowRequest{}, &models.BorrowRecord{},
		&models.Fine{}, &models.Payment{}, &models.Notification{},
	)
	db.AutoMigrate(
		&models.User{}, &models.Category{}, &models.Book{}, &models.Librarian{},
		&models.Subscription{}, &models.BorrowRequest{}, &models.BorrowRecord{},
		&models.Fine{}, &models.Payment{}, &models.Notification{},
	)

	database.DB = db
}

func setupTestRedis() *miniredis.Miniredis {
	mr, err := miniredis.Run()
	if err != nil {
		panic(err)
	}

	database.RedisClient = redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	return mr
}

func seedUser(role string, credits int) models.User {
	n := nextSeed()
	user := models.User{
		Email:         fmt.Sprintf("user%d@test.local", n),
		Password:      "hashed",
		FullName:      fmt.Sprintf("Test User %d", n),
		Role:          role,
		ReaderCredits: credits,
		IsActive:      true,
		Version:       1,
	}
	database.DB.Create(&user)
	return user
}

func seedReader(credits int) models.User {
	return seedUser(models.RoleReader, credits)
}

// seedReaderWithSub creates a reader plus an active free-style subscription
// with the given terms.
func seedReaderWithSub(credits, bookLimit, durationDays int, dailyFine float64) models.User {
	reader := seedReader(credits)
	seedSubscription(reader.ID, models.SubscriptionTypeFree, bookLimit, durationDays, dailyFine, time.Now().AddDate(0, 0, durationDays))
	return reader
}

func seedSubscription(userID uint, subType string, bookLimit, durationDays int, dailyFine float64, endDate time.Time) models.Subscription {
	sub := models.Subscription{
		UserID:             userID,
		Type:               subType,
		StartDate:          time.Now().AddDate(0, 0, -durationDays),
		EndDate:            endDate,
		BookLimit:          bookLimit,
		BorrowDurationDays: durationDays,
		DailyFineAmount:    dailyFine,
		Active:             true,
	}
	database.DB.Create(&sub)
	return sub
}

func seedBook(copies int) (models.Category, models.Book) {
	n := nextSeed()
	category := models.Category{Name: fmt.Sprintf("Category %d", n)}
	database.DB.Create(&category)

	book := models.Book{
		Title:           fmt.Sprintf("Book %d", n),
		Author:          "Author",
		ISBN:            fmt.Sprintf("isbn-%d", n),
		CategoryID:      category.ID,
		TotalCopies:     copies,
		AvailableCopies: copies,
		Active:          true,
	}
	database.DB.Create(&book)
	return category, book
}

func seedLibrarian(categoryID uint) models.User {
	librarian := seedUser(models.RoleLibrarian, 0)
	profile := models.Librarian{
		UserID:             librarian.ID,
		AssignedCategoryID: categoryID,
	}
	database.DB.Create(&profile)
	return librarian
}

func seedLoan(readerID, bookID uint, dueDate time.Time, status string) models.BorrowRecord {
	record := models.BorrowRecord{
		ReaderID:   readerID,
		BookID:     bookID,
		BorrowedAt: dueDate.AddDate(0, 0, -14),
		DueDate:    dueDate,
		Status:     status,
	}
	database.DB.Create(&record)
	return record
}
