package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/harshinipriyannaS/Librivault/internal/database"
	"github.com/harshinipriyannaS/Librivault/internal/models"
)

func TestReturnBook_EarlyEarnsCredits(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	reader := seedReaderWithSub(0, 3, 14, 0.50)
	_, book := seedBook(1)
	database.DB.Model(&models.Book{}).Where("id = ?", book.ID).
		Update("available_copies", 0)

	// Due three full days from now (plus an hour of slack so truncation
	// still yields 3)
	record := seedLoan(reader.ID, book.ID, time.Now().Add(73*time.Hour), models.BorrowStatusActive)

	returned, err := ReturnBook(record.ID, reader.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.BorrowStatusReturned, returned.Status)
	assert.Equal(t, 6, returned.CreditsEarned) // 3 days x multiplier 2

	var fresh models.User
	database.DB.First(&fresh, reader.ID)
	assert.Equal(t, 6, fresh.ReaderCredits)

	// Copy back in circulation
	var freshBook models.Book
	database.DB.First(&freshBook, book.ID)
	assert.Equal(t, 1, freshBook.AvailableCopies)

	// No fine for an on-time return
	var fines int64
	database.DB.Model(&models.Fine{}).Where("reader_id = ?", reader.ID).Count(&fines)
	assert.Equal(t, int64(0), fines)
}

func TestReturnBook_CreditsClampedAtMax(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	reader := seedReaderWithSub(0, 10, 30, 0.25)
	_, book := seedBook(1)

	// 8 days early x 2 = 16, clamped to the credit cap of 10
	record := seedLoan(reader.ID, book.ID, time.Now().Add(8*24*time.Hour+time.Hour), models.BorrowStatusActive)

	returned, err := ReturnBook(record.ID, reader.ID)
	assert.NoError(t, err)
	assert.Equal(t, 10, returned.CreditsEarned)

	var fresh models.User
	database.DB.First(&fresh, reader.ID)
	assert.Equal(t, 10, fresh.ReaderCredits)
}

func TestReturnBook_ExactDueEarnsNothing(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	reader := seedReaderWithSub(0, 3, 14, 0.50)
	_, book := seedBook(1)

	// Due now: neither early nor overdue
	record := seedLoan(reader.ID, book.ID, time.Now(), models.BorrowStatusActive)

	returned, err := ReturnBook(record.ID, reader.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, returned.CreditsEarned)

	var fines int64
	database.DB.Model(&models.Fine{}).Where("reader_id = ?", reader.ID).Count(&fines)
	assert.Equal(t, int64(0), fines)
}

func TestReturnBook_LateAssessesFine(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	reader := seedReaderWithSub(0, 3, 14, 0.50)
	_, book := seedBook(1)

	// Three full days overdue
	record := seedLoan(reader.ID, book.ID, time.Now().Add(-73*time.Hour), models.BorrowStatusActive)

	returned, err := ReturnBook(record.ID, reader.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, returned.CreditsEarned)

	var fine models.Fine
	err = database.DB.Where("borrow_record_id = ?", record.ID).First(&fine).Error
	assert.NoError(t, err)
	assert.Equal(t, 3, fine.OverdueDays)
	assert.InDelta(t, 1.50, fine.Amount, 0.001) // 3 days x 0.50
	assert.Equal(t, models.FineStatusPending, fine.Status)
}

func TestReturnBook_StaffNeverFined(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	librarian := seedUser(models.RoleLibrarian, 0)
	_, book := seedBook(1)

	record := seedLoan(librarian.ID, book.ID, time.Now().Add(-5*24*time.Hour), models.BorrowStatusOverdue)

	_, err := ReturnBook(record.ID, librarian.ID)
	assert.NoError(t, err)

	var fines int64
	database.DB.Model(&models.Fine{}).Where("reader_id = ?", librarian.ID).Count(&fines)
	assert.Equal(t, int64(0), fines)
}

func TestReturnBook_Guards(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	reader := seedReaderWithSub(0, 3, 14, 0.50)
	other := seedReaderWithSub(0, 3, 14, 0.50)
	_, book := seedBook(1)

	record := seedLoan(reader.ID, book.ID, time.Now().AddDate(0, 0, 7), models.BorrowStatusActive)

	_, err := ReturnBook(record.ID, other.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = ReturnBook(9999, reader.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	_, err = ReturnBook(record.ID, reader.ID)
	assert.NoError(t, err)

	_, err = ReturnBook(record.ID, reader.ID)
	assert.ErrorIs(t, err, ErrAlreadyReturned)
}

func TestCountActiveLoans(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	reader := seedReader(0)
	_, a := seedBook(1)
	_, b := seedBook(1)
	_, c := seedBook(1)

	seedLoan(reader.ID, a.ID, time.Now().AddDate(0, 0, 7), models.BorrowStatusActive)
	seedLoan(reader.ID, b.ID, time.Now().AddDate(0, 0, -2), models.BorrowStatusOverdue)
	seedLoan(reader.ID, c.ID, time.Now().AddDate(0, 0, -9), models.BorrowStatusReturned)

	// Overdue loans still occupy a slot; returned ones do not
	count, err := CountActiveLoans(reader.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
