package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/harshinipriyannaS/Librivault/internal/database"
	"github.com/harshinipriyannaS/Librivault/internal/models"
)

func TestCreateBorrowRequest(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	reader := seedReaderWithSub(0, 3, 14, 0.50)
	_, book := seedBook(2)

	request, err := CreateBorrowRequest(reader.ID, book.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.RequestStatusPending, request.Status)
	assert.Equal(t, reader.ID, request.ReaderID)

	// Filing a request does not consume a copy
	var fresh models.Book
	database.DB.First(&fresh, book.ID)
	assert.Equal(t, 2, fresh.AvailableCopies)
}

func TestCreateBorrowRequest_DuplicatePending(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	reader := seedReaderWithSub(0, 3, 14, 0.50)
	_, book := seedBook(2)

	_, err := CreateBorrowRequest(reader.ID, book.ID)
	assert.NoError(t, err)

	_, err = CreateBorrowRequest(reader.ID, book.ID)
	assert.ErrorIs(t, err, ErrDuplicateRequest)
}

func TestBorrowRequest_PendingUniqueIndex(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	reader := seedReader(0)
	_, book := seedBook(2)

	first := models.BorrowRequest{
		ReaderID:    reader.ID,
		BookID:      book.ID,
		Status:      models.RequestStatusPending,
		RequestedAt: time.Now(),
	}
	assert.NoError(t, database.DB.Create(&first).Error)

	// A second pending insert for the same pair is rejected by the index
	// itself, covering writers that race past any application-level check.
	dup := models.BorrowRequest{
		ReaderID:    reader.ID,
		BookID:      book.ID,
		Status:      models.RequestStatusPending,
		RequestedAt: time.Now(),
	}
	err := database.DB.Create(&dup).Error
	assert.Error(t, err)
	assert.True(t, isDuplicateKeyError(err))

	// Resolved requests do not block a new pending one
	database.DB.Model(&first).Update("status", models.RequestStatusDeclined)
	again := models.BorrowRequest{
		ReaderID:    reader.ID,
		BookID:      book.ID,
		Status:      models.RequestStatusPending,
		RequestedAt: time.Now(),
	}
	assert.NoError(t, database.DB.Create(&again).Error)
}

func TestCreateBorrowRequest_OutstandingFineBlocks(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	reader := seedReaderWithSub(0, 3, 14, 0.50)
	_, book := seedBook(2)

	record := seedLoan(reader.ID, book.ID, time.Now().AddDate(0, 0, -3), models.BorrowStatusReturned)
	database.DB.Create(&models.Fine{
		ReaderID:       reader.ID,
		BorrowRecordID: record.ID,
		Amount:         1.50,
		OverdueDays:    3,
		Status:         models.FineStatusPending,
	})

	_, err := CreateBorrowRequest(reader.ID, book.ID)
	assert.ErrorIs(t, err, ErrOutstandingFines)
}

func TestCreateBorrowRequest_LimitAndCreditSlots(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	reader := seedReaderWithSub(0, 1, 14, 0.50)
	_, held := seedBook(1)
	_, wanted := seedBook(1)

	seedLoan(reader.ID, held.ID, time.Now().AddDate(0, 0, 7), models.BorrowStatusActive)

	// At the limit with zero credits: blocked
	_, err := CreateBorrowRequest(reader.ID, wanted.ID)
	assert.ErrorIs(t, err, ErrBorrowLimitReached)

	// A credit opens an extra slot
	database.DB.Model(&models.User{}).Where("id = ?", reader.ID).
		Update("reader_credits", 1)
	invalidateUserCache(reader.ID)

	_, err = CreateBorrowRequest(reader.ID, wanted.ID)
	assert.NoError(t, err)
}

func TestCreateBorrowRequest_UnavailableBook(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	reader := seedReaderWithSub(0, 3, 14, 0.50)
	_, book := seedBook(1)
	database.DB.Model(&models.Book{}).Where("id = ?", book.ID).
		Update("available_copies", 0)

	_, err := CreateBorrowRequest(reader.ID, book.ID)
	assert.ErrorIs(t, err, ErrBookUnavailable)
}

func TestCreateBorrowRequest_StaffSkipsLimit(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	admin := seedUser(models.RoleAdmin, 0)
	_, book := seedBook(1)

	// No subscription, several loans already held, still allowed
	for i := 0; i < 5; i++ {
		_, held := seedBook(1)
		seedLoan(admin.ID, held.ID, time.Now().AddDate(0, 0, 20), models.BorrowStatusActive)
	}

	_, err := CreateBorrowRequest(admin.ID, book.ID)
	assert.NoError(t, err)
}

func TestApproveBorrowRequest(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	reader := seedReaderWithSub(0, 3, 14, 0.50)
	category, book := seedBook(1)
	librarian := seedLibrarian(category.ID)

	request, err := CreateBorrowRequest(reader.ID, book.ID)
	assert.NoError(t, err)

	approved, err := ApproveBorrowRequest(request.ID, librarian.ID, "enjoy")
	assert.NoError(t, err)
	assert.Equal(t, models.RequestStatusApproved, approved.Status)

	// Loan opened with the subscription's duration
	var record models.BorrowRecord
	err = database.DB.Where("reader_id = ? AND book_id = ?", reader.ID, book.ID).
		First(&record).Error
	assert.NoError(t, err)
	assert.Equal(t, models.BorrowStatusActive, record.Status)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 14), record.DueDate, 2*time.Second)

	// Copy left circulation on approval
	var fresh models.Book
	database.DB.First(&fresh, book.ID)
	assert.Equal(t, 0, fresh.AvailableCopies)

	// Reader got notified
	var count int64
	database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", reader.ID, models.NotificationTypeRequestApproved).
		Count(&count)
	assert.Equal(t, int64(1), count)

	// Second review attempt fails
	_, err = ApproveBorrowRequest(request.ID, librarian.ID, "")
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestApproveBorrowRequest_LastCopyRace(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	readerA := seedReaderWithSub(0, 3, 14, 0.50)
	readerB := seedReaderWithSub(0, 3, 14, 0.50)
	category, book := seedBook(1)
	librarian := seedLibrarian(category.ID)

	requestA, err := CreateBorrowRequest(readerA.ID, book.ID)
	assert.NoError(t, err)
	requestB, err := CreateBorrowRequest(readerB.ID, book.ID)
	assert.NoError(t, err)

	_, err = ApproveBorrowRequest(requestA.ID, librarian.ID, "")
	assert.NoError(t, err)

	// The last copy is gone: the second approval fails atomically and the
	// request stays pending for a later decision.
	_, err = ApproveBorrowRequest(requestB.ID, librarian.ID, "")
	assert.ErrorIs(t, err, ErrBookUnavailable)

	var fresh models.BorrowRequest
	database.DB.First(&fresh, requestB.ID)
	assert.Equal(t, models.RequestStatusPending, fresh.Status)

	var loans int64
	database.DB.Model(&models.BorrowRecord{}).Where("book_id = ?", book.ID).Count(&loans)
	assert.Equal(t, int64(1), loans)
}

func TestApproveBorrowRequest_SpendsCreditPastLimit(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	reader := seedReaderWithSub(2, 1, 14, 0.50)
	_, held := seedBook(1)
	seedLoan(reader.ID, held.ID, time.Now().AddDate(0, 0, 7), models.BorrowStatusActive)

	category, book := seedBook(1)
	librarian := seedLibrarian(category.ID)

	request, err := CreateBorrowRequest(reader.ID, book.ID)
	assert.NoError(t, err)

	_, err = ApproveBorrowRequest(request.ID, librarian.ID, "")
	assert.NoError(t, err)

	var record models.BorrowRecord
	database.DB.Where("reader_id = ? AND book_id = ?", reader.ID, book.ID).First(&record)
	assert.True(t, record.UsedCredit)

	var fresh models.User
	database.DB.First(&fresh, reader.ID)
	assert.Equal(t, 1, fresh.ReaderCredits)
}

func TestDeclineBorrowRequest(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	reader := seedReaderWithSub(0, 3, 14, 0.50)
	category, book := seedBook(1)
	librarian := seedLibrarian(category.ID)

	request, err := CreateBorrowRequest(reader.ID, book.ID)
	assert.NoError(t, err)

	declined, err := DeclineBorrowRequest(request.ID, librarian.ID, "not for you")
	assert.NoError(t, err)
	assert.Equal(t, models.RequestStatusDeclined, declined.Status)

	// No catalog effect
	var fresh models.Book
	database.DB.First(&fresh, book.ID)
	assert.Equal(t, 1, fresh.AvailableCopies)

	var count int64
	database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", reader.ID, models.NotificationTypeRequestDeclined).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestReviewAuthority(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	reader := seedReaderWithSub(0, 3, 14, 0.50)
	category, book := seedBook(1)
	otherCategory, _ := seedBook(1)

	request, err := CreateBorrowRequest(reader.ID, book.ID)
	assert.NoError(t, err)

	// Librarian assigned elsewhere cannot review
	wrongLibrarian := seedLibrarian(otherCategory.ID)
	_, err = ApproveBorrowRequest(request.ID, wrongLibrarian.ID, "")
	assert.ErrorIs(t, err, ErrNotAssignedCategory)

	// Admins do not review requests, that is librarian work
	admin := seedUser(models.RoleAdmin, 0)
	_, err = ApproveBorrowRequest(request.ID, admin.ID, "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Librarian without a profile row cannot review
	orphan := seedUser(models.RoleLibrarian, 0)
	_, err = ApproveBorrowRequest(request.ID, orphan.ID, "")
	assert.ErrorIs(t, err, ErrLibrarianProfileMiss)

	// The assigned librarian can
	librarian := seedLibrarian(category.ID)
	_, err = ApproveBorrowRequest(request.ID, librarian.ID, "")
	assert.NoError(t, err)
}

func TestFindPendingRequestsForLibrarian(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	readerA := seedReaderWithSub(0, 3, 14, 0.50)
	readerB := seedReaderWithSub(0, 3, 14, 0.50)
	category, book := seedBook(3)
	_, otherBook := seedBook(3)
	librarian := seedLibrarian(category.ID)

	_, err := CreateBorrowRequest(readerA.ID, book.ID)
	assert.NoError(t, err)
	_, err = CreateBorrowRequest(readerB.ID, book.ID)
	assert.NoError(t, err)
	_, err = CreateBorrowRequest(readerA.ID, otherBook.ID)
	assert.NoError(t, err)

	requests, total, err := FindPendingRequestsForLibrarian(librarian.ID, 1, 20)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, requests, 2)
	for _, r := range requests {
		assert.Equal(t, book.ID, r.BookID)
	}
}
