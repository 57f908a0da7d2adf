package services

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/harshinipriyannaS/Librivault/internal/database"
	"github.com/harshinipriyannaS/Librivault/internal/models"
)

var (
	ErrRequestNotFound      = errors.New("borrow request not found")
	ErrOutstandingFines     = errors.New("cannot borrow books with outstanding fines, please pay your fines first")
	ErrBorrowLimitReached   = errors.New("borrowing limit reached, return books or upgrade subscription to borrow more")
	ErrDuplicateRequest     = errors.New("you already have a pending request for this book")
	ErrAlreadyReviewed      = errors.New("request has already been reviewed")
	ErrUnauthorized         = errors.New("you are not allowed to perform this action")
	ErrNotAssignedCategory  = errors.New("you can only review requests for books in your assigned category")
	ErrLibrarianProfileMiss = errors.New("librarian profile not found")
)

// CreateBorrowRequest files a pending request for a book. Availability is only
// checked here, not consumed: copies leave circulation on approval.
func CreateBorrowRequest(readerID, bookID uint) (*models.BorrowRequest, error) {
	reader, err := FindUserByID(readerID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if !reader.IsActive {
		return nil, ErrUserInactive
	}

	book, err := FindBookByID(bookID)
	if err != nil {
		return nil, err
	}

	outstanding, err := HasOutstandingFines(readerID)
	if err != nil {
		return nil, err
	}
	if outstanding {
		return nil, ErrOutstandingFines
	}

	if !book.IsAvailable() {
		return nil, ErrBookUnavailable
	}

	// Staff have unlimited access; readers get bookLimit + credits slots.
	if !reader.IsStaff() {
		policy, err := ResolvePolicy(&reader)
		if err != nil {
			return nil, err
		}

		activeLoans, err := CountActiveLoans(readerID)
		if err != nil {
			return nil, err
		}

		availableSlots := int64(policy.BookLimit) + int64(reader.ReaderCredits) - activeLoans
		if availableSlots <= 0 {
			return nil, ErrBorrowLimitReached
		}
	}

	// The partial unique index on (reader_id, book_id) for pending rows is
	// the duplicate guard; concurrent submissions lose at the insert, not at
	// an earlier racy read.
	request := models.BorrowRequest{
		ReaderID:    readerID,
		BookID:      bookID,
		Status:      models.RequestStatusPending,
		RequestedAt: time.Now(),
	}
	if err := database.DB.Create(&request).Error; err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrDuplicateRequest
		}
		return nil, err
	}

	zap.L().Info("borrow request created",
		zap.Uint("request_id", request.ID),
		zap.Uint("reader_id", readerID),
		zap.Uint("book_id", bookID))
	return &request, nil
}

// isDuplicateKeyError detects unique-constraint violations across the
// postgres and sqlite drivers.
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

// ApproveBorrowRequest approves a pending request and opens the loan in the
// same transaction. Availability is authoritative at decision time: the
// conditional copy decrement fails the whole approval if a concurrent
// approval took the last copy, leaving the request pending.
func ApproveBorrowRequest(requestID, reviewerID uint, notes string) (*models.BorrowRequest, error) {
	request, reader, book, err := loadRequestForReview(requestID, reviewerID)
	if err != nil {
		return nil, err
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		result := tx.Model(&models.BorrowRequest{}).
			Where("id = ? AND status = ?", request.ID, models.RequestStatusPending).
			Updates(map[string]interface{}{
				"status":         models.RequestStatusApproved,
				"reviewed_at":    now,
				"reviewed_by_id": reviewerID,
				"review_notes":   notes,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrAlreadyReviewed
		}

		request.Approve(reviewerID, notes)

		_, err := createBorrowRecordTx(tx, reader, book)
		return err
	})
	if err != nil {
		return nil, err
	}

	invalidateUserCache(reader.ID)
	notifyRequestReviewed(reader.ID, book, request, true)

	zap.L().Info("borrow request approved",
		zap.Uint("request_id", request.ID),
		zap.Uint("reviewer_id", reviewerID))
	return request, nil
}

// DeclineBorrowRequest declines a pending request. No catalog effect.
func DeclineBorrowRequest(requestID, reviewerID uint, notes string) (*models.BorrowRequest, error) {
	request, reader, book, err := loadRequestForReview(requestID, reviewerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result := database.DB.Model(&models.BorrowRequest{}).
		Where("id = ? AND status = ?", request.ID, models.RequestStatusPending).
		Updates(map[string]interface{}{
			"status":         models.RequestStatusDeclined,
			"reviewed_at":    now,
			"reviewed_by_id": reviewerID,
			"review_notes":   notes,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrAlreadyReviewed
	}

	request.Decline(reviewerID, notes)
	notifyRequestReviewed(reader.ID, book, request, false)

	zap.L().Info("borrow request declined",
		zap.Uint("request_id", request.ID),
		zap.Uint("reviewer_id", reviewerID))
	return request, nil
}

// loadRequestForReview resolves the request plus its reader and book, and
// verifies the reviewer is a librarian assigned to the book's category.
func loadRequestForReview(requestID, reviewerID uint) (*models.BorrowRequest, *models.User, *models.Book, error) {
	var request models.BorrowRequest
	if err := database.DB.First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, ErrRequestNotFound
		}
		return nil, nil, nil, err
	}

	reviewer, err := FindUserByID(reviewerID)
	if err != nil {
		return nil, nil, nil, ErrUserNotFound
	}
	if reviewer.Role != models.RoleLibrarian {
		return nil, nil, nil, ErrUnauthorized
	}

	var profile models.Librarian
	if err := database.DB.Where("user_id = ?", reviewerID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, ErrLibrarianProfileMiss
		}
		return nil, nil, nil, err
	}

	book, err := FindBookByID(request.BookID)
	if err != nil {
		return nil, nil, nil, err
	}
	if book.CategoryID != profile.AssignedCategoryID {
		return nil, nil, nil, ErrNotAssignedCategory
	}

	reader, err := FindUserByID(request.ReaderID)
	if err != nil {
		return nil, nil, nil, ErrUserNotFound
	}

	return &request, &reader, &book, nil
}

// FindBorrowRequestsByReader lists a reader's requests, newest first.
func FindBorrowRequestsByReader(readerID uint, page, limit int) ([]models.BorrowRequest, int64, error) {
	var requests []models.BorrowRequest
	var total int64

	query := database.DB.Model(&models.BorrowRequest{}).Where("reader_id = ?", readerID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("requested_at desc").Limit(limit).Offset(offset).Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// FindPendingRequestsForLibrarian lists pending requests for books in the
// librarian's assigned category.
func FindPendingRequestsForLibrarian(librarianUserID uint, page, limit int) ([]models.BorrowRequest, int64, error) {
	var profile models.Librarian
	if err := database.DB.Where("user_id = ?", librarianUserID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrLibrarianProfileMiss
		}
		return nil, 0, err
	}

	var requests []models.BorrowRequest
	var total int64

	query := database.DB.Model(&models.BorrowRequest{}).
		Joins("JOIN books ON books.id = borrow_requests.book_id").
		Where("borrow_requests.status = ? AND books.category_id = ?",
			models.RequestStatusPending, profile.AssignedCategoryID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("borrow_requests.requested_at asc").
		Limit(limit).Offset(offset).Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}
