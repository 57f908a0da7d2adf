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

var ErrRecordNotFound = errors.New("borrow record not found")
var ErrNotOwner = errors.New("you can only return your own borrowed books")
var ErrAlreadyReturned = errors.New("book has already been returned")

// CountActiveLoans counts loans a reader currently holds (active or overdue,
// i.e. not yet returned).
func CountActiveLoans(readerID uint) (int64, error) {
	return countActiveLoansTx(database.DB, readerID)
}

func countActiveLoansTx(tx *gorm.DB, readerID uint) (int64, error) {
	var count int64
	err := tx.Model(&models.BorrowRecord{}).
		Where("reader_id = ? AND status IN ?", readerID,
			[]string{models.BorrowStatusActive, models.BorrowStatusOverdue}).
		Count(&count).Error
	return count, err
}

// createBorrowRecordTx opens a loan for an approved request: fixes the due
// date from the policy in force now, spends a credit when the reader is past
// their book limit, and takes a copy out of circulation. Runs inside the
// approval transaction so a failed decrement rolls everything back.
func createBorrowRecordTx(tx *gorm.DB, reader *models.User, book *models.Book) (*models.BorrowRecord, error) {
	policy, err := resolvePolicyTx(tx, reader)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	dueDate := now.AddDate(0, 0, policy.BorrowDurationDays)

	usedCredit := false
	if !policy.Unlimited {
		activeLoans, err := countActiveLoansTx(tx, reader.ID)
		if err != nil {
			return nil, err
		}
		usedCredit = activeLoans >= int64(policy.BookLimit)
	}

	record := models.BorrowRecord{
		ReaderID:   reader.ID,
		BookID:     book.ID,
		BorrowedAt: now,
		DueDate:    dueDate,
		Status:     models.BorrowStatusActive,
		UsedCredit: usedCredit,
	}
	if err := tx.Create(&record).Error; err != nil {
		return nil, err
	}

	if err := decrementAvailableCopiesTx(tx, book.ID); err != nil {
		return nil, err
	}

	if usedCredit {
		if _, err := spendCreditsTx(tx, reader.ID, 1); err != nil {
			return nil, err
		}
	}

	zap.L().Info("borrow record created",
		zap.Uint("record_id", record.ID),
		zap.Uint("reader_id", reader.ID),
		zap.Uint("book_id", book.ID),
		zap.Time("due_date", dueDate),
		zap.Bool("used_credit", usedCredit))
	return &record, nil
}

// ReturnBook closes a loan: stamps the return, awards early-return credits
// (clamped to the credit cap), puts the copy back in circulation, and
// assesses the fine synchronously when the loan came back late.
func ReturnBook(recordID, userID uint) (*models.BorrowRecord, error) {
	multiplier := config.Get().EarlyReturnMultiplier

	var record models.BorrowRecord
	var reader models.User

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&record, recordID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecordNotFound
			}
			return err
		}

		if record.ReaderID != userID {
			return ErrNotOwner
		}
		if record.IsReturned() {
			return ErrAlreadyReturned
		}

		if err := tx.First(&reader, record.ReaderID).Error; err != nil {
			return err
		}

		now := time.Now()
		record.Return(now)

		daysEarly := record.DaysReturnedEarly()
		if daysEarly > 0 {
			creditsEarned := daysEarly * multiplier
			if limit := maxCreditLimit(); creditsEarned > limit {
				creditsEarned = limit
			}
			record.CreditsEarned = creditsEarned

			if _, err := earnCreditsTx(tx, reader.ID, creditsEarned); err != nil {
				return err
			}
		}

		result := tx.Model(&models.BorrowRecord{}).
			Where("id = ? AND status IN ?", record.ID,
				[]string{models.BorrowStatusActive, models.BorrowStatusOverdue}).
			Updates(map[string]interface{}{
				"status":         models.BorrowStatusReturned,
				"returned_at":    now,
				"credits_earned": record.CreditsEarned,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrAlreadyReturned
		}

		if err := incrementAvailableCopiesTx(tx, record.BookID); err != nil {
			return err
		}

		if record.DaysOverdue(now) > 0 {
			if err := assessFineTx(tx, &record, &reader, now); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateUserCache(userID)

	zap.L().Info("book returned",
		zap.Uint("record_id", record.ID),
		zap.Uint("reader_id", record.ReaderID),
		zap.Int("credits_earned", record.CreditsEarned))
	return &record, nil
}

// FindBorrowRecordsByReader lists a reader's loans, newest first.
func FindBorrowRecordsByReader(readerID uint, page, limit int) ([]models.BorrowRecord, int64, error) {
	var records []models.BorrowRecord
	var total int64

	query := database.DB.Model(&models.BorrowRecord{}).Where("reader_id = ?", readerID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("borrowed_at desc").Limit(limit).Offset(offset).Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// FindOverdueRecords lists loans past due, for staff dashboards.
func FindOverdueRecords(page, limit int) ([]models.BorrowRecord, int64, error) {
	var records []models.BorrowRecord
	var total int64

	now := time.Now()
	query := database.DB.Model(&models.BorrowRecord{}).
		Where("(status = ? OR (status = ? AND due_date <= ?))",
			models.BorrowStatusOverdue, models.BorrowStatusActive, now)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("due_date asc").Limit(limit).Offset(offset).Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
