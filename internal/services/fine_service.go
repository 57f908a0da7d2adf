package services

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/harshinipriyannaS/Librivault/internal/database"
	"github.com/harshinipriyannaS/Librivault/internal/models"
)

var ErrFineNotFound = errors.New("fine not found")
var ErrFineAlreadyResolved = errors.New("fine has already been paid or waived")

// HasOutstandingFines reports whether a reader has any pending fine. Readers
// with a pending fine are blocked from filing new borrow requests.
func HasOutstandingFines(readerID uint) (bool, error) {
	var count int64
	err := database.DB.Model(&models.Fine{}).
		Where("reader_id = ? AND status = ?", readerID, models.FineStatusPending).
		Count(&count).Error
	return count > 0, err
}

// assessFineTx creates or refreshes the fine for an overdue loan. It is
// idempotent per record: a second assessment on the same overdue set updates
// the existing pending row instead of inserting a duplicate. Staff records
// never generate a fine.
func assessFineTx(tx *gorm.DB, record *models.BorrowRecord, reader *models.User, now time.Time) error {
	overdueDays := record.DaysOverdue(now)
	if overdueDays <= 0 {
		return nil
	}

	if reader.IsStaff() {
		return nil
	}

	policy, err := resolvePolicyTx(tx, reader)
	if err != nil {
		return err
	}

	// The fine reflects the subscription terms at assessment time, not the
	// ones in force when the loan was created.
	amount := policy.DailyFineAmount * float64(overdueDays)
	description := fmt.Sprintf("Fine for overdue loan %d (%d days overdue)", record.ID, overdueDays)

	var existing models.Fine
	err = tx.Where("borrow_record_id = ?", record.ID).First(&existing).Error
	if err == nil {
		if !existing.IsPending() {
			return nil
		}
		return tx.Model(&existing).Updates(map[string]interface{}{
			"amount":       amount,
			"overdue_days": overdueDays,
			"description":  description,
		}).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	fine := models.Fine{
		ReaderID:       record.ReaderID,
		BorrowRecordID: record.ID,
		Amount:         amount,
		OverdueDays:    overdueDays,
		Status:         models.FineStatusPending,
		Description:    description,
	}
	if err := tx.Create(&fine).Error; err != nil {
		return err
	}

	zap.L().Info("fine assessed",
		zap.Uint("borrow_record_id", record.ID),
		zap.Uint("reader_id", record.ReaderID),
		zap.Float64("amount", amount),
		zap.Int("overdue_days", overdueDays))
	return nil
}

// WaiveFine forgives a pending fine. Staff only; resolved fines stay resolved.
func WaiveFine(fineID, staffID uint, reason string) (*models.Fine, error) {
	staff, err := FindUserByID(staffID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if !staff.IsStaff() {
		return nil, ErrUnauthorized
	}

	var fine models.Fine
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&fine, fineID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFineNotFound
			}
			return err
		}

		now := time.Now()
		result := tx.Model(&models.Fine{}).
			Where("id = ? AND status = ?", fineID, models.FineStatusPending).
			Updates(map[string]interface{}{
				"status":        models.FineStatusWaived,
				"waived_by_id":  staffID,
				"waiver_reason": reason,
				"waived_at":     now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrFineAlreadyResolved
		}

		fine.Waive(staffID, reason, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("fine waived",
		zap.Uint("fine_id", fineID),
		zap.Uint("staff_id", staffID))
	return &fine, nil
}

// MarkFinePaid settles a pending fine. Invoked by the payment collaborator
// once a payment is confirmed.
func MarkFinePaid(fineID uint) (*models.Fine, error) {
	var fine models.Fine
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&fine, fineID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFineNotFound
			}
			return err
		}

		now := time.Now()
		result := tx.Model(&models.Fine{}).
			Where("id = ? AND status = ?", fineID, models.FineStatusPending).
			Updates(map[string]interface{}{
				"status":  models.FineStatusPaid,
				"paid_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrFineAlreadyResolved
		}

		fine.MarkPaid(now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("fine marked as paid", zap.Uint("fine_id", fineID))
	return &fine, nil
}

// FindFinesByReader lists a reader's fines, newest first.
func FindFinesByReader(readerID uint) ([]models.Fine, error) {
	var fines []models.Fine
	err := database.DB.Where("reader_id = ?", readerID).
		Order("created_at desc").
		Find(&fines).Error
	return fines, err
}

// TotalOutstandingFines sums a reader's pending fine amounts.
func TotalOutstandingFines(readerID uint) (float64, error) {
	var total float64
	err := database.DB.Model(&models.Fine{}).
		Where("reader_id = ? AND status = ?", readerID, models.FineStatusPending).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
