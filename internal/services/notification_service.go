package services

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/harshinipriyannaS/Librivault/internal/database"
	"github.com/harshinipriyannaS/Librivault/internal/models"
)

// CreateNotification persists a dashboard notification for a user. The actual
// email/push delivery belongs to an external collaborator; this service logs
// the would-be delivery and keeps the in-app record.
func CreateNotification(userID uint, ntype, title, message string, payload map[string]interface{}, refID *uint, refType string) error {
	notification := models.Notification{
		UserID:        userID,
		Type:          ntype,
		Title:         title,
		Message:       message,
		ReferenceID:   refID,
		ReferenceType: refType,
	}

	if payload != nil {
		if data, err := json.Marshal(payload); err == nil {
			notification.Payload = data
		}
	}

	if err := database.DB.Create(&notification).Error; err != nil {
		return err
	}

	zap.L().Info("notification dispatched",
		zap.Uint("user_id", userID),
		zap.String("type", ntype),
		zap.String("title", title))
	return nil
}

// notify delivers best-effort: a failed notification is logged and never
// propagated, so it cannot roll back or fail the borrowing operation that
// triggered it.
func notify(userID uint, ntype, title, message string, payload map[string]interface{}, refID *uint, refType string) {
	if err := CreateNotification(userID, ntype, title, message, payload, refID, refType); err != nil {
		zap.L().Warn("failed to dispatch notification",
			zap.Uint("user_id", userID),
			zap.String("type", ntype),
			zap.Error(err))
	}
}

func notifyRequestReviewed(readerID uint, book *models.Book, request *models.BorrowRequest, approved bool) {
	ntype := models.NotificationTypeRequestDeclined
	title := "Borrow request declined"
	message := fmt.Sprintf("Your request for '%s' was declined.", book.Title)
	if approved {
		ntype = models.NotificationTypeRequestApproved
		title = "Borrow request approved"
		message = fmt.Sprintf("Your request for '%s' was approved. Enjoy your reading!", book.Title)
	}
	if request.ReviewNotes != "" {
		message += fmt.Sprintf(" Note: %s", request.ReviewNotes)
	}

	notify(readerID, ntype, title, message, map[string]interface{}{
		"book_id":    book.ID,
		"book_title": book.Title,
	}, &request.ID, "borrow_request")
}

func notifyDueReminder(record *models.BorrowRecord, bookTitle string, daysUntilDue int) {
	notify(record.ReaderID, models.NotificationTypeDueReminder,
		"Book due soon",
		fmt.Sprintf("'%s' is due in %d day(s). Return it early to earn credits.", bookTitle, daysUntilDue),
		map[string]interface{}{
			"book_title":     bookTitle,
			"days_until_due": daysUntilDue,
		}, &record.ID, "borrow_record")
}

func notifyOverdue(record *models.BorrowRecord, bookTitle string, daysOverdue int) {
	notify(record.ReaderID, models.NotificationTypeBookOverdue,
		"Book overdue",
		fmt.Sprintf("'%s' is %d day(s) overdue. Fines accrue daily until it is returned.", bookTitle, daysOverdue),
		map[string]interface{}{
			"book_title":   bookTitle,
			"days_overdue": daysOverdue,
		}, &record.ID, "borrow_record")
}

func notifySubscriptionExpiry(userID uint, subscriptionID uint, daysUntilExpiry int) {
	notify(userID, models.NotificationTypeSubExpiry,
		"Subscription expiring soon",
		fmt.Sprintf("Your subscription expires in %d day(s). Renew to keep your borrowing terms.", daysUntilExpiry),
		map[string]interface{}{
			"days_until_expiry": daysUntilExpiry,
		}, &subscriptionID, "subscription")
}

// FindNotificationsByUser lists a user's notifications, newest first.
func FindNotificationsByUser(userID uint, page, limit int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	query := database.DB.Model(&models.Notification{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at desc").Limit(limit).Offset(offset).Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

// MarkNotificationRead flags a notification as read, scoped to its owner.
func MarkNotificationRead(notificationID, userID uint) error {
	result := database.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUnauthorized
	}
	return nil
}
