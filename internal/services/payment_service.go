package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/harshinipriyannaS/Librivault/config"
	"github.com/harshinipriyannaS/Librivault/internal/database"
	"github.com/harshinipriyannaS/Librivault/internal/models"
	"github.com/harshinipriyannaS/Librivault/internal/payment"
	"github.com/harshinipriyannaS/Librivault/internal/payment/epay"
)

var ErrPaymentNotFound = errors.New("payment not found")
var ErrPaymentGatewayOff = errors.New("payment gateway is not configured")

// CreateFinePayment opens a gateway order for a pending fine and returns the
// payment record plus the URL the reader should be redirected to. The fine
// itself only settles when the gateway callback confirms.
func CreateFinePayment(userID, fineID uint, channel string) (*models.Payment, string, error) {
	var fine models.Fine
	if err := database.DB.First(&fine, fineID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrFineNotFound
		}
		return nil, "", err
	}
	if fine.ReaderID != userID {
		return nil, "", ErrUnauthorized
	}
	if !fine.IsPending() {
		return nil, "", ErrFineAlreadyResolved
	}

	driver, cfg, err := gatewayDriver()
	if err != nil {
		return nil, "", err
	}

	pay := &models.Payment{
		ID:       strings.ReplaceAll(uuid.New().String(), "-", ""),
		UserID:   userID,
		FineID:   fineID,
		Amount:   fine.Amount,
		Status:   models.PaymentStatusPending,
		Provider: "epay",
	}
	if err := database.DB.Create(pay).Error; err != nil {
		return nil, "", err
	}

	notifyURL := strings.TrimRight(cfg.PaymentNotifyBaseURL, "/") + "/api/v1/payments/notify"
	params := map[string]interface{}{
		"name": fmt.Sprintf("Library fine #%d", fineID),
	}
	if channel != "" {
		params["type"] = channel
	}

	jumpURL, err := driver.Pay(pay.ID, pay.Amount, notifyURL, cfg.PaymentReturnURL, params)
	if err != nil {
		return nil, "", err
	}

	zap.L().Info("fine payment created",
		zap.String("payment_id", pay.ID),
		zap.Uint("fine_id", fineID),
		zap.Uint("user_id", userID),
		zap.Float64("amount", pay.Amount))
	return pay, jumpURL, nil
}

// HandlePaymentNotify processes the gateway callback: verifies the signature,
// completes the payment record, and settles the fine. Safe to receive more
// than once; a completed payment is left untouched.
func HandlePaymentNotify(params map[string]interface{}) error {
	driver, _, err := gatewayDriver()
	if err != nil {
		return err
	}

	isValid, orderID, externalID, err := driver.Notify(params)
	if err != nil {
		return err
	}
	if !isValid {
		return errors.New("invalid signature")
	}

	var pay models.Payment
	if err := database.DB.Where("id = ?", orderID).First(&pay).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPaymentNotFound
		}
		return err
	}

	now := time.Now()
	result := database.DB.Model(&models.Payment{}).
		Where("id = ? AND status = ?", orderID, models.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":       models.PaymentStatusPaid,
			"external_id":  externalID,
			"completed_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Duplicate callback, already settled
		return nil
	}

	if _, err := MarkFinePaid(pay.FineID); err != nil {
		if errors.Is(err, ErrFineAlreadyResolved) {
			return nil
		}
		return err
	}

	zap.L().Info("payment completed",
		zap.String("payment_id", orderID),
		zap.Uint("fine_id", pay.FineID),
		zap.String("external_id", externalID))
	return nil
}

// FindPaymentsByUser lists a user's payments, newest first.
func FindPaymentsByUser(userID uint, page, limit int) ([]models.Payment, int64, error) {
	var payments []models.Payment
	var total int64

	query := database.DB.Model(&models.Payment{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at desc").Limit(limit).Offset(offset).Find(&payments).Error; err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

func gatewayDriver() (payment.Driver, *config.Config, error) {
	cfg := config.Get()
	if cfg.PaymentGatewayURL == "" || cfg.PaymentMerchantID == "" || cfg.PaymentMerchantKey == "" {
		return nil, nil, ErrPaymentGatewayOff
	}

	driver := epay.NewEpayDriver()
	err := driver.SetConfig(map[string]interface{}{
		"url": cfg.PaymentGatewayURL,
		"pid": cfg.PaymentMerchantID,
		"key": cfg.PaymentMerchantKey,
	})
	if err != nil {
		return nil, nil, err
	}
	return driver, cfg, nil
}
