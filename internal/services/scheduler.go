package services

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/harshinipriyannaS/Librivault/config"
	"github.com/harshinipriyannaS/Librivault/internal/database"
	"github.com/harshinipriyannaS/Librivault/internal/models"
)

// Scheduler drives the recurring sweeps: overdue detection, due-date
// reminders, and subscription expiry. Jobs run on their own daily timers,
// independent of request traffic.
type Scheduler struct {
	stopChan chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		stopChan: make(chan struct{}),
	}
}

// Start launches one goroutine per job. Each waits for the next configured
// HH:MM occurrence, runs the sweep, then re-arms for the following day.
func (s *Scheduler) Start() {
	cfg := config.Get()

	s.runDaily("overdue-sweep", cfg.OverdueSweepAt, ProcessOverdueLoans)
	s.runDaily("reminder-sweep", cfg.ReminderSweepAt, func() {
		SendDueReminders()
		SendSubscriptionExpiryReminders()
	})
	s.runDaily("subscription-sweep", cfg.SubscriptionSweepAt, ProcessExpiredSubscriptions)

	zap.L().Info("scheduler started",
		zap.String("overdue_sweep_at", cfg.OverdueSweepAt),
		zap.String("reminder_sweep_at", cfg.ReminderSweepAt),
		zap.String("subscription_sweep_at", cfg.SubscriptionSweepAt))
}

// Stop signals all job loops and waits for them to drain.
func (s *Scheduler) Stop() {
	s.once.Do(func() {
		close(s.stopChan)
	})
	s.wg.Wait()
}

func (s *Scheduler) runDaily(name, at string, job func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		timer := time.NewTimer(durationUntilNext(at, time.Now()))
		defer timer.Stop()

		for {
			select {
			case <-timer.C:
				zap.L().Info("scheduler job starting", zap.String("job", name))
				job()
				zap.L().Info("scheduler job finished", zap.String("job", name))
				timer.Reset(durationUntilNext(at, time.Now()))

			case <-s.stopChan:
				return
			}
		}
	}()
}

// durationUntilNext returns the time until the next "HH:MM" occurrence.
// Malformed values fall back to a 24h cadence.
func durationUntilNext(at string, now time.Time) time.Duration {
	var hour, minute int
	if _, err := fmt.Sscanf(at, "%d:%d", &hour, &minute); err != nil {
		zap.L().Warn("invalid scheduler time, defaulting to 24h", zap.String("at", at))
		return 24 * time.Hour
	}

	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}

// ProcessOverdueLoans marks loans past due as overdue, assesses their fines,
// and notifies the readers. Re-running on an unchanged overdue set updates
// the same fines rather than duplicating them. A failure on one record is
// logged and does not block the rest of the batch.
func ProcessOverdueLoans() {
	now := time.Now()

	var overdue []models.BorrowRecord
	if err := database.DB.
		Where("status = ? AND due_date <= ?", models.BorrowStatusActive, now).
		Find(&overdue).Error; err != nil {
		zap.L().Error("overdue scan failed", zap.Error(err))
		return
	}

	processed := 0
	for i := range overdue {
		record := &overdue[i]

		var reader models.User
		if err := database.DB.First(&reader, record.ReaderID).Error; err != nil {
			zap.L().Error("overdue sweep: reader lookup failed",
				zap.Uint("record_id", record.ID),
				zap.Uint("reader_id", record.ReaderID),
				zap.Error(err))
			continue
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			result := tx.Model(&models.BorrowRecord{}).
				Where("id = ? AND status = ?", record.ID, models.BorrowStatusActive).
				Update("status", models.BorrowStatusOverdue)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				// Returned or already marked since the scan
				return nil
			}
			record.MarkOverdue()

			return assessFineTx(tx, record, &reader, now)
		})
		if err != nil {
			zap.L().Error("overdue sweep: failed to process record",
				zap.Uint("record_id", record.ID),
				zap.Error(err))
			continue
		}
		processed++

		var book models.Book
		title := ""
		if err := database.DB.First(&book, record.BookID).Error; err == nil {
			title = book.Title
		}
		notifyOverdue(record, title, record.DaysOverdue(now))
	}

	zap.L().Info("overdue sweep finished", zap.Int("processed", processed))
}

// SendDueReminders notifies readers whose loans fall due in 3 days and in
// 1 day, scanning an hour-wide window around each threshold. A redis key per
// (loan, threshold) keeps a re-run within the window from re-sending; if redis
// is down the sweep still runs and delivery degrades to at-least-once.
func SendDueReminders() {
	now := time.Now()

	for _, days := range []int{3, 1} {
		target := now.AddDate(0, 0, days)
		windowStart := target.Add(-time.Hour)
		windowEnd := target.Add(time.Hour)

		var dueSoon []models.BorrowRecord
		if err := database.DB.
			Where("status = ? AND due_date BETWEEN ? AND ?",
				models.BorrowStatusActive, windowStart, windowEnd).
			Find(&dueSoon).Error; err != nil {
			zap.L().Error("reminder scan failed",
				zap.Int("days", days), zap.Error(err))
			continue
		}

		for i := range dueSoon {
			record := &dueSoon[i]

			if !claimReminder(record.ID, days) {
				continue
			}

			var book models.Book
			title := ""
			if err := database.DB.First(&book, record.BookID).Error; err == nil {
				title = book.Title
			}
			notifyDueReminder(record, title, days)
		}
	}
}

// claimReminder marks a (loan, threshold) reminder as sent via redis SETNX.
// Returns true when this run owns the send.
func claimReminder(recordID uint, days int) bool {
	if database.RedisClient == nil {
		return true
	}

	key := fmt.Sprintf("reminder:loan:%d:days:%d", recordID, days)
	ok, err := database.RedisClient.SetNX(database.Ctx, key, 1, 2*time.Hour).Result()
	if err != nil {
		zap.L().Warn("reminder dedup unavailable, sending anyway",
			zap.String("key", key), zap.Error(err))
		return true
	}
	return ok
}
