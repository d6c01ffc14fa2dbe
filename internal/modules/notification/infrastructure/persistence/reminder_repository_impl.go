package persistence

import (
	"context"
	"errors"
	"time"

	"ReviewHub/internal/modules/notification/domain/delivery"
	"ReviewHub/internal/modules/notification/domain/reminder"
	"ReviewHub/internal/modules/notification/domain/repository"

	"gorm.io/gorm"
)

type reminderRepositoryImpl struct {
	db *gorm.DB
}

func NewReminderRepository(db *gorm.DB) repository.ReminderRepository {
	return &reminderRepositoryImpl{db: db}
}

func (r *reminderRepositoryImpl) Create(ctx context.Context, rem *reminder.Reminder) error {
	return r.db.WithContext(ctx).Create(rem).Error
}

func (r *reminderRepositoryImpl) GetByReminderID(ctx context.Context, reminderID string) (*reminder.Reminder, error) {
	var rem reminder.Reminder
	err := r.db.WithContext(ctx).Where("reminder_id = ?", reminderID).Take(&rem).Error
	if err == nil {
		return &rem, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return nil, err
}

func (r *reminderRepositoryImpl) ListByUser(ctx context.Context, userID string, limit int) ([]*reminder.Reminder, error) {
	if limit <= 0 {
		limit = 50
	}
	var list []*reminder.Reminder
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("scheduled_for ASC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *reminderRepositoryImpl) Delete(ctx context.Context, userID string, reminderID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND reminder_id = ?", userID, reminderID).
		Delete(&reminder.Reminder{})
	return res.RowsAffected > 0, res.Error
}

func (r *reminderRepositoryImpl) ListDue(ctx context.Context, now time.Time, maxAttempts int, limit int) ([]*reminder.Reminder, error) {
	if limit <= 0 {
		limit = 100
	}
	var list []*reminder.Reminder
	err := r.db.WithContext(ctx).
		Where("scheduled_for <= ? AND sent_at IS NULL AND attempts < ?", now.UTC(), maxAttempts).
		Where("(next_check_at IS NULL OR next_check_at <= ?)", now.UTC()).
		Order("scheduled_for ASC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *reminderRepositoryImpl) SaveDelivery(ctx context.Context, reminderID string, prevAttempts int, state delivery.State) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&reminder.Reminder{}).
		Where("reminder_id = ? AND attempts = ?", reminderID, prevAttempts).
		Updates(map[string]interface{}{
			"attempts":        state.Attempts,
			"last_attempt_at": state.LastAttemptAt,
			"sent_at":         state.SentAt,
			"last_error":      state.LastError,
			"next_check_at":   nil,
			"updated_at":      time.Now().UTC(),
		})
	return res.RowsAffected > 0, res.Error
}

func (r *reminderRepositoryImpl) Defer(ctx context.Context, reminderID string, prevAttempts int, until time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&reminder.Reminder{}).
		Where("reminder_id = ? AND attempts = ? AND sent_at IS NULL", reminderID, prevAttempts).
		Updates(map[string]interface{}{
			"next_check_at": until.UTC(),
			"updated_at":    time.Now().UTC(),
		})
	return res.RowsAffected > 0, res.Error
}
