package persistence

import (
	"context"
	"time"

	"ReviewHub/internal/modules/notification/domain/notification"
	"ReviewHub/internal/modules/notification/domain/repository"

	"gorm.io/gorm"
)

type notificationRepositoryImpl struct {
	db *gorm.DB
}

// NewNotificationRepository 创建通知仓储实现
func NewNotificationRepository(db *gorm.DB) repository.NotificationRepository {
	return &notificationRepositoryImpl{db: db}
}

func (r *notificationRepositoryImpl) CreateNotification(ctx context.Context, notif *notification.Notification) error {
	return r.db.WithContext(ctx).Create(notif).Error
}

func (r *notificationRepositoryImpl) GetPendingNotifications(ctx context.Context, limit int) ([]*notification.Notification, error) {
	if limit <= 0 {
		limit = 100
	}
	var notifs []*notification.Notification
	err := r.db.WithContext(ctx).
		Where("status = ?", notification.StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&notifs).Error
	return notifs, err
}

func (r *notificationRepositoryImpl) UpdateNotificationStatus(ctx context.Context, notificationID string, status int8, reason string, sentAt *time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&notification.Notification{}).
		Where("notification_id = ? AND status = ?", notificationID, notification.StatusPending).
		Updates(map[string]interface{}{
			"status":  status,
			"reason":  reason,
			"sent_at": sentAt,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *notificationRepositoryImpl) ListByUser(ctx context.Context, userID string, limit int) ([]*notification.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	var notifs []*notification.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status IN ?", userID, []int8{notification.StatusSent, notification.StatusRead}).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&notifs).Error
	return notifs, err
}

func (r *notificationRepositoryImpl) MarkRead(ctx context.Context, userID string, notificationID string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&notification.Notification{}).
		Where("user_id = ? AND notification_id = ? AND status = ?", userID, notificationID, notification.StatusSent).
		Updates(map[string]interface{}{
			"status":  notification.StatusRead,
			"read_at": at,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *notificationRepositoryImpl) CountUnread(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&notification.Notification{}).
		Where("user_id = ? AND status = ?", userID, notification.StatusSent).
		Count(&n).Error
	return n, err
}
