package repository

import (
	"context"
	"time"

	"ReviewHub/internal/modules/notification/domain/notification"
)

// NotificationRepository 站内通知仓储
type NotificationRepository interface {
	// CreateNotification 创建通知
	CreateNotification(ctx context.Context, notif *notification.Notification) error

	// GetPendingNotifications 按创建时间取待推送的通知
	GetPendingNotifications(ctx context.Context, limit int) ([]*notification.Notification, error)

	// UpdateNotificationStatus 只更新仍处于待推送状态的通知，返回是否抢到
	UpdateNotificationStatus(ctx context.Context, notificationID string, status int8, reason string, sentAt *time.Time) (bool, error)

	// ListByUser 用户可见的通知（不含被拦截的），新的在前
	ListByUser(ctx context.Context, userID string, limit int) ([]*notification.Notification, error)

	// MarkRead 标记已读，返回是否有行被修改
	MarkRead(ctx context.Context, userID string, notificationID string, at time.Time) (bool, error)

	CountUnread(ctx context.Context, userID string) (int64, error)
}
