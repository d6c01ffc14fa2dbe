package repository

import (
	"context"
	"time"

	"ReviewHub/internal/modules/notification/domain/delivery"
	"ReviewHub/internal/modules/notification/domain/reminder"
)

// ReminderRepository 提醒仓储
type ReminderRepository interface {
	Create(ctx context.Context, r *reminder.Reminder) error

	// GetByReminderID 不存在时返回 (nil, nil)
	GetByReminderID(ctx context.Context, reminderID string) (*reminder.Reminder, error)

	ListByUser(ctx context.Context, userID string, limit int) ([]*reminder.Reminder, error)

	// Delete 只能删除自己的提醒，返回是否删除
	Delete(ctx context.Context, userID string, reminderID string) (bool, error)

	// ListDue 到期、未送达、未用尽次数且不在延后期内的提醒
	ListDue(ctx context.Context, now time.Time, maxAttempts int, limit int) ([]*reminder.Reminder, error)

	// Defer 延后到 until 再检查，不改动尝试次数；同样以尝试次数做条件更新
	Defer(ctx context.Context, reminderID string, prevAttempts int, until time.Time) (bool, error)

	// SaveDelivery 以尝试次数做条件更新，并发投递时只有一方成功
	SaveDelivery(ctx context.Context, reminderID string, prevAttempts int, state delivery.State) (bool, error)
}
