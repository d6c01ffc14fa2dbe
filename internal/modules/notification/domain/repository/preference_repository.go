package repository

import (
	"context"

	"ReviewHub/internal/modules/notification/domain/preference"
)

// PreferenceRepository 通知偏好仓储
type PreferenceRepository interface {
	// GetByUserID 不存在时返回 (nil, nil)
	GetByUserID(ctx context.Context, userID string) (*preference.NotificationPreferences, error)

	// CreateIfAbsent 并发首次访问时只有一条写入成功，返回库中最终的记录
	CreateIfAbsent(ctx context.Context, prefs *preference.NotificationPreferences) (*preference.NotificationPreferences, error)

	// Save 以 version 做乐观锁整行覆盖，成功后 version+1；版本不符时返回 false
	Save(ctx context.Context, prefs *preference.NotificationPreferences, expectedVersion int64) (bool, error)
}

// PreferenceCache 偏好读缓存，未配置 Redis 时为空实现
type PreferenceCache interface {
	Get(ctx context.Context, userID string) (*preference.NotificationPreferences, bool)
	// Set 版本低于已缓存过的版本时忽略
	Set(ctx context.Context, prefs *preference.NotificationPreferences)
}
