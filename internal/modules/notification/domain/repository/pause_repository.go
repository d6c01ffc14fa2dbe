package repository

import (
	"context"
	"time"

	"ReviewHub/internal/modules/notification/domain/pause"
)

// PauseRepository 暂停窗口仓储，每个用户至多一行
type PauseRepository interface {
	// Get 不存在时返回 (nil, nil)
	Get(ctx context.Context, userID string) (*pause.PauseWindow, error)

	// Upsert 以 user_id 为键整行覆盖，不叠加
	Upsert(ctx context.Context, w *pause.PauseWindow) error

	// Deactivate 把 active 行置为 false，返回是否有行被修改
	Deactivate(ctx context.Context, userID string) (bool, error)

	// DeactivateExpired 仅当窗口已到期时置为 false，可重复调用
	DeactivateExpired(ctx context.Context, userID string, now time.Time) (bool, error)
}
