package persistence

import (
	"context"
	"errors"
	"time"

	"ReviewHub/internal/modules/notification/domain/pause"
	"ReviewHub/internal/modules/notification/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type pauseRepositoryImpl struct {
	db *gorm.DB
}

func NewPauseRepository(db *gorm.DB) repository.PauseRepository {
	return &pauseRepositoryImpl{db: db}
}

func (r *pauseRepositoryImpl) Get(ctx context.Context, userID string) (*pause.PauseWindow, error) {
	var w pause.PauseWindow
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&w).Error
	if err == nil {
		return &w, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return nil, err
}

func (r *pauseRepositoryImpl) Upsert(ctx context.Context, w *pause.PauseWindow) error {
	now := time.Now().UTC()
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
	w.UpdatedAt = now
	// 单行 upsert 由数据库保证原子性，两个并发 pause 只会留下其中一个完整写入
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"active", "start_at", "end_at", "reason", "updated_at"}),
	}).Create(w).Error
}

func (r *pauseRepositoryImpl) Deactivate(ctx context.Context, userID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&pause.PauseWindow{}).
		Where("user_id = ? AND active = ?", userID, true).
		Updates(map[string]interface{}{
			"active":     false,
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected > 0, res.Error
}

func (r *pauseRepositoryImpl) DeactivateExpired(ctx context.Context, userID string, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&pause.PauseWindow{}).
		Where("user_id = ? AND active = ? AND end_at IS NOT NULL AND end_at <= ?", userID, true, now.UTC()).
		Updates(map[string]interface{}{
			"active":     false,
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected > 0, res.Error
}
