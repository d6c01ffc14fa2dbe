package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ReviewHub/internal/modules/notification/domain/preference"
	"ReviewHub/internal/modules/notification/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type preferenceRepositoryImpl struct {
	db *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) repository.PreferenceRepository {
	return &preferenceRepositoryImpl{db: db}
}

func (r *preferenceRepositoryImpl) GetByUserID(ctx context.Context, userID string) (*preference.NotificationPreferences, error) {
	var p preference.NotificationPreferences
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&p).Error
	if err == nil {
		return &p, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return nil, err
}

func (r *preferenceRepositoryImpl) CreateIfAbsent(ctx context.Context, prefs *preference.NotificationPreferences) (*preference.NotificationPreferences, error) {
	// 唯一索引 user_id 冲突时什么都不做，再读回库中的那一行
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(prefs).Error
	if err != nil {
		return nil, err
	}
	stored, err := r.GetByUserID(ctx, prefs.UserId)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("notification preferences for %s vanished after insert", prefs.UserId)
	}
	return stored, nil
}

func (r *preferenceRepositoryImpl) Save(ctx context.Context, prefs *preference.NotificationPreferences, expectedVersion int64) (bool, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&preference.NotificationPreferences{}).
		Where("user_id = ? AND version = ?", prefs.UserId, expectedVersion).
		Updates(map[string]interface{}{
			"active":          prefs.Active,
			"email_enabled":   prefs.EmailEnabled,
			"minimum_urgency": string(prefs.MinimumUrgency),
			"type_settings":   prefs.TypeSettings,
			"content_options": prefs.ContentOptions,
			"filters":         prefs.Filters,
			"version":         expectedVersion + 1,
			"updated_at":      now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	prefs.Version = expectedVersion + 1
	prefs.UpdatedAt = now
	return true, nil
}
