package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ReviewHub/internal/modules/notification/application/dto/request"
	"ReviewHub/internal/modules/notification/application/dto/respond"
	"ReviewHub/internal/modules/notification/domain/policy"
	"ReviewHub/internal/modules/notification/domain/preference"
	"ReviewHub/internal/modules/notification/domain/repository"
	"ReviewHub/pkg/metrics"
	"ReviewHub/pkg/xerr"
	"ReviewHub/pkg/zlog"

	"go.uber.org/zap"
)

// 乐观锁冲突时的重试次数
const maxSaveAttempts = 3

type PreferenceService interface {
	// Get 不存在时按默认值创建
	Get(ctx context.Context, userID string) (*preference.NotificationPreferences, error)
	Update(ctx context.Context, userID string, patch preference.Patch) (*preference.NotificationPreferences, error)
	Reset(ctx context.Context, userID string) (*preference.NotificationPreferences, error)
	Check(ctx context.Context, userID string, req request.CheckPreferenceRequest) (*respond.DecisionRespond, error)
	// Evaluate 供派发与提醒任务调用：读取偏好与暂停状态后交给 policy.Resolve
	Evaluate(ctx context.Context, userID string, t preference.NotificationType, u preference.Urgency, now time.Time) (policy.Decision, *preference.NotificationPreferences, error)
}

type preferenceServiceImpl struct {
	repo     repository.PreferenceRepository
	cache    repository.PreferenceCache
	pauseSvc PauseService
	now      Clock
}

func NewPreferenceService(repo repository.PreferenceRepository, cache repository.PreferenceCache, pauseSvc PauseService, clock Clock) PreferenceService {
	if clock == nil {
		clock = systemClock
	}
	return &preferenceServiceImpl{repo: repo, cache: cache, pauseSvc: pauseSvc, now: clock}
}

func (s *preferenceServiceImpl) Get(ctx context.Context, userID string) (*preference.NotificationPreferences, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, xerr.ErrParam
	}
	if p, ok := s.cache.Get(ctx, userID); ok {
		return p.WithDefaults(), nil
	}
	p, err := s.loadFromStore(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, p)
	return p, nil
}

func (s *preferenceServiceImpl) loadFromStore(ctx context.Context, userID string) (*preference.NotificationPreferences, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		zlog.Error("load notification preferences failed", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	if p == nil {
		p, err = s.repo.CreateIfAbsent(ctx, preference.Default(userID))
		if err != nil {
			zlog.Error("create default preferences failed", zap.String("user_id", userID), zap.Error(err))
			return nil, fmt.Errorf("create default preferences: %w", err)
		}
	}
	return p.WithDefaults(), nil
}

func (s *preferenceServiceImpl) Update(ctx context.Context, userID string, patch preference.Patch) (*preference.NotificationPreferences, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, xerr.ErrParam
	}
	return s.save(ctx, userID, func(cur *preference.NotificationPreferences) (*preference.NotificationPreferences, error) {
		return cur.Apply(patch)
	})
}

func (s *preferenceServiceImpl) Reset(ctx context.Context, userID string) (*preference.NotificationPreferences, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, xerr.ErrParam
	}
	return s.save(ctx, userID, func(cur *preference.NotificationPreferences) (*preference.NotificationPreferences, error) {
		next := preference.Default(userID)
		next.Id = cur.Id
		next.CreatedAt = cur.CreatedAt
		return next, nil
	})
}

// save 读-改-写，以 version 做条件更新，冲突时重新读取后再套用一次
func (s *preferenceServiceImpl) save(ctx context.Context, userID string, mutate func(*preference.NotificationPreferences) (*preference.NotificationPreferences, error)) (*preference.NotificationPreferences, error) {
	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		cur, err := s.loadFromStore(ctx, userID)
		if err != nil {
			return nil, err
		}
		next, err := mutate(cur)
		if err != nil {
			return nil, validationToCode(err)
		}
		ok, err := s.repo.Save(ctx, next, cur.Version)
		if err != nil {
			zlog.Error("save notification preferences failed", zap.String("user_id", userID), zap.Error(err))
			return nil, fmt.Errorf("save preferences: %w", err)
		}
		if ok {
			// 直接写入新版本；并发读回写的旧版本会被缓存按版本拒绝
			s.cache.Set(ctx, next)
			return next, nil
		}
		zlog.Debug("preferences version conflict, retrying", zap.String("user_id", userID), zap.Int("attempt", attempt+1))
	}
	return nil, xerr.ErrConflict
}

func (s *preferenceServiceImpl) Check(ctx context.Context, userID string, req request.CheckPreferenceRequest) (*respond.DecisionRespond, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, xerr.ErrParam
	}
	u, err := preference.ParseUrgency(req.Urgency)
	if err != nil {
		return nil, validationToCode(err)
	}
	// 未知类型交给解析器按 TYPE_DISABLED 处理
	t := preference.NotificationType(strings.TrimSpace(req.NotificationType))

	d, _, err := s.Evaluate(ctx, userID, t, u, s.now())
	if err != nil {
		return nil, err
	}
	return &respond.DecisionRespond{Allowed: d.Allowed, ReasonCode: string(d.Reason)}, nil
}

func (s *preferenceServiceImpl) Evaluate(ctx context.Context, userID string, t preference.NotificationType, u preference.Urgency, now time.Time) (policy.Decision, *preference.NotificationPreferences, error) {
	prefs, err := s.Get(ctx, userID)
	if err != nil {
		return policy.Decision{}, nil, err
	}
	w, err := s.pauseSvc.Current(ctx, userID, now)
	if err != nil {
		return policy.Decision{}, nil, err
	}

	d := policy.Resolve(prefs, w, policy.Request{Type: t, Urgency: u, Now: now})
	result := "allowed"
	if !d.Allowed {
		result = string(d.Reason)
	}
	metrics.NotificationDecisionsTotal.WithLabelValues(typeLabel(t), result).Inc()
	return d, prefs, nil
}

// typeLabel 类型来自请求参数，未知值统一归为 unknown，避免标签无限增长
func typeLabel(t preference.NotificationType) string {
	if !t.Valid() {
		return "unknown"
	}
	return string(t)
}
