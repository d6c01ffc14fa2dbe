package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ReviewHub/internal/modules/notification/application/dto/request"
	"ReviewHub/internal/modules/notification/application/dto/respond"
	"ReviewHub/internal/modules/notification/domain/pause"
	"ReviewHub/internal/modules/notification/domain/repository"
	"ReviewHub/pkg/metrics"
	"ReviewHub/pkg/xerr"
	"ReviewHub/pkg/zlog"

	"go.uber.org/zap"
)

// PauseNotifier 暂停状态变化时通知在线客户端
type PauseNotifier interface {
	PushPauseChanged(userID string, data interface{})
}

// PauseService 暂停窗口的状态机：开始、覆盖、恢复、读时过期
type PauseService interface {
	Pause(ctx context.Context, userID string, req request.PauseRequest) (*pause.PauseWindow, error)
	// Resume 没有进行中的暂停时返回 (nil, false, nil)
	Resume(ctx context.Context, userID string) (*pause.PauseWindow, bool, error)
	Status(ctx context.Context, userID string) (*respond.PauseStatusRespond, error)
	// Current 读取窗口并收敛已到期的记录
	Current(ctx context.Context, userID string, now time.Time) (*pause.PauseWindow, error)
}

type pauseServiceImpl struct {
	repo     repository.PauseRepository
	notifier PauseNotifier
	now      Clock
}

func NewPauseService(repo repository.PauseRepository, notifier PauseNotifier, clock Clock) PauseService {
	if clock == nil {
		clock = systemClock
	}
	return &pauseServiceImpl{repo: repo, notifier: notifier, now: clock}
}

func (s *pauseServiceImpl) Pause(ctx context.Context, userID string, req request.PauseRequest) (*pause.PauseWindow, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, xerr.ErrParam
	}
	if req.EndAt != nil && req.DurationHours != nil {
		return nil, xerr.New(xerr.BadRequest, "endAt and durationHours cannot both be set")
	}

	start := s.now()
	if req.StartAt != nil {
		start = req.StartAt.UTC()
	}
	end := req.EndAt
	if req.DurationHours != nil {
		if *req.DurationHours <= 0 {
			return nil, xerr.New(xerr.BadRequest, "durationHours must be greater than zero")
		}
		e := start.Add(time.Duration(*req.DurationHours) * time.Hour)
		end = &e
	}

	w, err := pause.NewWindow(userID, start, end, req.Reason)
	if err != nil {
		return nil, validationToCode(err)
	}

	prev, err := s.repo.Get(ctx, userID)
	if err != nil {
		zlog.Error("load pause window failed", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("load pause window: %w", err)
	}
	if err := s.repo.Upsert(ctx, w); err != nil {
		zlog.Error("save pause window failed", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("save pause window: %w", err)
	}

	transition := "pause"
	if pause.IsEffectivelyActive(prev, start) {
		transition = "replace"
	}
	metrics.PauseTransitionsTotal.WithLabelValues(transition).Inc()
	zlog.Info("notification pause set",
		zap.String("user_id", userID),
		zap.String("transition", transition),
		zap.Time("start_at", w.StartAt),
		zap.Bool("indefinite", w.EndAt == nil),
	)
	s.notify(userID, statusOf(w, s.now()))
	return w, nil
}

func (s *pauseServiceImpl) Resume(ctx context.Context, userID string) (*pause.PauseWindow, bool, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, false, xerr.ErrParam
	}
	changed, err := s.repo.Deactivate(ctx, userID)
	if err != nil {
		zlog.Error("resume pause failed", zap.String("user_id", userID), zap.Error(err))
		return nil, false, fmt.Errorf("deactivate pause window: %w", err)
	}
	if !changed {
		return nil, false, nil
	}

	w, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("load pause window: %w", err)
	}
	metrics.PauseTransitionsTotal.WithLabelValues("resume").Inc()
	zlog.Info("notification pause resumed", zap.String("user_id", userID))
	s.notify(userID, &respond.PauseStatusRespond{Paused: false})
	return w, true, nil
}

func (s *pauseServiceImpl) Status(ctx context.Context, userID string) (*respond.PauseStatusRespond, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, xerr.ErrParam
	}
	now := s.now()
	w, err := s.Current(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	return statusOf(w, now), nil
}

func (s *pauseServiceImpl) Current(ctx context.Context, userID string, now time.Time) (*pause.PauseWindow, error) {
	w, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load pause window: %w", err)
	}
	if !pause.NeedsExpiry(w, now) {
		return w, nil
	}

	// 条件更新可重复执行，并发读同时回写也只会有一次生效
	expired, err := s.repo.DeactivateExpired(ctx, userID, now)
	if err != nil {
		zlog.Warn("expire pause window failed", zap.String("user_id", userID), zap.Error(err))
	} else if expired {
		metrics.PauseTransitionsTotal.WithLabelValues("expire").Inc()
	}
	healed := *w
	healed.Active = false
	return &healed, nil
}

func (s *pauseServiceImpl) notify(userID string, status *respond.PauseStatusRespond) {
	if s.notifier != nil {
		s.notifier.PushPauseChanged(userID, status)
	}
}

func statusOf(w *pause.PauseWindow, now time.Time) *respond.PauseStatusRespond {
	if !pause.IsEffectivelyActive(w, now) {
		return &respond.PauseStatusRespond{Paused: false}
	}
	start := w.StartAt
	return &respond.PauseStatusRespond{
		Paused:  true,
		StartAt: &start,
		Until:   w.EndAt,
		Reason:  w.Reason,
	}
}
