package service

import (
	"context"
	"fmt"
	"strings"

	"ReviewHub/internal/modules/notification/application/dto/request"
	"ReviewHub/internal/modules/notification/application/dto/respond"
	"ReviewHub/internal/modules/notification/domain/notification"
	"ReviewHub/internal/modules/notification/domain/preference"
	"ReviewHub/internal/modules/notification/domain/repository"
	"ReviewHub/pkg/util"
	"ReviewHub/pkg/xerr"
	"ReviewHub/pkg/zlog"

	"go.uber.org/zap"
)

// NotificationSender 通知投递通道
type NotificationSender interface {
	SendNotification(ctx context.Context, n *notification.Notification, emailEnabled bool) error
}

// DispatchService 通知入库与派发。入库后统一由调度任务判定发送或拦截
type DispatchService interface {
	Submit(ctx context.Context, req request.SubmitNotificationRequest) (*notification.Notification, error)
	// DispatchPending 处理一批待推送通知，返回已处理条数
	DispatchPending(ctx context.Context) (int, error)
	List(ctx context.Context, userID string, limit int) (*respond.NotificationListRespond, error)
	MarkRead(ctx context.Context, userID string, notificationID string) error
	UnreadCount(ctx context.Context, userID string) (int64, error)
}

type dispatchServiceImpl struct {
	repo      repository.NotificationRepository
	prefSvc   PreferenceService
	sender    NotificationSender
	batchSize int
	now       Clock
}

func NewDispatchService(repo repository.NotificationRepository, prefSvc PreferenceService, sender NotificationSender, batchSize int, clock Clock) DispatchService {
	if clock == nil {
		clock = systemClock
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &dispatchServiceImpl{repo: repo, prefSvc: prefSvc, sender: sender, batchSize: batchSize, now: clock}
}

func (s *dispatchServiceImpl) Submit(ctx context.Context, req request.SubmitNotificationRequest) (*notification.Notification, error) {
	userID := strings.TrimSpace(req.UserId)
	if userID == "" || strings.TrimSpace(req.Title) == "" {
		return nil, xerr.ErrParam
	}
	t, err := preference.ParseNotificationType(req.NotificationType)
	if err != nil {
		return nil, validationToCode(err)
	}
	u := preference.UrgencyLow
	if strings.TrimSpace(req.Urgency) != "" {
		if u, err = preference.ParseUrgency(req.Urgency); err != nil {
			return nil, validationToCode(err)
		}
	}

	n := &notification.Notification{
		NotificationId: util.GenerateShortUUID(),
		UserId:         userID,
		Type:           string(t),
		Urgency:        string(u),
		Title:          strings.TrimSpace(req.Title),
		Content:        req.Content,
		Link:           strings.TrimSpace(req.Link),
		Status:         notification.StatusPending,
		CreatedAt:      s.now(),
	}
	if err := s.repo.CreateNotification(ctx, n); err != nil {
		zlog.Error("create notification failed", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return n, nil
}

func (s *dispatchServiceImpl) DispatchPending(ctx context.Context) (int, error) {
	list, err := s.repo.GetPendingNotifications(ctx, s.batchSize)
	if err != nil {
		return 0, fmt.Errorf("load pending notifications: %w", err)
	}
	done := 0
	for _, n := range list {
		if ctx.Err() != nil {
			break
		}
		if s.dispatchOne(ctx, n) {
			done++
		}
	}
	return done, nil
}

// dispatchOne 发送失败时保持 pending，下一轮再试
func (s *dispatchServiceImpl) dispatchOne(ctx context.Context, n *notification.Notification) bool {
	now := s.now()
	d, prefs, err := s.prefSvc.Evaluate(ctx, n.UserId, preference.NotificationType(n.Type), preference.Urgency(n.Urgency), now)
	if err != nil {
		zlog.Warn("evaluate notification failed", zap.String("notification_id", n.NotificationId), zap.Error(err))
		return false
	}

	if !d.Allowed {
		ok, err := s.repo.UpdateNotificationStatus(ctx, n.NotificationId, notification.StatusSuppressed, string(d.Reason), nil)
		if err != nil {
			zlog.Error("suppress notification failed", zap.String("notification_id", n.NotificationId), zap.Error(err))
			return false
		}
		zlog.Debug("notification suppressed",
			zap.String("notification_id", n.NotificationId),
			zap.String("reason", string(d.Reason)),
		)
		return ok
	}

	if err := s.sender.SendNotification(ctx, n, prefs.EmailEnabled); err != nil {
		zlog.Warn("send notification failed", zap.String("notification_id", n.NotificationId), zap.Error(err))
		return false
	}
	sentAt := now
	ok, err := s.repo.UpdateNotificationStatus(ctx, n.NotificationId, notification.StatusSent, "", &sentAt)
	if err != nil {
		zlog.Error("mark notification sent failed", zap.String("notification_id", n.NotificationId), zap.Error(err))
		return false
	}
	return ok
}

func (s *dispatchServiceImpl) List(ctx context.Context, userID string, limit int) (*respond.NotificationListRespond, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, xerr.ErrParam
	}
	list, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count unread: %w", err)
	}
	items := make([]respond.NotificationItem, 0, len(list))
	for _, n := range list {
		items = append(items, respond.NotificationItem{
			NotificationId: n.NotificationId,
			Type:           n.Type,
			Urgency:        n.Urgency,
			Title:          n.Title,
			Content:        n.Content,
			Link:           n.Link,
			Status:         statusName(n.Status),
			Reason:         n.Reason,
			SentAt:         n.SentAt,
			ReadAt:         n.ReadAt,
			CreatedAt:      n.CreatedAt,
		})
	}
	return &respond.NotificationListRespond{Items: items, Unread: unread}, nil
}

func (s *dispatchServiceImpl) MarkRead(ctx context.Context, userID string, notificationID string) error {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(notificationID) == "" {
		return xerr.ErrParam
	}
	ok, err := s.repo.MarkRead(ctx, userID, notificationID, s.now())
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	if !ok {
		return xerr.ErrNotFound
	}
	return nil
}

func (s *dispatchServiceImpl) UnreadCount(ctx context.Context, userID string) (int64, error) {
	if strings.TrimSpace(userID) == "" {
		return 0, xerr.ErrParam
	}
	return s.repo.CountUnread(ctx, userID)
}

func statusName(status int8) string {
	switch status {
	case notification.StatusPending:
		return "pending"
	case notification.StatusSent:
		return "sent"
	case notification.StatusSuppressed:
		return "suppressed"
	case notification.StatusRead:
		return "read"
	default:
		return "unknown"
	}
}
