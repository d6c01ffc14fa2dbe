package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ReviewHub/internal/modules/notification/application/dto/request"
	"ReviewHub/internal/modules/notification/application/dto/respond"
	"ReviewHub/internal/modules/notification/domain/delivery"
	"ReviewHub/internal/modules/notification/domain/preference"
	"ReviewHub/internal/modules/notification/domain/reminder"
	"ReviewHub/internal/modules/notification/domain/repository"
	"ReviewHub/pkg/metrics"
	"ReviewHub/pkg/util"
	"ReviewHub/pkg/xerr"
	"ReviewHub/pkg/zlog"

	"go.uber.org/zap"
)

// ReminderSender 提醒投递通道
type ReminderSender interface {
	SendReminder(ctx context.Context, r *reminder.Reminder, emailEnabled bool) error
}

// DeliveryReport 一轮投递的统计
type DeliveryReport struct {
	Scanned   int `json:"scanned"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
	Deferred  int `json:"deferred"`
	Exhausted int `json:"exhausted"`
}

type ReminderService interface {
	Create(ctx context.Context, userID string, req request.CreateReminderRequest) (*respond.ReminderItem, error)
	Get(ctx context.Context, userID string, reminderID string) (*respond.ReminderItem, error)
	List(ctx context.Context, userID string, limit int) ([]respond.ReminderItem, error)
	Delete(ctx context.Context, userID string, reminderID string) error
	// DeliverDue 扫描到期提醒并逐条投递
	DeliverDue(ctx context.Context) (DeliveryReport, error)
}

// 被拦截的提醒默认延后多久再检查
const defaultDeferDelay = 5 * time.Minute

type reminderServiceImpl struct {
	repo        repository.ReminderRepository
	prefSvc     PreferenceService
	sender      ReminderSender
	maxAttempts int
	batchSize   int
	deferDelay  time.Duration
	now         Clock
}

func NewReminderService(repo repository.ReminderRepository, prefSvc PreferenceService, sender ReminderSender, maxAttempts, batchSize int, deferDelay time.Duration, clock Clock) ReminderService {
	if clock == nil {
		clock = systemClock
	}
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	if deferDelay <= 0 {
		deferDelay = defaultDeferDelay
	}
	return &reminderServiceImpl{
		repo:        repo,
		prefSvc:     prefSvc,
		sender:      sender,
		maxAttempts: maxAttempts,
		batchSize:   batchSize,
		deferDelay:  deferDelay,
		now:         clock,
	}
}

func (s *reminderServiceImpl) Create(ctx context.Context, userID string, req request.CreateReminderRequest) (*respond.ReminderItem, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(req.Title) == "" {
		return nil, xerr.ErrParam
	}
	if req.ScheduledFor.IsZero() {
		return nil, xerr.New(xerr.BadRequest, "scheduledFor is required")
	}

	t := preference.TypeCustomReminder
	if strings.TrimSpace(req.NotificationType) != "" {
		parsed, err := preference.ParseNotificationType(req.NotificationType)
		if err != nil {
			return nil, validationToCode(err)
		}
		t = parsed
	}
	u := preference.UrgencyMedium
	if strings.TrimSpace(req.Urgency) != "" {
		parsed, err := preference.ParseUrgency(req.Urgency)
		if err != nil {
			return nil, validationToCode(err)
		}
		u = parsed
	}

	now := s.now()
	r := &reminder.Reminder{
		ReminderId:       util.GenerateShortUUID(),
		UserId:           userID,
		Title:            strings.TrimSpace(req.Title),
		Message:          req.Message,
		NotificationType: string(t),
		Urgency:          string(u),
		Delivery:         delivery.State{ScheduledFor: req.ScheduledFor.UTC()},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		zlog.Error("create reminder failed", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("create reminder: %w", err)
	}
	item := s.toItem(r)
	return &item, nil
}

func (s *reminderServiceImpl) Get(ctx context.Context, userID string, reminderID string) (*respond.ReminderItem, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(reminderID) == "" {
		return nil, xerr.ErrParam
	}
	r, err := s.repo.GetByReminderID(ctx, reminderID)
	if err != nil {
		return nil, fmt.Errorf("load reminder: %w", err)
	}
	// 别人的提醒同样按不存在处理
	if r == nil || r.UserId != userID {
		return nil, xerr.ErrNotFound
	}
	item := s.toItem(r)
	return &item, nil
}

func (s *reminderServiceImpl) List(ctx context.Context, userID string, limit int) ([]respond.ReminderItem, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, xerr.ErrParam
	}
	list, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	items := make([]respond.ReminderItem, 0, len(list))
	for _, r := range list {
		items = append(items, s.toItem(r))
	}
	return items, nil
}

func (s *reminderServiceImpl) Delete(ctx context.Context, userID string, reminderID string) error {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(reminderID) == "" {
		return xerr.ErrParam
	}
	ok, err := s.repo.Delete(ctx, userID, reminderID)
	if err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	if !ok {
		return xerr.ErrNotFound
	}
	return nil
}

func (s *reminderServiceImpl) DeliverDue(ctx context.Context) (DeliveryReport, error) {
	var report DeliveryReport
	now := s.now()
	list, err := s.repo.ListDue(ctx, now, s.maxAttempts, s.batchSize)
	if err != nil {
		return report, fmt.Errorf("list due reminders: %w", err)
	}
	report.Scanned = len(list)

	for _, r := range list {
		if ctx.Err() != nil {
			break
		}
		s.deliverOne(ctx, r, &report)
	}
	if report.Scanned > 0 {
		zlog.Info("reminder delivery round finished",
			zap.Int("scanned", report.Scanned),
			zap.Int("sent", report.Sent),
			zap.Int("failed", report.Failed),
			zap.Int("deferred", report.Deferred),
			zap.Int("exhausted", report.Exhausted),
		)
	}
	return report, nil
}

func (s *reminderServiceImpl) deliverOne(ctx context.Context, r *reminder.Reminder, report *DeliveryReport) {
	now := s.now()
	if !delivery.IsEligibleForRetry(r.Delivery, s.maxAttempts, now) {
		return
	}

	d, prefs, err := s.prefSvc.Evaluate(ctx, r.UserId, preference.NotificationType(r.NotificationType), preference.Urgency(r.Urgency), now)
	if err != nil {
		zlog.Warn("evaluate reminder failed", zap.String("reminder_id", r.ReminderId), zap.Error(err))
		report.Deferred++
		return
	}
	// 被偏好或暂停拦截的提醒不计入尝试次数，下次检查时间之前不会再被扫描
	if !d.Allowed {
		report.Deferred++
		until := now.Add(s.deferDelay)
		if _, err := s.repo.Defer(ctx, r.ReminderId, r.Delivery.Attempts, until); err != nil {
			zlog.Error("defer reminder failed", zap.String("reminder_id", r.ReminderId), zap.Error(err))
			return
		}
		r.NextCheckAt = &until
		zlog.Debug("reminder deferred",
			zap.String("reminder_id", r.ReminderId),
			zap.String("reason", string(d.Reason)),
			zap.Time("next_check_at", until),
		)
		return
	}

	outcome := delivery.Succeeded()
	if err := s.sender.SendReminder(ctx, r, prefs.EmailEnabled); err != nil {
		outcome = delivery.Failed(err)
	}
	next := delivery.RecordAttempt(r.Delivery, outcome, now)

	ok, err := s.repo.SaveDelivery(ctx, r.ReminderId, r.Delivery.Attempts, next)
	if err != nil {
		zlog.Error("save reminder delivery failed", zap.String("reminder_id", r.ReminderId), zap.Error(err))
		return
	}
	if !ok {
		// 其他实例已处理过这一轮
		zlog.Debug("reminder delivery lost race", zap.String("reminder_id", r.ReminderId))
		return
	}
	r.Delivery = next
	r.NextCheckAt = nil

	if outcome.Success {
		report.Sent++
		metrics.ReminderAttemptsTotal.WithLabelValues("success").Inc()
		return
	}
	report.Failed++
	metrics.ReminderAttemptsTotal.WithLabelValues("failure").Inc()
	zlog.Warn("reminder delivery failed",
		zap.String("reminder_id", r.ReminderId),
		zap.Int("attempts", next.Attempts),
		zap.String("error", outcome.Error),
	)
	if !delivery.IsEligibleForRetry(next, s.maxAttempts, now) {
		report.Exhausted++
		metrics.ReminderExhaustedTotal.Inc()
		zlog.Error("reminder delivery exhausted",
			zap.String("reminder_id", r.ReminderId),
			zap.String("user_id", r.UserId),
			zap.Int("attempts", next.Attempts),
		)
	}
}

func (s *reminderServiceImpl) toItem(r *reminder.Reminder) respond.ReminderItem {
	status := "pending"
	switch {
	case r.Delivery.Delivered():
		status = "sent"
	case !delivery.IsEligibleForRetry(r.Delivery, s.maxAttempts, s.now()):
		status = "failed"
	}
	return respond.ReminderItem{
		ReminderId:       r.ReminderId,
		Title:            r.Title,
		Message:          r.Message,
		NotificationType: r.NotificationType,
		Urgency:          r.Urgency,
		ScheduledFor:     r.Delivery.ScheduledFor,
		Attempts:         r.Delivery.Attempts,
		LastAttemptAt:    r.Delivery.LastAttemptAt,
		SentAt:           r.Delivery.SentAt,
		LastError:        r.Delivery.LastError,
		NextCheckAt:      r.NextCheckAt,
		Status:           status,
	}
}
