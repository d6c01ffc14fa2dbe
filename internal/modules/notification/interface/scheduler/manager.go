package scheduler

import (
	"context"
	"fmt"
	"time"

	"ReviewHub/internal/modules/notification/application/service"
	"ReviewHub/pkg/zlog"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// 单轮任务的超时，防止下游卡死拖住后续触发
const roundTimeout = 50 * time.Second

type Config struct {
	ReminderCron string
	DispatchCron string
}

// SchedulerManager 周期性投递到期提醒与待推送通知
type SchedulerManager struct {
	cron        *cron.Cron
	reminderSvc service.ReminderService
	dispatchSvc service.DispatchService
	cfg         Config
}

func NewSchedulerManager(reminderSvc service.ReminderService, dispatchSvc service.DispatchService, cfg Config) *SchedulerManager {
	return &SchedulerManager{
		// 上一轮未结束时跳过本次触发，同一进程内不会并发投递
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.DefaultLogger),
			cron.SkipIfStillRunning(cron.DefaultLogger),
		)),
		reminderSvc: reminderSvc,
		dispatchSvc: dispatchSvc,
		cfg:         cfg,
	}
}

// Start 注册任务并启动调度；表达式非法时返回错误
func (m *SchedulerManager) Start() error {
	if m.cfg.ReminderCron != "" {
		if _, err := m.cron.AddFunc(m.cfg.ReminderCron, m.DeliverReminders); err != nil {
			return fmt.Errorf("schedule reminder delivery %q: %w", m.cfg.ReminderCron, err)
		}
	}
	if m.cfg.DispatchCron != "" {
		if _, err := m.cron.AddFunc(m.cfg.DispatchCron, m.DispatchNotifications); err != nil {
			return fmt.Errorf("schedule notification dispatch %q: %w", m.cfg.DispatchCron, err)
		}
	}
	m.cron.Start()
	zlog.Info("notification scheduler started",
		zap.String("reminder_cron", m.cfg.ReminderCron),
		zap.String("dispatch_cron", m.cfg.DispatchCron),
	)
	return nil
}

// Stop 等待正在执行的任务结束
func (m *SchedulerManager) Stop() {
	<-m.cron.Stop().Done()
}

func (m *SchedulerManager) DeliverReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), roundTimeout)
	defer cancel()
	if _, err := m.reminderSvc.DeliverDue(ctx); err != nil {
		zlog.Error("reminder delivery round failed", zap.Error(err))
	}
}

func (m *SchedulerManager) DispatchNotifications() {
	ctx, cancel := context.WithTimeout(context.Background(), roundTimeout)
	defer cancel()
	n, err := m.dispatchSvc.DispatchPending(ctx)
	if err != nil {
		zlog.Error("notification dispatch round failed", zap.Error(err))
		return
	}
	if n > 0 {
		zlog.Debug("notification dispatch round finished", zap.Int("processed", n))
	}
}
