package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	https_server "ReviewHub/api/http"
	"ReviewHub/internal/config"
	"ReviewHub/internal/initial"
	"ReviewHub/internal/modules/notification/application/service"
	"ReviewHub/internal/modules/notification/infrastructure/cache"
	"ReviewHub/internal/modules/notification/infrastructure/persistence"
	"ReviewHub/internal/modules/notification/infrastructure/sender"
	"ReviewHub/internal/modules/notification/interface/scheduler"
	"ReviewHub/pkg/ws"
	"ReviewHub/pkg/zlog"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置与日志
	conf := config.GetConfig()
	zlog.Init(conf.LogConfig.LogPath, conf.LogConfig.Level)
	defer zlog.Sync()

	// 2. 基础设施
	db, err := initial.NewGormDB(conf)
	if err != nil {
		zlog.Fatal("数据库初始化失败", zap.Error(err))
	}
	redisClient := initial.NewRedisClient(conf)
	publisher := initial.NewPublisher(conf)
	hub := ws.NewHub()

	// 3. 组装服务
	snd := sender.New(publisher, hub, sender.Config{
		NotificationTopic: conf.KafkaConfig.NotificationTopic,
		ReminderTopic:     conf.KafkaConfig.ReminderTopic,
	})
	prefCache := cache.NewPreferenceCache(redisClient, time.Duration(conf.PreferenceCacheConfig.TTLSeconds)*time.Second)

	pauseSvc := service.NewPauseService(persistence.NewPauseRepository(db), snd, nil)
	prefSvc := service.NewPreferenceService(persistence.NewPreferenceRepository(db), prefCache, pauseSvc, nil)
	dispatchSvc := service.NewDispatchService(persistence.NewNotificationRepository(db), prefSvc, snd, conf.ReminderConfig.BatchSize, nil)
	reminderSvc := service.NewReminderService(persistence.NewReminderRepository(db), prefSvc, snd,
		conf.ReminderConfig.MaxAttempts, conf.ReminderConfig.BatchSize,
		time.Duration(conf.ReminderConfig.DeferMinutes)*time.Minute, nil)

	sched := scheduler.NewSchedulerManager(reminderSvc, dispatchSvc, scheduler.Config{
		ReminderCron: conf.ReminderConfig.CronExpr,
		DispatchCron: conf.ReminderConfig.DispatchCron,
	})
	if err := sched.Start(); err != nil {
		zlog.Fatal("调度器启动失败", zap.Error(err))
	}

	router := https_server.NewRouter(conf, https_server.Services{
		Preference: prefSvc,
		Pause:      pauseSvc,
		Dispatch:   dispatchSvc,
		Reminder:   reminderSvc,
		Hub:        hub,
	})

	// 4. 启动 HTTP 服务
	addr := fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port)
	srv := &http.Server{Addr: addr, Handler: router}
	go func() {
		zlog.Info("服务器正在启动", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("服务器启动失败", zap.Error(err))
		}
	}()

	// 5. 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("正在关闭服务器...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("HTTP 服务关闭异常", zap.Error(err))
	}
	sched.Stop()
	if err := publisher.Close(); err != nil {
		zlog.Warn("Kafka 生产者关闭异常", zap.Error(err))
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	zlog.Info("服务器已关闭")
}
