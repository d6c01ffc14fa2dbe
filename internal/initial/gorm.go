package initial

import (
	"fmt"
	"log"
	"os"
	"time"

	"ReviewHub/internal/config"
	"ReviewHub/internal/modules/notification/domain/notification"
	"ReviewHub/internal/modules/notification/domain/pause"
	"ReviewHub/internal/modules/notification/domain/preference"
	"ReviewHub/internal/modules/notification/domain/reminder"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewGormDB 连接 MySQL 并迁移通知相关表
func NewGormDB(conf *config.Config) (*gorm.DB, error) {
	c := conf.MysqlConfig
	// 统一按 UTC 读写时间，暂停窗口与提醒的到期比较依赖这一点
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		c.User, c.Password, c.Host, c.Port, c.DatabaseName)

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:  gormLogger,
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}
	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// AutoMigrate 如果没有建表，会自动创建对应的表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&preference.NotificationPreferences{},
		&pause.PauseWindow{},
		&notification.Notification{},
		&reminder.Reminder{},
	)
}
