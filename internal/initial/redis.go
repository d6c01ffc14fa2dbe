package initial

import (
	"context"
	"fmt"
	"time"

	"ReviewHub/internal/config"
	"ReviewHub/pkg/zlog"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient 未配置主机或连接失败时返回 nil，偏好缓存随之关闭
func NewRedisClient(conf *config.Config) *goredis.Client {
	host := conf.RedisConfig.Host
	port := conf.RedisConfig.Port

	if host == "" {
		zlog.Info("Redis 未配置，跳过初始化")
		return nil
	}
	if port == 0 {
		port = 6379
	}

	addr := fmt.Sprintf("%s:%d", host, port)
	client := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		Password:     conf.RedisConfig.Password,
		DB:           conf.RedisConfig.DB,
		PoolSize:     conf.RedisConfig.PoolSize,
		MinIdleConns: conf.RedisConfig.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		zlog.Error("Redis 连接失败", zap.String("addr", addr), zap.Error(err))
		_ = client.Close()
		return nil
	}
	zlog.Info("Redis 连接成功", zap.String("addr", addr))
	return client
}
