package initial

import (
	"time"

	"ReviewHub/internal/config"
	"ReviewHub/internal/modules/notification/infrastructure/mq"
	"ReviewHub/internal/modules/notification/infrastructure/mq/kafka"
	"ReviewHub/pkg/zlog"

	"go.uber.org/zap"
)

// NewPublisher 未配置 broker 或连接失败时退化为空发布器，仅保留站内推送
func NewPublisher(conf *config.Config) mq.Publisher {
	kc := conf.KafkaConfig
	if len(kc.Brokers) == 0 {
		zlog.Info("Kafka 未配置，事件不会写入消息队列")
		return mq.NewNopPublisher()
	}

	err := kafka.EnsureTopics(kafka.TopicAdminConfig{
		Brokers:           kc.Brokers,
		ClientID:          kc.ClientID,
		Partitions:        kc.Partitions,
		ReplicationFactor: kc.ReplicationFactor,
		Retention:         time.Duration(kc.RetentionHours) * time.Hour,
	}, kc.NotificationTopic, kc.ReminderTopic)
	if err != nil {
		// 集群可能开启了自动建 topic，这里只告警
		zlog.Warn("Kafka topic 检查失败", zap.Error(err))
	}

	pub, err := kafka.NewSaramaPublisher(kafka.PublisherConfig{
		Brokers:  kc.Brokers,
		ClientID: kc.ClientID,
	})
	if err != nil {
		zlog.Error("Kafka 连接失败", zap.Strings("brokers", kc.Brokers), zap.Error(err))
		return mq.NewNopPublisher()
	}
	return pub
}
