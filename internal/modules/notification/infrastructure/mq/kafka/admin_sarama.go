package kafka

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/IBM/sarama"
)

type TopicAdminConfig struct {
	Brokers           []string
	ClientID          string
	Partitions        int32
	ReplicationFactor int16
	Retention         time.Duration
}

// topicDetail 缺省值：单分区单副本，保留 7 天，足够下游邮件服务追上积压
func topicDetail(cfg TopicAdminConfig) *sarama.TopicDetail {
	partitions := cfg.Partitions
	if partitions <= 0 {
		partitions = 1
	}
	rf := cfg.ReplicationFactor
	if rf <= 0 {
		rf = 1
	}
	retention := cfg.Retention
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}
	ms := strconv.FormatInt(retention.Milliseconds(), 10)
	return &sarama.TopicDetail{
		NumPartitions:     partitions,
		ReplicationFactor: rf,
		ConfigEntries: map[string]*string{
			"retention.ms": &ms,
		},
	}
}

// EnsureTopics 创建缺失的 topic，已存在的跳过；空名字忽略
func EnsureTopics(cfg TopicAdminConfig, topics ...string) error {
	if len(cfg.Brokers) == 0 {
		return errors.New("kafka brokers is empty")
	}

	sc := sarama.NewConfig()
	sc.Version = sarama.V2_8_0_0
	sc.ClientID = strings.TrimSpace(cfg.ClientID)

	admin, err := sarama.NewClusterAdmin(cfg.Brokers, sc)
	if err != nil {
		return err
	}
	defer admin.Close()

	existing, err := admin.ListTopics()
	if err != nil {
		return err
	}
	for _, topic := range topics {
		topic = strings.TrimSpace(topic)
		if topic == "" {
			continue
		}
		if _, ok := existing[topic]; ok {
			continue
		}
		if err := admin.CreateTopic(topic, topicDetail(cfg), false); err != nil {
			if errors.Is(err, sarama.ErrTopicAlreadyExists) {
				continue
			}
			return err
		}
	}
	return nil
}
