package kafka

import (
	"context"
	"testing"
	"time"

	"ReviewHub/internal/modules/notification/infrastructure/mq"

	"github.com/IBM/sarama"
)

func TestNewSaramaConfig(t *testing.T) {
	sc := newSaramaConfig("  reviewhub  ")
	if sc.ClientID != "reviewhub" {
		t.Errorf("ClientID = %q", sc.ClientID)
	}
	if !sc.Producer.Idempotent || sc.Net.MaxOpenRequests != 1 {
		t.Error("producer must be idempotent with a single in-flight request")
	}
	if sc.Producer.RequiredAcks != sarama.WaitForAll {
		t.Errorf("RequiredAcks = %v, want WaitForAll", sc.Producer.RequiredAcks)
	}
	if err := sc.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestNewSaramaPublisherRequiresBrokers(t *testing.T) {
	if _, err := NewSaramaPublisher(PublisherConfig{}); err == nil {
		t.Error("NewSaramaPublisher() without brokers should fail")
	}
}

func TestEnsureTopicsRequiresBrokers(t *testing.T) {
	if err := EnsureTopics(TopicAdminConfig{}, "reviewhub.reminder"); err == nil {
		t.Error("EnsureTopics() without brokers should fail")
	}
}

func TestTopicDetailDefaults(t *testing.T) {
	td := topicDetail(TopicAdminConfig{})
	if td.NumPartitions != 1 || td.ReplicationFactor != 1 {
		t.Errorf("detail = %+v", td)
	}
	if v := td.ConfigEntries["retention.ms"]; v == nil || *v != "604800000" {
		t.Errorf("retention.ms = %v", v)
	}

	td = topicDetail(TopicAdminConfig{Partitions: 6, ReplicationFactor: 3, Retention: time.Hour})
	if td.NumPartitions != 6 || td.ReplicationFactor != 3 || *td.ConfigEntries["retention.ms"] != "3600000" {
		t.Errorf("detail = %+v", td)
	}
}

func TestPublishCanceledContext(t *testing.T) {
	p := &saramaPublisher{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Publish(ctx, mq.Message{Topic: "t"}); err == nil {
		t.Error("Publish() on canceled context should fail")
	}
}

func TestToProducerMessage(t *testing.T) {
	m := toProducerMessage(mq.Message{
		Topic: "reviewhub.notification",
		Key:   []byte("u1"),
		Value: []byte(`{"a":1}`),
		Headers: map[string]string{
			"event_type": "notification",
			"  ":         "dropped",
		},
	})
	if m.Topic != "reviewhub.notification" {
		t.Errorf("Topic = %q", m.Topic)
	}
	key, _ := m.Key.Encode()
	if string(key) != "u1" {
		t.Errorf("Key = %q", key)
	}
	if len(m.Headers) != 1 || string(m.Headers[0].Key) != "event_type" {
		t.Errorf("Headers = %+v", m.Headers)
	}
}

func TestEmptyClientIDKeepsSaramaDefault(t *testing.T) {
	if sc := newSaramaConfig(""); sc.ClientID == "" {
		t.Error("ClientID should fall back to the sarama default")
	}
}
