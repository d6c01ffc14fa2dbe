package mq

import "context"

type Message struct {
	Topic   string
	Key     []byte
	Value   []byte
	Headers map[string]string
}

type PublishResult struct {
	Partition int32
	Offset    int64
}

// Publisher 通知与提醒事件的投递出口
type Publisher interface {
	Publish(ctx context.Context, msg Message) (PublishResult, error)
	Close() error
}

type nopPublisher struct{}

// NewNopPublisher 未配置 Kafka 时使用，发布直接成功
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, Message) (PublishResult, error) {
	return PublishResult{Partition: -1, Offset: -1}, nil
}

func (nopPublisher) Close() error { return nil }
