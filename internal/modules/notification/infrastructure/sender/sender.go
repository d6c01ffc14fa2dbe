package sender

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"ReviewHub/internal/modules/notification/domain/notification"
	"ReviewHub/internal/modules/notification/domain/reminder"
	"ReviewHub/internal/modules/notification/infrastructure/mq"
)

const (
	EventNotification = "notification"
	EventReminder     = "reminder"
	EventPause        = "pause"
)

// Pusher 在线推送通道，由 ws.Hub 实现
type Pusher interface {
	Push(userID string, eventType string, data interface{}) bool
}

type Config struct {
	NotificationTopic string
	ReminderTopic     string
}

// Sender 先写 Kafka（邮件等下游消费），再尽力推送在线连接。
// Kafka 写失败即视为投递失败，在线推送失败不影响结果。
type Sender struct {
	pub    mq.Publisher
	pusher Pusher
	cfg    Config
}

func New(pub mq.Publisher, pusher Pusher, cfg Config) *Sender {
	if pub == nil {
		pub = mq.NewNopPublisher()
	}
	return &Sender{pub: pub, pusher: pusher, cfg: cfg}
}

type notificationEvent struct {
	NotificationId string    `json:"notificationId"`
	UserId         string    `json:"userId"`
	Type           string    `json:"type"`
	Urgency        string    `json:"urgency"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Link           string    `json:"link,omitempty"`
	EmailEnabled   bool      `json:"emailEnabled"`
	CreatedAt      time.Time `json:"createdAt"`
}

type reminderEvent struct {
	ReminderId   string    `json:"reminderId"`
	UserId       string    `json:"userId"`
	Type         string    `json:"type"`
	Urgency      string    `json:"urgency"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	Attempt      int       `json:"attempt"`
	ScheduledFor time.Time `json:"scheduledFor"`
	EmailEnabled bool      `json:"emailEnabled"`
}

func (s *Sender) SendNotification(ctx context.Context, n *notification.Notification, emailEnabled bool) error {
	ev := notificationEvent{
		NotificationId: n.NotificationId,
		UserId:         n.UserId,
		Type:           n.Type,
		Urgency:        n.Urgency,
		Title:          n.Title,
		Content:        n.Content,
		Link:           n.Link,
		EmailEnabled:   emailEnabled,
		CreatedAt:      n.CreatedAt,
	}
	if err := s.publish(ctx, s.cfg.NotificationTopic, n.UserId, EventNotification, ev); err != nil {
		return err
	}
	if s.pusher != nil {
		s.pusher.Push(n.UserId, EventNotification, ev)
	}
	return nil
}

func (s *Sender) SendReminder(ctx context.Context, r *reminder.Reminder, emailEnabled bool) error {
	ev := reminderEvent{
		ReminderId:   r.ReminderId,
		UserId:       r.UserId,
		Type:         r.NotificationType,
		Urgency:      r.Urgency,
		Title:        r.Title,
		Message:      r.Message,
		Attempt:      r.Delivery.Attempts + 1,
		ScheduledFor: r.Delivery.ScheduledFor,
		EmailEnabled: emailEnabled,
	}
	if err := s.publish(ctx, s.cfg.ReminderTopic, r.UserId, EventReminder, ev); err != nil {
		return err
	}
	if s.pusher != nil {
		s.pusher.Push(r.UserId, EventReminder, ev)
	}
	return nil
}

// PushPauseChanged 暂停状态变化只做在线推送
func (s *Sender) PushPauseChanged(userID string, data interface{}) {
	if s.pusher != nil {
		s.pusher.Push(userID, EventPause, data)
	}
}

func (s *Sender) publish(ctx context.Context, topic, userID, eventType string, v interface{}) error {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = s.pub.Publish(ctx, mq.Message{
		Topic: topic,
		Key:   []byte(userID),
		Value: b,
		Headers: map[string]string{
			"event_type": eventType,
			"user_id":    userID,
		},
	})
	return err
}
