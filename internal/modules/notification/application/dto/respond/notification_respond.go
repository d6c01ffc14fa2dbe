package respond

import "time"

type NotificationItem struct {
	NotificationId string     `json:"notificationId"`
	Type           string     `json:"type"`
	Urgency        string     `json:"urgency"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	Link           string     `json:"link,omitempty"`
	Status         string     `json:"status"`
	Reason         string     `json:"reason,omitempty"`
	SentAt         *time.Time `json:"sentAt,omitempty"`
	ReadAt         *time.Time `json:"readAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

type NotificationListRespond struct {
	Items  []NotificationItem `json:"items"`
	Unread int64              `json:"unread"`
}
