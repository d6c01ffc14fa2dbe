package notification

import "time"

const (
	// 通知状态
	StatusPending    = 0 // 待推送
	StatusSent       = 1 // 已推送
	StatusSuppressed = 2 // 被偏好或暂停拦截
	StatusRead       = 3 // 已读
)

// Notification 站内通知，被拦截的也落库，reason 记录拒绝原因
type Notification struct {
	Id             int64      `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	NotificationId string     `gorm:"column:notification_id;type:char(32);uniqueIndex;not null" json:"notificationId"`
	UserId         string     `gorm:"column:user_id;type:varchar(64);index;not null" json:"userId"`
	Type           string     `gorm:"column:type;type:varchar(30);not null" json:"type"`
	Urgency        string     `gorm:"column:urgency;type:varchar(10);not null" json:"urgency"`
	Title          string     `gorm:"column:title;type:varchar(200)" json:"title"`
	Content        string     `gorm:"column:content;type:text" json:"content"`
	Link           string     `gorm:"column:link;type:varchar(255)" json:"link,omitempty"`
	Status         int8       `gorm:"column:status;type:tinyint;not null;index" json:"status"`
	Reason         string     `gorm:"column:reason;type:varchar(40)" json:"reason,omitempty"`
	SentAt         *time.Time `gorm:"column:sent_at" json:"sentAt,omitempty"`
	ReadAt         *time.Time `gorm:"column:read_at" json:"readAt,omitempty"`
	CreatedAt      time.Time  `gorm:"column:created_at;not null" json:"createdAt"`
}

func (Notification) TableName() string {
	return "notification"
}
