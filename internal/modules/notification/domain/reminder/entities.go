package reminder

import (
	"time"

	"ReviewHub/internal/modules/notification/domain/delivery"
)

// Reminder 用户或系统创建的定时提醒
type Reminder struct {
	Id               int64          `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	ReminderId       string         `gorm:"column:reminder_id;type:char(32);uniqueIndex;not null" json:"reminderId"`
	UserId           string         `gorm:"column:user_id;type:varchar(64);index;not null" json:"userId"`
	Title            string         `gorm:"column:title;type:varchar(200);not null" json:"title"`
	Message          string         `gorm:"column:message;type:text" json:"message"`
	NotificationType string         `gorm:"column:notification_type;type:varchar(30);not null" json:"notificationType"`
	Urgency          string         `gorm:"column:urgency;type:varchar(10);not null" json:"urgency"`
	Delivery         delivery.State `gorm:"embedded" json:"delivery"`
	// NextCheckAt 被偏好或暂停拦截后的下次检查时间，为空表示随到期扫描
	NextCheckAt      *time.Time     `gorm:"column:next_check_at;index" json:"nextCheckAt,omitempty"`
	CreatedAt        time.Time      `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt        time.Time      `gorm:"column:updated_at" json:"updatedAt"`
}

func (Reminder) TableName() string {
	return "reminder"
}
