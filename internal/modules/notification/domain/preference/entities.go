package preference

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
)

// TypeSetting 单个通知类型的设置
type TypeSetting struct {
	Enabled         bool      `json:"enabled"`
	Frequency       Frequency `json:"frequency"`
	LeadDays        *int      `json:"leadDays,omitempty"`
	SendHour        string    `json:"sendHour,omitempty"` // HH:MM，空表示不限定
	IncludeWeekends bool      `json:"includeWeekends"`
	IncludeHolidays bool      `json:"includeHolidays"`
}

func (s TypeSetting) clone() TypeSetting {
	out := s
	if s.LeadDays != nil {
		v := *s.LeadDays
		out.LeadDays = &v
	}
	return out
}

// TypeSettings 每种通知类型各一份设置，字段与 AllTypes 一一对应
type TypeSettings struct {
	PendingReview     TypeSetting `json:"pending-review"`
	OverdueReview     TypeSetting `json:"overdue-review"`
	ReviewDueSoon     TypeSetting `json:"review-due-soon"`
	NewReviewReceived TypeSetting `json:"new-review-received"`
	ReviewCompleted   TypeSetting `json:"review-completed"`
	CustomReminder    TypeSetting `json:"custom-reminder"`
}

// Lookup 按类型取设置，未知类型返回 false
func (s *TypeSettings) Lookup(t NotificationType) (*TypeSetting, bool) {
	switch t {
	case TypePendingReview:
		return &s.PendingReview, true
	case TypeOverdueReview:
		return &s.OverdueReview, true
	case TypeReviewDueSoon:
		return &s.ReviewDueSoon, true
	case TypeNewReviewReceived:
		return &s.NewReviewReceived, true
	case TypeReviewCompleted:
		return &s.ReviewCompleted, true
	case TypeCustomReminder:
		return &s.CustomReminder, true
	}
	return nil, false
}

func (s TypeSettings) clone() TypeSettings {
	return TypeSettings{
		PendingReview:     s.PendingReview.clone(),
		OverdueReview:     s.OverdueReview.clone(),
		ReviewDueSoon:     s.ReviewDueSoon.clone(),
		NewReviewReceived: s.NewReviewReceived.clone(),
		ReviewCompleted:   s.ReviewCompleted.clone(),
		CustomReminder:    s.CustomReminder.clone(),
	}
}

// Value 以 JSON 文本落库
func (s TypeSettings) Value() (driver.Value, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *TypeSettings) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = DefaultTypeSettings()
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("type_settings: unsupported column type")
	}
	// 以默认值为底解码，旧数据缺失的类型键保持默认开启
	merged := DefaultTypeSettings()
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &merged); err != nil {
			return err
		}
	}
	*s = merged
	return nil
}

// NotificationPreferences 用户通知偏好，每个用户一行，只重置不删除
type NotificationPreferences struct {
	Id             int64          `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	UserId         string         `gorm:"column:user_id;type:varchar(64);uniqueIndex;not null" json:"userId"`
	Active         bool           `gorm:"column:active;not null" json:"active"`
	EmailEnabled   bool           `gorm:"column:email_enabled;not null" json:"emailEnabled"`
	MinimumUrgency Urgency        `gorm:"column:minimum_urgency;type:varchar(10);not null" json:"minimumUrgency"`
	TypeSettings   TypeSettings   `gorm:"column:type_settings;type:text;not null" json:"typeSettings"`
	ContentOptions datatypes.JSON `gorm:"column:content_options" json:"contentOptions,omitempty"`
	Filters        datatypes.JSON `gorm:"column:filters" json:"filters,omitempty"`
	Version        int64          `gorm:"column:version;not null" json:"version"`
	CreatedAt      time.Time      `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt      time.Time      `gorm:"column:updated_at" json:"updatedAt"`
}

func (NotificationPreferences) TableName() string {
	return "notification_preferences"
}

// Clone 深拷贝，解析器与补丁合并都只在副本上操作
func (p *NotificationPreferences) Clone() *NotificationPreferences {
	if p == nil {
		return nil
	}
	out := *p
	out.TypeSettings = p.TypeSettings.clone()
	if p.ContentOptions != nil {
		out.ContentOptions = append(datatypes.JSON(nil), p.ContentOptions...)
	}
	if p.Filters != nil {
		out.Filters = append(datatypes.JSON(nil), p.Filters...)
	}
	return &out
}
