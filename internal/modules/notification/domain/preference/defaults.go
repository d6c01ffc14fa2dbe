package preference

import (
	"gorm.io/datatypes"
)

const DefaultSendHour = "09:00"

func intPtr(v int) *int { return &v }

// DefaultTypeSettings 新用户的类型设置：全部开启
func DefaultTypeSettings() TypeSettings {
	return TypeSettings{
		PendingReview: TypeSetting{
			Enabled:   true,
			Frequency: FrequencyImmediate,
			LeadDays:  intPtr(1),
		},
		OverdueReview: TypeSetting{
			Enabled:   true,
			Frequency: FrequencyDaily,
			SendHour:  DefaultSendHour,
		},
		ReviewDueSoon: TypeSetting{
			Enabled:   true,
			Frequency: FrequencyImmediate,
			LeadDays:  intPtr(3),
		},
		NewReviewReceived: TypeSetting{Enabled: true, Frequency: FrequencyImmediate},
		ReviewCompleted:   TypeSetting{Enabled: true, Frequency: FrequencyImmediate},
		CustomReminder:    TypeSetting{Enabled: true, Frequency: FrequencyImmediate},
	}
}

// Default 首次访问时按默认值构造偏好
func Default(userID string) *NotificationPreferences {
	return &NotificationPreferences{
		UserId:         userID,
		Active:         true,
		EmailEnabled:   true,
		MinimumUrgency: UrgencyLow,
		TypeSettings:   DefaultTypeSettings(),
		ContentOptions: datatypes.JSON(`{}`),
		Filters:        datatypes.JSON(`{}`),
	}
}

// WithDefaults 把缺省字段补齐为默认值，返回副本。
// 读库、读缓存之后统一走这里，之后的逻辑不再判空。
func (p *NotificationPreferences) WithDefaults() *NotificationPreferences {
	if p == nil {
		return nil
	}
	out := p.Clone()
	if !out.MinimumUrgency.Valid() {
		out.MinimumUrgency = UrgencyLow
	}
	def := DefaultTypeSettings()
	for _, t := range AllTypes {
		cur, _ := out.TypeSettings.Lookup(t)
		d, _ := def.Lookup(t)
		if cur.Frequency == "" {
			cur.Frequency = d.Frequency
		}
	}
	if len(out.ContentOptions) == 0 {
		out.ContentOptions = datatypes.JSON(`{}`)
	}
	if len(out.Filters) == 0 {
		out.Filters = datatypes.JSON(`{}`)
	}
	return out
}
