package preference

import (
	"encoding/json"
	"fmt"
	"strings"

	"ReviewHub/internal/modules/notification/domain/errs"

	"gorm.io/datatypes"
)

// TypeSettingPatch 单个类型的局部更新，nil 字段保持不变
type TypeSettingPatch struct {
	Enabled         *bool      `json:"enabled"`
	Frequency       *Frequency `json:"frequency"`
	LeadDays        *int       `json:"leadDays"`
	SendHour        *string    `json:"sendHour"`
	IncludeWeekends *bool      `json:"includeWeekends"`
	IncludeHolidays *bool      `json:"includeHolidays"`
}

// Patch PUT 偏好时的局部更新
type Patch struct {
	Active         *bool                       `json:"active"`
	EmailEnabled   *bool                       `json:"emailEnabled"`
	MinimumUrgency *string                     `json:"minimumUrgency"`
	TypeSettings   map[string]TypeSettingPatch `json:"typeSettings"`
	ContentOptions json.RawMessage             `json:"contentOptions"`
	Filters        json.RawMessage             `json:"filters"`
}

// Apply 在副本上合并补丁并整体校验；失败时原对象不受影响
func (p *NotificationPreferences) Apply(patch Patch) (*NotificationPreferences, error) {
	next := p.Clone()

	if patch.Active != nil {
		next.Active = *patch.Active
	}
	if patch.EmailEnabled != nil {
		next.EmailEnabled = *patch.EmailEnabled
	}
	if patch.MinimumUrgency != nil {
		u, err := ParseUrgency(*patch.MinimumUrgency)
		if err != nil {
			return nil, errs.Validation("minimumUrgency", err.Error())
		}
		next.MinimumUrgency = u
	}
	for key, tp := range patch.TypeSettings {
		t, err := ParseNotificationType(key)
		if err != nil {
			return nil, errs.Validation("typeSettings", err.Error())
		}
		cur, _ := next.TypeSettings.Lookup(t)
		tp.applyTo(cur)
	}
	if patch.ContentOptions != nil {
		raw, err := jsonObject("contentOptions", patch.ContentOptions)
		if err != nil {
			return nil, err
		}
		next.ContentOptions = raw
	}
	if patch.Filters != nil {
		raw, err := jsonObject("filters", patch.Filters)
		if err != nil {
			return nil, err
		}
		next.Filters = raw
	}

	if err := next.Validate(); err != nil {
		return nil, err
	}
	return next, nil
}

func (tp TypeSettingPatch) applyTo(s *TypeSetting) {
	if tp.Enabled != nil {
		s.Enabled = *tp.Enabled
	}
	if tp.Frequency != nil {
		s.Frequency = *tp.Frequency
	}
	if tp.LeadDays != nil {
		v := *tp.LeadDays
		s.LeadDays = &v
	}
	if tp.SendHour != nil {
		s.SendHour = strings.TrimSpace(*tp.SendHour)
	}
	if tp.IncludeWeekends != nil {
		s.IncludeWeekends = *tp.IncludeWeekends
	}
	if tp.IncludeHolidays != nil {
		s.IncludeHolidays = *tp.IncludeHolidays
	}
}

// contentOptions / filters 原样透传，只要求是 JSON 对象
func jsonObject(field string, raw json.RawMessage) (datatypes.JSON, error) {
	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil, errs.Validation(field, fmt.Sprintf("%s must be a JSON object", field))
	}
	return datatypes.JSON(append([]byte(nil), raw...)), nil
}
