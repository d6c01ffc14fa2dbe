package preference

import (
	"fmt"
	"regexp"

	"ReviewHub/internal/modules/notification/domain/errs"
)

var sendHourPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidSendHour 校验 24 小时制 HH:MM
func ValidSendHour(s string) bool {
	return sendHourPattern.MatchString(s)
}

// Validate 校验整份偏好，返回第一个不合法字段
func (p *NotificationPreferences) Validate() error {
	if !p.MinimumUrgency.Valid() {
		return errs.Validation("minimumUrgency", fmt.Sprintf("unknown urgency %q, expected low, medium or high", p.MinimumUrgency))
	}
	for _, t := range AllTypes {
		s, _ := p.TypeSettings.Lookup(t)
		if err := s.validate(t); err != nil {
			return err
		}
	}
	return nil
}

func (s *TypeSetting) validate(t NotificationType) error {
	field := "typeSettings." + string(t)
	if !s.Frequency.Valid() {
		return errs.Validation(field+".frequency", fmt.Sprintf("unknown frequency %q for %s", s.Frequency, t))
	}
	if s.LeadDays != nil && *s.LeadDays < 0 {
		return errs.Validation(field+".leadDays", fmt.Sprintf("leadDays for %s must be zero or greater", t))
	}
	if s.SendHour != "" && !ValidSendHour(s.SendHour) {
		return errs.Validation(field+".sendHour", fmt.Sprintf("sendHour for %s must be a 24-hour HH:MM time", t))
	}
	return nil
}
