package preference

import (
	"fmt"
	"strings"

	"ReviewHub/internal/modules/notification/domain/errs"
)

// Urgency 通知紧急程度，low < medium < high
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Ordinal 返回序号，未知取值返回 -1
func (u Urgency) Ordinal() int {
	switch u {
	case UrgencyLow:
		return 0
	case UrgencyMedium:
		return 1
	case UrgencyHigh:
		return 2
	default:
		return -1
	}
}

func (u Urgency) Valid() bool {
	return u.Ordinal() >= 0
}

func ParseUrgency(s string) (Urgency, error) {
	u := Urgency(strings.ToLower(strings.TrimSpace(s)))
	if !u.Valid() {
		return "", errs.Validation("urgency", fmt.Sprintf("unknown urgency %q, expected low, medium or high", s))
	}
	return u, nil
}

// NotificationType 六种系统通知类型，集合封闭
type NotificationType string

const (
	TypePendingReview     NotificationType = "pending-review"
	TypeOverdueReview     NotificationType = "overdue-review"
	TypeReviewDueSoon     NotificationType = "review-due-soon"
	TypeNewReviewReceived NotificationType = "new-review-received"
	TypeReviewCompleted   NotificationType = "review-completed"
	TypeCustomReminder    NotificationType = "custom-reminder"
)

// AllTypes 按固定顺序列出全部通知类型
var AllTypes = []NotificationType{
	TypePendingReview,
	TypeOverdueReview,
	TypeReviewDueSoon,
	TypeNewReviewReceived,
	TypeReviewCompleted,
	TypeCustomReminder,
}

func (t NotificationType) Valid() bool {
	for _, k := range AllTypes {
		if k == t {
			return true
		}
	}
	return false
}

func ParseNotificationType(s string) (NotificationType, error) {
	t := NotificationType(strings.TrimSpace(s))
	if !t.Valid() {
		return "", errs.Validation("notificationType", fmt.Sprintf("unknown notification type %q", s))
	}
	return t, nil
}

// Frequency 发送频率
type Frequency string

const (
	FrequencyImmediate Frequency = "immediate"
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyBiweekly  Frequency = "biweekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyNever     Frequency = "never"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyImmediate, FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly, FrequencyNever:
		return true
	}
	return false
}
