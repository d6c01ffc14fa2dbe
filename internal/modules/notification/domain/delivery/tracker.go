package delivery

import "time"

// State 单条提醒的投递记录
type State struct {
	Attempts      int        `gorm:"column:attempts;not null;default:0" json:"attempts"`
	LastAttemptAt *time.Time `gorm:"column:last_attempt_at" json:"lastAttemptAt,omitempty"`
	SentAt        *time.Time `gorm:"column:sent_at;index" json:"sentAt,omitempty"`
	LastError     *string    `gorm:"column:last_error;type:text" json:"lastError,omitempty"`
	ScheduledFor  time.Time  `gorm:"column:scheduled_for;index;not null" json:"scheduledFor"`
}

// Outcome 一次投递的结果
type Outcome struct {
	Success bool
	Error   string
}

func Succeeded() Outcome { return Outcome{Success: true} }

func Failed(err error) Outcome {
	if err == nil {
		return Outcome{Error: "unknown error"}
	}
	return Outcome{Error: err.Error()}
}

// RecordAttempt 记录一次投递尝试并返回新状态，入参不被修改
func RecordAttempt(s State, o Outcome, now time.Time) State {
	next := State{
		Attempts:     s.Attempts + 1,
		ScheduledFor: s.ScheduledFor,
		SentAt:       copyTime(s.SentAt),
		LastError:    copyString(s.LastError),
	}
	at := now
	next.LastAttemptAt = &at

	if o.Success {
		sent := now
		next.SentAt = &sent
		next.LastError = nil
		return next
	}
	msg := o.Error
	next.LastError = &msg
	return next
}

// IsEligibleForRetry 已送达或次数用尽后永远返回 false；退避节奏由调度方负责
func IsEligibleForRetry(s State, maxAttempts int, _ time.Time) bool {
	if s.SentAt != nil {
		return false
	}
	return s.Attempts < maxAttempts
}

// Delivered 是否已送达
func (s State) Delivered() bool {
	return s.SentAt != nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
