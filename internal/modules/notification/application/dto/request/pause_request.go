package request

import "time"

// PauseRequest 开始暂停。endAt 与 durationHours 二选一，都不传表示无限期
type PauseRequest struct {
	StartAt       *time.Time `json:"startAt"`
	EndAt         *time.Time `json:"endAt"`
	DurationHours *int       `json:"durationHours"`
	Reason        *string    `json:"reason"`
}
