package respond

import "time"

// PauseStatusRespond 已应用惰性过期后的暂停状态
type PauseStatusRespond struct {
	Paused  bool       `json:"paused"`
	StartAt *time.Time `json:"startAt,omitempty"`
	Until   *time.Time `json:"until,omitempty"`
	Reason  *string    `json:"reason,omitempty"`
}

type ResumeRespond struct {
	Resumed bool                `json:"resumed"`
	Status  *PauseStatusRespond `json:"status"`
}
