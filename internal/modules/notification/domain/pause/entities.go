package pause

import (
	"strings"
	"time"

	"ReviewHub/internal/modules/notification/domain/errs"
)

// State 暂停窗口在某一时刻的有效状态
type State int

const (
	StateNone              State = iota // 无暂停
	StateActiveIndefinite               // 无结束时间
	StateActiveBounded                  // 有结束时间且未到期
	StateExpiredBounded                 // 已到期但库里 active 仍为 true，下次读取时收敛为 StateNone
)

func (s State) String() string {
	switch s {
	case StateActiveIndefinite:
		return "active_indefinite"
	case StateActiveBounded:
		return "active_bounded"
	case StateExpiredBounded:
		return "expired_bounded"
	default:
		return "none"
	}
}

// PauseWindow 用户通知暂停窗口，每个用户至多一行
type PauseWindow struct {
	Id        int64      `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	UserId    string     `gorm:"column:user_id;type:varchar(64);uniqueIndex;not null" json:"userId"`
	Active    bool       `gorm:"column:active;not null" json:"active"`
	StartAt   time.Time  `gorm:"column:start_at;not null" json:"startAt"`
	EndAt     *time.Time `gorm:"column:end_at" json:"endAt,omitempty"`
	Reason    *string    `gorm:"column:reason;type:varchar(255)" json:"reason,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"column:updated_at" json:"updatedAt"`
}

func (PauseWindow) TableName() string {
	return "notification_pause"
}

// NewWindow 构造新的暂停窗口；end 存在时必须严格晚于 start
func NewWindow(userID string, start time.Time, end *time.Time, reason *string) (*PauseWindow, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errs.Validation("userId", "userId is required")
	}
	if start.IsZero() {
		return nil, errs.Validation("startAt", "start is required")
	}
	if end != nil && !end.After(start) {
		return nil, errs.Validation("endAt", "end must be after start")
	}

	w := &PauseWindow{
		UserId:  userID,
		Active:  true,
		StartAt: start.UTC(),
	}
	if end != nil {
		e := end.UTC()
		w.EndAt = &e
	}
	if reason != nil {
		r := strings.TrimSpace(*reason)
		if r != "" {
			w.Reason = &r
		}
	}
	return w, nil
}

// StateAt 计算窗口在 now 的状态
func StateAt(w *PauseWindow, now time.Time) State {
	if w == nil || !w.Active {
		return StateNone
	}
	if w.EndAt == nil {
		return StateActiveIndefinite
	}
	if !now.Before(*w.EndAt) {
		return StateExpiredBounded
	}
	return StateActiveBounded
}

// IsEffectivelyActive 惰性过期：到期的窗口即使 active 仍为 true 也视为未暂停
func IsEffectivelyActive(w *PauseWindow, now time.Time) bool {
	switch StateAt(w, now) {
	case StateActiveIndefinite, StateActiveBounded:
		return true
	}
	return false
}

// NeedsExpiry 库中标记仍为 active 但已到期，需要回写
func NeedsExpiry(w *PauseWindow, now time.Time) bool {
	return StateAt(w, now) == StateExpiredBounded
}
