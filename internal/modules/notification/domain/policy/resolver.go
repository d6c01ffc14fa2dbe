package policy

import (
	"time"

	"ReviewHub/internal/modules/notification/domain/pause"
	"ReviewHub/internal/modules/notification/domain/preference"
)

// DenyReason 拒绝原因
type DenyReason string

const (
	ReasonGloballyDisabled    DenyReason = "GLOBALLY_DISABLED"
	ReasonTypeDisabled        DenyReason = "TYPE_DISABLED"
	ReasonUrgencyBelowMinimum DenyReason = "URGENCY_BELOW_MINIMUM"
	ReasonPaused              DenyReason = "PAUSED"
)

// Request 一次发送判定的输入，Now 由调用方传入
type Request struct {
	Type    preference.NotificationType
	Urgency preference.Urgency
	Now     time.Time
}

// Decision 判定结果；Allowed 为 false 时 Reason 必有值
type Decision struct {
	Allowed bool       `json:"allowed"`
	Reason  DenyReason `json:"reasonCode,omitempty"`
}

func allow() Decision                 { return Decision{Allowed: true} }
func deny(reason DenyReason) Decision { return Decision{Allowed: false, Reason: reason} }

type rule func(p *preference.NotificationPreferences, w *pause.PauseWindow, req Request) (DenyReason, bool)

// 判定顺序：全局开关 -> 类型开关 -> 紧急程度 -> 暂停。
// 暂停放在最后，调用方可以区分“本来就不会发”和“被暂停压下”。
var rules = []rule{
	globalRule,
	typeRule,
	urgencyRule,
	pauseRule,
}

// Resolve 纯函数：不读时钟、不做 I/O、不修改入参
func Resolve(prefs *preference.NotificationPreferences, window *pause.PauseWindow, req Request) Decision {
	if prefs == nil {
		prefs = preference.Default("")
	}
	for _, r := range rules {
		if reason, denied := r(prefs, window, req); denied {
			return deny(reason)
		}
	}
	return allow()
}

func globalRule(p *preference.NotificationPreferences, _ *pause.PauseWindow, _ Request) (DenyReason, bool) {
	return ReasonGloballyDisabled, !p.Active
}

func typeRule(p *preference.NotificationPreferences, _ *pause.PauseWindow, req Request) (DenyReason, bool) {
	// Lookup 取的是快照字段的地址，这里只读
	s, ok := p.TypeSettings.Lookup(req.Type)
	if !ok {
		return ReasonTypeDisabled, true
	}
	return ReasonTypeDisabled, !s.Enabled
}

func urgencyRule(p *preference.NotificationPreferences, _ *pause.PauseWindow, req Request) (DenyReason, bool) {
	// 未知紧急程度序号为 -1，必然低于任何门槛
	return ReasonUrgencyBelowMinimum, req.Urgency.Ordinal() < p.MinimumUrgency.Ordinal()
}

func pauseRule(_ *preference.NotificationPreferences, w *pause.PauseWindow, req Request) (DenyReason, bool) {
	return ReasonPaused, pause.IsEffectivelyActive(w, req.Now)
}
