package request

// CheckPreferenceRequest 查询某类通知此刻能否发送
type CheckPreferenceRequest struct {
	NotificationType string `json:"notificationType" binding:"required"`
	Urgency          string `json:"urgency" binding:"required"`
}
