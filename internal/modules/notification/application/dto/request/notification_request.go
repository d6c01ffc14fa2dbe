package request

type SubmitNotificationRequest struct {
	UserId           string `json:"userId"`
	NotificationType string `json:"notificationType" binding:"required"`
	Urgency          string `json:"urgency"`
	Title            string `json:"title" binding:"required"`
	Content          string `json:"content"`
	Link             string `json:"link"`
}

type MarkReadRequest struct {
	NotificationId string `json:"notificationId" binding:"required"`
}
