package request

import "time"

type CreateReminderRequest struct {
	Title            string    `json:"title" binding:"required"`
	Message          string    `json:"message"`
	NotificationType string    `json:"notificationType"`
	Urgency          string    `json:"urgency"`
	ScheduledFor     time.Time `json:"scheduledFor"`
}
