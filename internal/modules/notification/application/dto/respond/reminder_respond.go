package respond

import "time"

type ReminderItem struct {
	ReminderId       string     `json:"reminderId"`
	Title            string     `json:"title"`
	Message          string     `json:"message"`
	NotificationType string     `json:"notificationType"`
	Urgency          string     `json:"urgency"`
	ScheduledFor     time.Time  `json:"scheduledFor"`
	Attempts         int        `json:"attempts"`
	LastAttemptAt    *time.Time `json:"lastAttemptAt,omitempty"`
	SentAt           *time.Time `json:"sentAt,omitempty"`
	LastError        *string    `json:"lastError,omitempty"`
	NextCheckAt      *time.Time `json:"nextCheckAt,omitempty"`
	Status           string     `json:"status"` // pending | sent | failed
}
