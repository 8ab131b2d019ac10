package notification

import "time"

type NotificationType string

const (
	TypeLeaveRequested NotificationType = "leave_requested"
	TypeLeaveApproved  NotificationType = "leave_approved"
	TypeLeaveRejected  NotificationType = "leave_rejected"
)

// Notification is a best-effort message to one employee. Nothing is persisted.
type Notification struct {
	ID          string
	RecipientID string
	SenderID    *string
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]interface{}
	CreatedAt   time.Time
}
