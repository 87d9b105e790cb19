package domain

import "time"

// NotificationPriority is derived from alert severity at emission time.
type NotificationPriority string

const (
	PriorityUrgent NotificationPriority = "URGENT"
	PriorityHigh   NotificationPriority = "HIGH"
	PriorityMedium NotificationPriority = "MEDIUM"
)

// PriorityFor maps alert severity to notification priority. The mapping is
// total over the severity enum.
func PriorityFor(s Severity) NotificationPriority {
	switch s {
	case SeverityCritical:
		return PriorityUrgent
	case SeverityWarning:
		return PriorityHigh
	case SeverityInfo:
		return PriorityMedium
	}
	return PriorityMedium
}

type NotificationType string

const NotificationTypeAlert NotificationType = "ALERT"

// Notification is a recipient-facing message with its own read/unread
// lifecycle, independent of the alert that produced it.
type Notification struct {
	NotificationID string               `json:"id" dynamodbav:"notification_id"`
	UserID         string               `json:"user_id" dynamodbav:"user_id"`
	PartnerID      string               `json:"partner_id" dynamodbav:"partner_id"`
	Title          string               `json:"title" dynamodbav:"title"`
	Message        string               `json:"message" dynamodbav:"message"`
	Type           NotificationType     `json:"type" dynamodbav:"notification_type"`
	Priority       NotificationPriority `json:"priority" dynamodbav:"priority"`
	Read           bool                 `json:"read" dynamodbav:"read"`
	CreatedAt      time.Time            `json:"created_at" dynamodbav:"created_at"`
}
