package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification status values kept in the status cache.
const (
	StatusPending = "pending"
	StatusSent    = "sent"
)

// Notification represents a queued push reminder.
type Notification struct {
	ID        uuid.UUID  `json:"id"`         // unique identifier, assigned by the store
	UserID    uuid.UUID  `json:"user_id"`    // owning subscriber
	EventID   *uuid.UUID `json:"event_id"`   // originating event, may point at a deleted row
	Title     string     `json:"title"`      // push title
	Body      string     `json:"body"`       // push body, e.g. "Due in 5 hours"
	SendAt    time.Time  `json:"send_at"`    // UTC instant at which the reminder becomes due
	Sent      bool       `json:"sent"`       // false until the dispatcher commits delivery
	SentAt    *time.Time `json:"sent_at"`    // set once, together with Sent
	CreatedAt time.Time  `json:"created_at"` // timestamp when the reminder was queued
}

// Status returns the cache representation of the delivery state.
func (n Notification) Status() string {
	if n.Sent {
		return StatusSent
	}

	return StatusPending
}

// DueNotification is a pending notification joined with the subscriber's
// current device token. DeviceToken is nil when the profile has none.
type DueNotification struct {
	Notification
	DeviceToken *string `json:"-"`
}
