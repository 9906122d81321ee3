package model

import "github.com/google/uuid"

// Event is the producer-side description of something to be reminded about.
//
// DueDate and DueTime are wall-clock strings ("2025-03-10", "10:00") in the
// configured reminder timezone.
type Event struct {
	ID            *uuid.UUID  `json:"event_id"`
	Title         string      `json:"title"`
	DueDate       string      `json:"due_date"`
	DueTime       string      `json:"due_time"`
	IsPublic      bool        `json:"is_public"`
	SubscriberIDs []uuid.UUID `json:"subscriber_ids"`
}
