package dto

import (
	"github.com/google/uuid"

	"github.com/aliskhannn/push-reminder/internal/model"
)

// ScheduleRequest is the body of POST /api/reminders and POST /api/events.
type ScheduleRequest struct {
	EventID       *uuid.UUID  `json:"event_id"`
	Title         string      `json:"title" validate:"required,max=200"`
	DueDate       string      `json:"due_date" validate:"required,datetime=2006-01-02"`
	DueTime       string      `json:"due_time" validate:"required"`
	IsPublic      bool        `json:"is_public"`
	SubscriberIDs []uuid.UUID `json:"subscriber_ids" validate:"required_unless=IsPublic true"`
	Offsets       []float64   `json:"offsets" validate:"omitempty,dive,gte=0"`
}

func (r ScheduleRequest) Event() model.Event {
	return model.Event{
		ID:            r.EventID,
		Title:         r.Title,
		DueDate:       r.DueDate,
		DueTime:       r.DueTime,
		IsPublic:      r.IsPublic,
		SubscriberIDs: r.SubscriberIDs,
	}
}

// PreferencesRequest carries offsets either as numbers or as the
// comma-separated text the settings page submits.
type PreferencesRequest struct {
	Offsets     []float64 `json:"offsets" validate:"omitempty,dive,gte=0"`
	OffsetsText string    `json:"offsets_text" validate:"max=1024"`
}

type DeviceTokenRequest struct {
	Token string `json:"token" validate:"required,max=4096"`
}

type ScheduleResponse struct {
	IDs []uuid.UUID `json:"ids"`
}

type StatusResponse struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

type PreferencesResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	Offsets     []float64 `json:"offsets"`
	OffsetsText string    `json:"offsets_text"`
}
