package model

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the subscriber record owned by the account system.
type Profile struct {
	ID          uuid.UUID `json:"id"`
	DeviceToken *string   `json:"-"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Preference holds a subscriber's reminder lead times in hours.
type Preference struct {
	UserID    uuid.UUID `json:"user_id"`
	Offsets   []float64 `json:"offsets"`
	UpdatedAt time.Time `json:"updated_at"`
}
