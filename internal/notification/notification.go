package notification

import (
	"time"

	"github.com/google/uuid"
)

type DeviceToken struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Token     string    `json:"token"`
	Platform  string    `json:"platform"`
	CreatedAt time.Time `json:"created_at"`
}

type Preferences struct {
	UserID           uuid.UUID `json:"user_id"`
	RemindersEnabled bool      `json:"reminders_enabled"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type RegisterDeviceRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

type UpdatePreferencesRequest struct {
	RemindersEnabled bool `json:"remindersEnabled"`
}
