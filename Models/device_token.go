package Models

import "time"

// DeviceToken is a push notification token registered by one of the user's devices.
type DeviceToken struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Value     string    `json:"value" gorm:"size:512;not null;uniqueIndex"`
	Platform  string    `json:"platform" gorm:"size:16"`
}

type RegisterDeviceRequest struct {
	Value    string `json:"value" validate:"required"`
	Platform string `json:"platform" validate:"omitempty,oneof=android ios web"`
}
