package Models

import (
	"time"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Username     string    `json:"username" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"size:255;not null;uniqueIndex"`
	PasswordHash []byte    `json:"-" gorm:"not null"`
	IsAdmin      bool      `json:"is_admin" gorm:"not null;default:false"`

	// Onboarding metadata collected by the questionnaire
	Persona                  string     `json:"persona" gorm:"size:32"`
	TimeBudgetMinutesPerWeek *int       `json:"time_budget_minutes_per_week"`
	OnboardingStartedAt      *time.Time `json:"onboarding_started_at"`

	NotificationsOptOut bool `json:"notifications_opt_out" gorm:"not null;default:false"`

	HomeFeatures *HomeFeatures `json:"home_features,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Tasks        []Task        `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Devices      []DeviceToken `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// DisplayName falls back to a friendly greeting when the user never set a name.
func (u User) DisplayName() string {
	if u.Username == "" {
		return "there"
	}
	return u.Username
}
