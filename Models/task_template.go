package Models

import (
	"time"

	"gorm.io/datatypes"
)

// TaskTemplate is a catalog entry describing a recurring maintenance action.
// FeatureRequirement holds the JSON encoded requirement tree; null means the
// template applies to every home.
type TaskTemplate struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Key                string         `json:"task_key" gorm:"column:task_key;size:100;not null;uniqueIndex"`
	Title              string         `json:"title" gorm:"size:255;not null"`
	Description        string         `json:"description" gorm:"type:text"`
	Category           string         `json:"category" gorm:"size:64"`
	Priority           string         `json:"priority" gorm:"size:10"`
	FrequencyDays      int            `json:"frequency_days" gorm:"not null"`
	FeatureRequirement datatypes.JSON `json:"feature_requirement"`

	Seasonal    bool   `json:"seasonal"`
	AnchorType  string `json:"seasonal_anchor_type" gorm:"column:seasonal_anchor_type;size:16"`
	SeasonCode  string `json:"season_code" gorm:"size:16"`
	AnchorMonth int    `json:"season_anchor_month" gorm:"column:season_anchor_month"`
	AnchorDay   int    `json:"season_anchor_day" gorm:"column:season_anchor_day"`

	OverlapGroup     string `json:"overlap_group" gorm:"size:64"`
	VariantRank      int    `json:"variant_rank"`
	EstimatedMinutes int    `json:"estimated_minutes"`
	Professional     bool   `json:"professional"`
	SafetyCritical   bool   `json:"safety_critical"`
	Active           bool   `json:"active" gorm:"not null"`
}

func (TaskTemplate) TableName() string { return "task_templates" }
