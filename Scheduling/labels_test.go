package Scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDueLabel(t *testing.T) {
	today := date(t, "2025-05-10")
	assert.Equal(t, "Today", DueLabel(today, today))
	assert.Equal(t, "3 days ago", DueLabel(date(t, "2025-05-07"), today))
	assert.Equal(t, "2025-05-11", DueLabel(date(t, "2025-05-11"), today))
	assert.Equal(t, "-", DueLabel(time.Time{}, today))
}

func TestFrequencyLabel(t *testing.T) {
	tests := map[int]string{
		1:    "Daily",
		7:    "Weekly",
		14:   "Every 2 Weeks",
		30:   "Monthly",
		33:   "Monthly",
		88:   "Every 3 Months",
		365:  "Yearly",
		360:  "Yearly",
		372:  "Every 1 Year",
		1100: "Every 3 Years",
		5475: "Every 15 Years",
		150:  "Every 5 Months",
		152:  "Every 5 Months",
		35:   "Monthly",
		42:   "Every 6 Weeks",
		10:   "Every 10 days",
		3:    "Every 3 days",
	}
	for days, want := range tests {
		assert.Equal(t, want, FrequencyLabel(days), "days=%d", days)
	}
}
