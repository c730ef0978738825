package Scheduling

import (
	"strings"

	"HomeList/Models"
)

var safetySurfaces = []string{
	"smoke detector", "carbon monoxide", "co detector", "gfi", "gfci", "alarm",
	"natural gas", "leak", "dryer vent", "shutoff", "sump pump",
}

var safetyActions = []string{"test", "check", "inspect"}

// categoryKeywords is ordered; the first category with a matching keyword wins.
var categoryKeywords = []struct {
	name     string
	keywords []string
}{
	{"hvac", []string{"filter", "furnace", "air handler", "ac ", "a/c", "condenser", "registers"}},
	{"plumbing", []string{"water heater", "sink", "toilet", "leak", "softener", "septic", "sump", "shutoff"}},
	{"kitchen", []string{"dishwasher", "range hood", "refrigerator", "garbage disposal"}},
	{"exterior", []string{"gutters", "downspout", "deck", "patio", "fence", "garage door", "roof", "masonry", "brick"}},
	{"safety", []string{"smoke", "co ", "carbon monoxide", "alarm", "extinguisher", "gfi", "gfci", "fire "}},
	{"laundry", []string{"dryer", "lint", "washer"}},
}

// EnrichDefaults normalizes entries in place and fills in safety_critical,
// priority, category, seasonal and estimated_minutes when a catalog leaves
// them blank.
func EnrichDefaults(entries []CatalogEntry) {
	for i := range entries {
		e := &entries[i]
		e.Key = strings.TrimSpace(e.Key)
		e.Title = strings.TrimSpace(e.Title)
		e.Description = strings.TrimSpace(e.Description)
		e.Priority = Models.NormalizePriority(e.Priority)
		e.Category = strings.ToLower(strings.TrimSpace(e.Category))
		e.AnchorType = strings.ToLower(strings.TrimSpace(e.AnchorType))
		e.SeasonCode = strings.ToLower(strings.TrimSpace(e.SeasonCode))
		e.OverlapGroup = strings.TrimSpace(e.OverlapGroup)

		title := strings.ToLower(e.Title)

		if e.SafetyCritical == nil {
			critical := containsAny(title, safetySurfaces) && containsAny(title, safetyActions)
			e.SafetyCritical = &critical
		}
		if strings.Contains(title, "replace") && strings.Contains(title, "extinguisher") {
			critical := false
			e.SafetyCritical = &critical
		}

		if e.Priority == "" {
			switch {
			case *e.SafetyCritical:
				e.Priority = Models.PriorityHigh
			case strings.Contains(title, "filter") || strings.Contains(title, "gutters"):
				e.Priority = Models.PriorityMedium
			}
		}

		if e.Category == "" {
			for _, c := range categoryKeywords {
				if containsAny(title, c.keywords) {
					e.Category = c.name
					break
				}
			}
		}

		if e.Seasonal == nil {
			seasonal := e.SeasonCode != "" || e.AnchorType != "" ||
				containsAny(title, []string{"winterize", "spring", "fall ", "autumn"})
			e.Seasonal = &seasonal
		}

		if e.EstimatedMinutes <= 0 {
			e.EstimatedMinutes = EstimateMinutes(e.Priority, e.Category)
		}
	}
}

// EstimateMinutes guesses the effort of a task from its priority and category.
func EstimateMinutes(priority, category string) int {
	var base int
	switch strings.ToLower(priority) {
	case Models.PriorityHigh:
		base = 45
	case Models.PriorityMedium:
		base = 30
	default:
		base = 20
	}
	switch strings.ToLower(category) {
	case "exterior", "general house checks":
		base += 10
	case "safety", "logistics":
		base -= 10
		if base < 10 {
			base = 10
		}
	}
	return base
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
