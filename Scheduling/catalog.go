package Scheduling

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"HomeList/Models"

	"github.com/yosuke-furukawa/json5/encoding/json5"
)

//go:embed catalog.json5
var defaultCatalog []byte

// CatalogEntry is one template as written in a catalog file. Pointer fields
// distinguish "not given" from false so defaults can be filled in.
type CatalogEntry struct {
	Key              string       `json:"task_key"`
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	Category         string       `json:"category"`
	Priority         string       `json:"priority"`
	FrequencyDays    int          `json:"frequency_days"`
	Requires         *Requirement `json:"requires"`
	Seasonal         *bool        `json:"seasonal"`
	AnchorType       string       `json:"seasonal_anchor_type"`
	SeasonCode       string       `json:"season_code"`
	AnchorMonth      int          `json:"season_anchor_month"`
	AnchorDay        int          `json:"season_anchor_day"`
	OverlapGroup     string       `json:"overlap_group"`
	VariantRank      int          `json:"variant_rank"`
	EstimatedMinutes int          `json:"estimated_minutes"`
	Professional     bool         `json:"professional"`
	SafetyCritical   *bool        `json:"safety_critical"`
	Active           *bool        `json:"active"`
}

// LoadCatalog reads a json5 catalog from path, or the built-in catalog when
// path is empty.
func LoadCatalog(path string) ([]CatalogEntry, error) {
	data := defaultCatalog
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		data = b
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes, enriches and validates a json5 catalog.
func ParseCatalog(data []byte) ([]CatalogEntry, error) {
	var entries []CatalogEntry
	if err := json5.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	EnrichDefaults(entries)

	seen := make(map[string]bool, len(entries))
	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			return nil, fmt.Errorf("catalog entry %d (%s): %w", i, entries[i].Key, err)
		}
		if seen[entries[i].Key] {
			return nil, fmt.Errorf("catalog entry %d: duplicate task_key %q", i, entries[i].Key)
		}
		seen[entries[i].Key] = true
	}
	return entries, nil
}

func (e CatalogEntry) Validate() error {
	if strings.TrimSpace(e.Key) == "" {
		return fmt.Errorf("task_key is required")
	}
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if e.FrequencyDays <= 0 {
		return fmt.Errorf("frequency_days must be positive")
	}
	if !Models.ValidPriority(e.Priority) {
		return fmt.Errorf("priority must be one of none, low, medium, high")
	}
	if e.isSeasonal() {
		switch e.AnchorType {
		case "":
		case Models.AnchorFixedDate:
			if !ValidMonthDay(e.AnchorMonth, e.AnchorDay) {
				return fmt.Errorf("invalid anchor date %d/%d", e.AnchorMonth, e.AnchorDay)
			}
		case Models.AnchorSeasonStart:
			if _, ok := SeasonStarts[e.SeasonCode]; !ok {
				return fmt.Errorf("unknown season_code %q", e.SeasonCode)
			}
		default:
			return fmt.Errorf("unknown seasonal_anchor_type %q", e.AnchorType)
		}
	}
	if e.VariantRank < 0 {
		return fmt.Errorf("variant_rank must not be negative")
	}
	return e.Requires.Validate()
}

func (e CatalogEntry) isSeasonal() bool {
	return e.Seasonal != nil && *e.Seasonal
}

// Template converts the entry into its database row.
func (e CatalogEntry) Template() (Models.TaskTemplate, error) {
	req, err := EncodeRequirement(e.Requires)
	if err != nil {
		return Models.TaskTemplate{}, err
	}
	active := true
	if e.Active != nil {
		active = *e.Active
	}
	return Models.TaskTemplate{
		Key:                e.Key,
		Title:              e.Title,
		Description:        e.Description,
		Category:           e.Category,
		Priority:           e.Priority,
		FrequencyDays:      e.FrequencyDays,
		FeatureRequirement: req,
		Seasonal:           e.isSeasonal(),
		AnchorType:         e.AnchorType,
		SeasonCode:         e.SeasonCode,
		AnchorMonth:        e.AnchorMonth,
		AnchorDay:          e.AnchorDay,
		OverlapGroup:       e.OverlapGroup,
		VariantRank:        e.VariantRank,
		EstimatedMinutes:   e.EstimatedMinutes,
		Professional:       e.Professional,
		SafetyCritical:     e.SafetyCritical != nil && *e.SafetyCritical,
		Active:             active,
	}, nil
}
