package Services

import (
	"context"
	"fmt"
	"io"

	"HomeList/Models"
	"HomeList/Scheduling"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CatalogService struct {
	DB *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{DB: db}
}

type ImportReport struct {
	Imported int                   `json:"imported"`
	Rejected []Scheduling.RowError `json:"rejected,omitempty"`
}

// Seed upserts catalog entries into task_templates keyed by task_key.
// Templates missing from entries are left as they are.
func (s *CatalogService) Seed(ctx context.Context, entries []Scheduling.CatalogEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	templates := make([]Models.TaskTemplate, 0, len(entries))
	for _, e := range entries {
		tpl, err := e.Template()
		if err != nil {
			return 0, fmt.Errorf("template %s: %w", e.Key, err)
		}
		templates = append(templates, tpl)
	}

	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "task_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "description", "category", "priority", "frequency_days",
			"feature_requirement", "seasonal", "seasonal_anchor_type", "season_code",
			"season_anchor_month", "season_anchor_day", "overlap_group", "variant_rank",
			"estimated_minutes", "professional", "safety_critical", "active", "updated_at",
		}),
	}).CreateInBatches(&templates, 100).Error
	if err != nil {
		return 0, fmt.Errorf("seed templates: %w", err)
	}
	return len(templates), nil
}

// ImportCSV seeds every valid row of a catalog spreadsheet and reports the
// rows it rejected.
func (s *CatalogService) ImportCSV(ctx context.Context, r io.Reader) (ImportReport, error) {
	entries, rowErrs, err := Scheduling.ParseCatalogCSV(r)
	if err != nil {
		return ImportReport{}, &ValidationError{Field: "file", Message: err.Error()}
	}
	n, err := s.Seed(ctx, entries)
	if err != nil {
		return ImportReport{}, err
	}
	return ImportReport{Imported: n, Rejected: rowErrs}, nil
}

func (s *CatalogService) List(ctx context.Context) ([]Models.TaskTemplate, error) {
	var templates []Models.TaskTemplate
	err := s.DB.WithContext(ctx).Order("category ASC").Order("task_key ASC").Find(&templates).Error
	return templates, err
}
