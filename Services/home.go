package Services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"HomeList/Models"
	"HomeList/Scheduling"

	"gorm.io/gorm"
)

type HomeService struct {
	DB        *gorm.DB
	Tasks     *TaskService
	Generator *Generator
}

func NewHomeService(db *gorm.DB, tasks *TaskService, generator *Generator) *HomeService {
	return &HomeService{DB: db, Tasks: tasks, Generator: generator}
}

// Questionnaire is one submission of the onboarding questionnaire.
type Questionnaire struct {
	Features                 Models.HomeFeatures
	Persona                  string
	TimeBudgetMinutesPerWeek *int
}

type HomeBasics struct {
	Address    string
	YearBuilt  *int
	SquareFeet *int
	Beds       *int
	Baths      string
}

func (s *HomeService) Features(ctx context.Context, userID uint) (*Models.HomeFeatures, error) {
	var f Models.HomeFeatures
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&f).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "home features"}
		}
		return nil, err
	}
	return &f, nil
}

func (s *HomeService) ensureFeatures(ctx context.Context, userID uint) (*Models.HomeFeatures, error) {
	var f Models.HomeFeatures
	err := s.DB.WithContext(ctx).Where(Models.HomeFeatures{UserID: userID}).FirstOrCreate(&f).Error
	return &f, err
}

// SaveQuestionnaire stores the answers, records onboarding metadata on the
// user and generates any newly applicable tasks. Home basics, the banner
// and baseline state survive a resubmission.
func (s *HomeService) SaveQuestionnaire(ctx context.Context, userID uint, q Questionnaire) (*Models.HomeFeatures, GenerationReport, error) {
	if q.TimeBudgetMinutesPerWeek != nil && *q.TimeBudgetMinutesPerWeek < 0 {
		return nil, GenerationReport{}, invalid("time_budget_minutes_per_week", "time budget must not be negative")
	}
	existing, err := s.ensureFeatures(ctx, userID)
	if err != nil {
		return nil, GenerationReport{}, fmt.Errorf("load home features: %w", err)
	}

	f := q.Features
	f.ID = existing.ID
	f.UserID = userID
	f.CreatedAt = existing.CreatedAt
	f.Address = existing.Address
	f.SquareFeet = existing.SquareFeet
	f.Beds = existing.Beds
	f.Baths = existing.Baths
	f.BannerPath = existing.BannerPath
	f.BaselineDismissed = existing.BaselineDismissed
	f.BaselineLastChecked = existing.BaselineLastChecked
	if f.YearBuilt == 0 {
		f.YearBuilt = existing.YearBuilt
	}
	if err := s.DB.WithContext(ctx).Save(&f).Error; err != nil {
		return nil, GenerationReport{}, fmt.Errorf("save home features: %w", err)
	}

	updates := map[string]any{"persona": strings.TrimSpace(q.Persona)}
	if q.TimeBudgetMinutesPerWeek != nil {
		updates["time_budget_minutes_per_week"] = *q.TimeBudgetMinutesPerWeek
	}
	if err := s.DB.WithContext(ctx).Model(&Models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		return nil, GenerationReport{}, err
	}
	if err := s.DB.WithContext(ctx).Model(&Models.User{}).
		Where("id = ? AND onboarding_started_at IS NULL", userID).
		Update("onboarding_started_at", s.Tasks.now()).Error; err != nil {
		return nil, GenerationReport{}, err
	}

	report, err := s.Generator.Generate(ctx, userID, f)
	return &f, report, err
}

// Regenerate reruns the generator against the stored features.
func (s *HomeService) Regenerate(ctx context.Context, userID uint) (GenerationReport, error) {
	f, err := s.Features(ctx, userID)
	if err != nil {
		if !IsNotFound(err) {
			return GenerationReport{}, err
		}
		f = &Models.HomeFeatures{UserID: userID}
	}
	return s.Generator.Generate(ctx, userID, f)
}

func (s *HomeService) SaveBasics(ctx context.Context, userID uint, b HomeBasics) (*Models.HomeFeatures, error) {
	if b.YearBuilt != nil && (*b.YearBuilt < 1600 || *b.YearBuilt > s.Tasks.Today().Year()+1) {
		return nil, invalid("year_built", "year built is out of range")
	}
	for name, v := range map[string]*int{"square_feet": b.SquareFeet, "beds": b.Beds} {
		if v != nil && *v < 0 {
			return nil, invalid(name, "%s must not be negative", name)
		}
	}
	baths := strings.TrimSpace(b.Baths)
	if baths != "" {
		if v, err := strconv.ParseFloat(baths, 64); err != nil || v < 0 {
			return nil, invalid("baths", "baths must be a number")
		}
	}

	f, err := s.ensureFeatures(ctx, userID)
	if err != nil {
		return nil, err
	}
	f.Address = strings.TrimSpace(b.Address)
	f.Baths = baths
	f.YearBuilt = derefInt(b.YearBuilt)
	f.SquareFeet = derefInt(b.SquareFeet)
	f.Beds = derefInt(b.Beds)
	err = s.DB.WithContext(ctx).Model(f).
		Select("Address", "Baths", "YearBuilt", "SquareFeet", "Beds").
		Updates(f).Error
	return f, err
}

func (s *HomeService) SetBanner(ctx context.Context, userID uint, path string) error {
	f, err := s.ensureFeatures(ctx, userID)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Model(f).Update("banner_path", path).Error
}

type HomeOverview struct {
	OverdueCount    int                  `json:"overdue_count"`
	DueIn7Days      int                  `json:"due_7_days"`
	CompletedLast30 int64                `json:"completed_30_days"`
	Upcoming        []Models.Task        `json:"upcoming_tasks"`
	Features        *Models.HomeFeatures `json:"features,omitempty"`
}

// Overview summarizes the home page: overdue and near-term counts plus the
// number of completions recorded in the last 30 days.
func (s *HomeService) Overview(ctx context.Context, userID uint) (HomeOverview, error) {
	var out HomeOverview
	if f, err := s.Features(ctx, userID); err == nil {
		out.Features = f
	} else if !IsNotFound(err) {
		return out, err
	}

	if _, err := s.Tasks.ReactivateDue(ctx, userID); err != nil {
		return out, err
	}
	tasks, err := s.Tasks.List(ctx, userID, Scheduling.Filter{})
	if err != nil {
		return out, err
	}
	today := s.Tasks.Today()
	week := today.AddDate(0, 0, 7)
	for _, t := range tasks {
		if t.IsCompleted() {
			continue
		}
		due := Scheduling.DateOf(t.NextDueDate)
		switch {
		case due.Before(today):
			out.OverdueCount++
		case !due.After(today.AddDate(0, 0, Scheduling.UpcomingWindowDays)):
			out.Upcoming = append(out.Upcoming, t)
		}
		if !due.Before(today) && !due.After(week) {
			out.DueIn7Days++
		}
	}

	cutoff := s.Tasks.now().Add(-30 * 24 * time.Hour)
	err = s.DB.WithContext(ctx).Model(&Models.TaskHistory{}).
		Where("user_id = ? AND action = ? AND created_at >= ?", userID, Models.ActionCompleted, cutoff).
		Count(&out.CompletedLast30).Error
	return out, err
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
