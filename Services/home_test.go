package Services

import (
	"context"
	"testing"
	"time"

	"HomeList/Models"
	"HomeList/Scheduling"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveQuestionnaireRecordsOnboarding(t *testing.T) {
	db := newTestDB(t)
	seedDefaultCatalog(t, db)
	user := createUser(t, db, "sam@example.com")
	home := newHomeService(t, db, "2025-05-01")
	ctx := context.Background()

	budget := 90
	f, _, err := home.SaveQuestionnaire(ctx, user.ID, Questionnaire{
		Features:                 Models.HomeFeatures{HomeType: "house", HasGutters: true},
		Persona:                  "first_time_owner",
		TimeBudgetMinutesPerWeek: &budget,
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, f.UserID)

	var stored Models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, "first_time_owner", stored.Persona)
	require.NotNil(t, stored.TimeBudgetMinutesPerWeek)
	assert.Equal(t, 90, *stored.TimeBudgetMinutesPerWeek)
	require.NotNil(t, stored.OnboardingStartedAt)
	started := *stored.OnboardingStartedAt

	home.Tasks.Now = fixedClock(t, "2025-06-01")
	_, _, err = home.SaveQuestionnaire(ctx, user.ID, Questionnaire{Features: Models.HomeFeatures{HomeType: "condo"}})
	require.NoError(t, err)
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.True(t, started.Equal(*stored.OnboardingStartedAt))

	features, err := home.Features(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "condo", features.HomeType)
	assert.False(t, features.HasGutters)

	var count int64
	require.NoError(t, db.Model(&Models.HomeFeatures{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	negative := -5
	_, _, err = home.SaveQuestionnaire(ctx, user.ID, Questionnaire{TimeBudgetMinutesPerWeek: &negative})
	assert.True(t, IsValidation(err))
}

func TestSaveBasicsSurvivesQuestionnaire(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "sam@example.com")
	home := newHomeService(t, db, "2025-05-01")
	ctx := context.Background()

	year, sqft, beds := 1978, 1850, 3
	_, err := home.SaveBasics(ctx, user.ID, HomeBasics{Address: " 12 Elm St ", YearBuilt: &year, SquareFeet: &sqft, Beds: &beds, Baths: "2.5"})
	require.NoError(t, err)
	require.NoError(t, home.SetBanner(ctx, user.ID, "uploads/banner_1.jpg"))

	_, _, err = home.SaveQuestionnaire(ctx, user.ID, Questionnaire{Features: Models.HomeFeatures{HasHVAC: true}})
	require.NoError(t, err)

	f, err := home.Features(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "12 Elm St", f.Address)
	assert.Equal(t, 1978, f.YearBuilt)
	assert.Equal(t, 1850, f.SquareFeet)
	assert.Equal(t, 3, f.Beds)
	assert.Equal(t, "2.5", f.Baths)
	assert.Equal(t, "uploads/banner_1.jpg", f.BannerPath)
	assert.True(t, f.HasHVAC)

	bad := 1200
	_, err = home.SaveBasics(ctx, user.ID, HomeBasics{YearBuilt: &bad})
	assert.True(t, IsValidation(err))
	_, err = home.SaveBasics(ctx, user.ID, HomeBasics{Baths: "two"})
	assert.True(t, IsValidation(err))
	neg := -1
	_, err = home.SaveBasics(ctx, user.ID, HomeBasics{Beds: &neg})
	assert.True(t, IsValidation(err))
}

func TestFeaturesNotFound(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "sam@example.com")
	_, err := newHomeService(t, db, "2025-05-01").Features(context.Background(), user.ID)
	assert.True(t, IsNotFound(err))
}

func TestRegenerateWithoutFeatures(t *testing.T) {
	db := newTestDB(t)
	seedDefaultCatalog(t, db)
	user := createUser(t, db, "sam@example.com")
	home := newHomeService(t, db, "2025-05-01")

	report, err := home.Regenerate(context.Background(), user.ID)
	require.NoError(t, err)
	keys := taskKeys(t, db, user.ID)
	assert.Len(t, keys, report.Inserted)
	assert.Contains(t, keys, "gfci_test")
	assert.NotContains(t, keys, "hvac_filter_replace")
}

func TestApplyBaseline(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "sam@example.com")
	gutters := insertTask(t, db, Models.Task{UserID: user.ID, Title: "Clean Gutters", Priority: "medium", NextDueDate: mustDate(t, "2025-10-01")})
	filter := insertTask(t, db, Models.Task{UserID: user.ID, Title: "Replace HVAC Filter", Priority: "high", NextDueDate: mustDate(t, "2025-05-03")})
	deck := insertTask(t, db, Models.Task{UserID: user.ID, Title: "Clean and Seal Deck", Priority: "low", NextDueDate: mustDate(t, "2025-09-01")})

	home := newHomeService(t, db, "2025-05-01")
	n, err := home.ApplyBaseline(context.Background(), user.ID, BaselineAnswers{
		GuttersLastCleaned: "over_12m",
		HVACFilterLast:     "not_sure",
		SidingCondition:    "good",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	load := func(id uint) Models.Task {
		var task Models.Task
		require.NoError(t, db.First(&task, id).Error)
		return task
	}
	g := load(gutters.ID)
	assert.Equal(t, "2025-05-08", Scheduling.FormatDate(g.NextDueDate))
	assert.Equal(t, "high", g.Priority)

	f := load(filter.ID)
	assert.Equal(t, "2025-05-03", Scheduling.FormatDate(f.NextDueDate))
	assert.Equal(t, "high", f.Priority)

	assert.Equal(t, "2025-09-01", Scheduling.FormatDate(load(deck.ID).NextDueDate))
	require.Len(t, historyFor(t, db, gutters.ID), 1)
	assert.Empty(t, historyFor(t, db, filter.ID))

	features, err := home.Features(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, features.BaselineDismissed)
	require.NotNil(t, features.BaselineLastChecked)
}

func TestDismissBaseline(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "sam@example.com")
	home := newHomeService(t, db, "2025-05-01")
	require.NoError(t, home.DismissBaseline(context.Background(), user.ID))

	d, err := home.Dashboard(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, d.Baseline.Dismissed)
	require.NotNil(t, d.Baseline.LastChecked)
}

func TestDashboard(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "sam@example.com")
	completed := mustDate(t, "2025-04-28")
	insertTask(t, db, Models.Task{UserID: user.ID, Title: "Old low", Priority: "low", NextDueDate: mustDate(t, "2025-04-01")})
	urgent := insertTask(t, db, Models.Task{UserID: user.ID, Title: "Recent high", Priority: "high", NextDueDate: mustDate(t, "2025-04-25")})
	insertTask(t, db, Models.Task{UserID: user.ID, NextDueDate: mustDate(t, "2025-05-05")})
	insertTask(t, db, Models.Task{UserID: user.ID, NextDueDate: mustDate(t, "2025-05-21")})
	insertTask(t, db, Models.Task{UserID: user.ID, NextDueDate: mustDate(t, "2025-08-01")})
	insertTask(t, db, Models.Task{UserID: user.ID, Status: Models.TaskStatusCompleted, LastCompleted: &completed, NextDueDate: mustDate(t, "2025-07-27")})
	insertTask(t, db, Models.Task{UserID: user.ID, Archived: true, NextDueDate: mustDate(t, "2025-04-01")})

	home := newHomeService(t, db, "2025-05-01")
	d, err := home.Dashboard(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Len(t, d.Buckets.Overdue, 2)
	assert.Len(t, d.Buckets.Upcoming, 2)
	assert.Len(t, d.Buckets.Future, 1)
	assert.Len(t, d.Buckets.Completed, 1)
	require.NotNil(t, d.Urgent)
	assert.Equal(t, urgent.ID, d.Urgent.ID)

	assert.Equal(t, DashboardOverview{TotalActive: 5, OverdueCount: 2, DueIn7Days: 1, CompletedIn7Days: 1}, d.Overview)
	assert.False(t, d.Baseline.Dismissed)
}

func TestOverviewCountsRecentCompletions(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "sam@example.com")
	a := insertTask(t, db, Models.Task{UserID: user.ID, FrequencyDays: 30, NextDueDate: mustDate(t, "2025-04-20")})
	insertTask(t, db, Models.Task{UserID: user.ID, NextDueDate: mustDate(t, "2025-04-28")})
	insertTask(t, db, Models.Task{UserID: user.ID, NextDueDate: mustDate(t, "2025-05-04")})

	home := newHomeService(t, db, "2025-05-01")
	ctx := context.Background()
	_, err := home.Tasks.Complete(ctx, user.ID, a.ID)
	require.NoError(t, err)

	old := Models.TaskHistory{TaskID: a.ID, UserID: user.ID, Action: Models.ActionCompleted, CreatedAt: mustDate(t, "2025-03-01")}
	require.NoError(t, db.Create(&old).Error)

	o, err := home.Overview(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, o.OverdueCount)
	assert.Equal(t, 1, o.DueIn7Days)
	assert.Equal(t, int64(1), o.CompletedLast30)
	require.Len(t, o.Upcoming, 1)
	assert.Nil(t, o.Features)
}

func TestRoadmapGroupsByWeek(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "sam@example.com")
	insertTask(t, db, Models.Task{UserID: user.ID, Priority: "high", NextDueDate: mustDate(t, "2025-05-01")})
	insertTask(t, db, Models.Task{UserID: user.ID, Seasonal: true, NextDueDate: mustDate(t, "2025-05-04")})
	insertTask(t, db, Models.Task{UserID: user.ID, NextDueDate: mustDate(t, "2025-05-13")})
	insertTask(t, db, Models.Task{UserID: user.ID, NextDueDate: mustDate(t, "2025-04-20")})
	insertTask(t, db, Models.Task{UserID: user.ID, NextDueDate: mustDate(t, "2025-08-01")})

	weeks, err := newHomeService(t, db, "2025-05-01").Roadmap(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, weeks, 2)
	assert.Equal(t, "2025-04-28", Scheduling.FormatDate(weeks[0].Start))
	assert.Equal(t, 2, weeks[0].Count())
	assert.Equal(t, 1, weeks[0].HighCount)
	assert.Equal(t, 1, weeks[0].SeasonalCount)
	assert.Equal(t, "2025-05-12", Scheduling.FormatDate(weeks[1].Start))
}

func TestCalendarMonth(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "sam@example.com")
	insertTask(t, db, Models.Task{UserID: user.ID, NextDueDate: mustDate(t, "2025-05-15")})
	insertTask(t, db, Models.Task{UserID: user.ID, NextDueDate: mustDate(t, "2025-04-27")})
	insertTask(t, db, Models.Task{UserID: user.ID, NextDueDate: mustDate(t, "2025-06-15")})

	home := newHomeService(t, db, "2025-05-01")
	cal, err := home.Calendar(context.Background(), user.ID, 2025, 5)
	require.NoError(t, err)
	assert.Equal(t, time.May, cal.Month)
	assert.Equal(t, "2025-04-27", Scheduling.FormatDate(cal.Days[0].Date))
	assert.Len(t, cal.Weeks(), 5)

	var withTasks []string
	for _, d := range cal.Days {
		if len(d.Tasks) > 0 {
			withTasks = append(withTasks, Scheduling.FormatDate(d.Date))
		}
	}
	assert.Equal(t, []string{"2025-04-27", "2025-05-15"}, withTasks)

	fallback, err := home.Calendar(context.Background(), user.ID, 0, 13)
	require.NoError(t, err)
	assert.Equal(t, 2025, fallback.Year)
	assert.Equal(t, time.May, fallback.Month)
}
