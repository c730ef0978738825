package Controllers

import (
	"HomeList/Services"

	"github.com/gofiber/fiber/v2"
)

type ViewController struct {
	Home *Services.HomeService
}

func NewViewController(home *Services.HomeService) *ViewController {
	return &ViewController{Home: home}
}

type DashboardResponse struct {
	Buckets  BucketsResponse            `json:"buckets"`
	Urgent   *TaskResponse              `json:"urgent_task"`
	Overview Services.DashboardOverview `json:"overview"`
	Baseline Services.BaselineState     `json:"baseline"`
}

func (c *ViewController) Dashboard(ctx *fiber.Ctx) error {
	d, err := c.Home.Dashboard(ctx.UserContext(), currentUser(ctx).ID)
	if err != nil {
		return respondError(ctx, err)
	}
	today := c.Home.Tasks.Today()
	resp := DashboardResponse{
		Buckets:  presentBuckets(d.Buckets, today),
		Overview: d.Overview,
		Baseline: d.Baseline,
	}
	if d.Urgent != nil {
		urgent := presentTask(*d.Urgent, today)
		resp.Urgent = &urgent
	}
	return ctx.JSON(resp)
}

type roadmapWeekResponse struct {
	WeekStart     string         `json:"week_start"`
	WeekEnd       string         `json:"week_end"`
	Count         int            `json:"count"`
	HighCount     int            `json:"high_count"`
	SeasonalCount int            `json:"seasonal_count"`
	Tasks         []TaskResponse `json:"tasks"`
}

func (c *ViewController) Roadmap(ctx *fiber.Ctx) error {
	weeks, err := c.Home.Roadmap(ctx.UserContext(), currentUser(ctx).ID)
	if err != nil {
		return respondError(ctx, err)
	}
	today := c.Home.Tasks.Today()
	out := make([]roadmapWeekResponse, 0, len(weeks))
	for _, w := range weeks {
		out = append(out, roadmapWeekResponse{
			WeekStart:     w.Start.Format("2006-01-02"),
			WeekEnd:       w.End.Format("2006-01-02"),
			Count:         w.Count(),
			HighCount:     w.HighCount,
			SeasonalCount: w.SeasonalCount,
			Tasks:         presentTasks(w.Tasks, today),
		})
	}
	return ctx.JSON(fiber.Map{"weeks": out})
}

type calendarDayResponse struct {
	Date    string         `json:"date"`
	InMonth bool           `json:"in_month"`
	IsToday bool           `json:"is_today"`
	IsPast  bool           `json:"is_past"`
	Items   []TaskResponse `json:"items"`
}

func (c *ViewController) Calendar(ctx *fiber.Ctx) error {
	cal, err := c.Home.Calendar(ctx.UserContext(), currentUser(ctx).ID, queryInt(ctx, "year", 0), queryInt(ctx, "month", 0))
	if err != nil {
		return respondError(ctx, err)
	}
	today := c.Home.Tasks.Today()
	days := make([]calendarDayResponse, 0, len(cal.Days))
	for _, d := range cal.Days {
		days = append(days, calendarDayResponse{
			Date:    d.Date.Format("2006-01-02"),
			InMonth: d.InMonth,
			IsToday: d.IsToday,
			IsPast:  d.IsPast,
			Items:   presentTasks(d.Tasks, today),
		})
	}
	return ctx.JSON(fiber.Map{
		"year":       cal.Year,
		"month":      int(cal.Month),
		"month_name": cal.MonthName(),
		"days":       days,
		"prev":       fiber.Map{"year": cal.Prev.Year(), "month": int(cal.Prev.Month())},
		"next":       fiber.Map{"year": cal.Next.Year(), "month": int(cal.Next.Month())},
	})
}

// Pages

func (c *ViewController) DashboardPage(ctx *fiber.Ctx) error {
	d, err := c.Home.Dashboard(ctx.UserContext(), currentUser(ctx).ID)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.Render("pages/dashboard", fiber.Map{
		"Title":     "Dashboard",
		"User":      currentUser(ctx),
		"Dashboard": d,
	}, "layouts/main")
}

func (c *ViewController) RoadmapPage(ctx *fiber.Ctx) error {
	weeks, err := c.Home.Roadmap(ctx.UserContext(), currentUser(ctx).ID)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.Render("pages/roadmap", fiber.Map{
		"Title": "Roadmap",
		"User":  currentUser(ctx),
		"Weeks": weeks,
	}, "layouts/main")
}

func (c *ViewController) CalendarPage(ctx *fiber.Ctx) error {
	cal, err := c.Home.Calendar(ctx.UserContext(), currentUser(ctx).ID, queryInt(ctx, "year", 0), queryInt(ctx, "month", 0))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.Render("pages/calendar", fiber.Map{
		"Title":    "Calendar",
		"User":     currentUser(ctx),
		"Calendar": cal,
	}, "layouts/main")
}
