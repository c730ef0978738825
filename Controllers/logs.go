package Controllers

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"HomeList/Scheduling"
	"HomeList/Services"
	"HomeList/middleware"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/exp/slices"
)

// LogGroup aggregates request log lines that share a method and path.
type LogGroup struct {
	Path        string               `json:"path"`
	Method      string               `json:"method"`
	Count       int                  `json:"count"`
	AvgLatency  float64              `json:"avg_latency_ms"`
	MaxLatency  float64              `json:"max_latency_ms"`
	SuccessRate float64              `json:"success_rate"`
	Logs        []middleware.LogData `json:"logs,omitempty"`
}

type LogsResponse struct {
	Groups      []LogGroup `json:"groups"`
	TotalLogs   int        `json:"total_logs"`
	TotalGroups int        `json:"total_groups"`
	Page        int        `json:"page"`
	PageSize    int        `json:"page_size"`
	TotalPages  int        `json:"total_pages"`
	DateFrom    string     `json:"date_from"`
	DateTo      string     `json:"date_to"`
}

// LogsController serves the request log written by middleware.LoggingMiddleware.
type LogsController struct {
	Path string
	Now  func() time.Time
}

func NewLogsController(path string) *LogsController {
	return &LogsController{Path: path, Now: time.Now}
}

// GetLogs returns request logs grouped by route, busiest first. Dates
// default to today; path, method and status narrow the result.
func (c *LogsController) GetLogs(ctx *fiber.Ctx) error {
	page := queryInt(ctx, "page", 1)
	pageSize := queryInt(ctx, "page_size", 50)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 1000 {
		pageSize = 50
	}

	today := Scheduling.DateOf(c.Now())
	from, err := parseDate("date_from", ctx.Query("date_from"))
	if err != nil {
		return respondError(ctx, err)
	}
	to, err := parseDate("date_to", ctx.Query("date_to"))
	if err != nil {
		return respondError(ctx, err)
	}
	if from == nil {
		from = &today
	}
	if to == nil {
		to = &today
	}
	if to.Before(*from) {
		return respondError(ctx, &Services.ValidationError{Field: "date_to", Message: "date_to is before date_from"})
	}

	entries, err := readLogs(c.Path, *from, to.AddDate(0, 0, 1))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			entries = nil
		} else {
			return respondError(ctx, fmt.Errorf("read request log: %w", err))
		}
	}
	entries = filterLogs(entries, ctx.Query("path"), ctx.Query("method"), queryInt(ctx, "status", 0))
	groups := groupLogs(entries, queryBool(ctx, "include_logs"))

	total := len(groups)
	start := min((page-1)*pageSize, total)
	end := min(start+pageSize, total)

	return ctx.JSON(LogsResponse{
		Groups:      groups[start:end],
		TotalLogs:   len(entries),
		TotalGroups: total,
		Page:        page,
		PageSize:    pageSize,
		TotalPages:  (total + pageSize - 1) / pageSize,
		DateFrom:    Scheduling.FormatDate(*from),
		DateTo:      Scheduling.FormatDate(*to),
	})
}

// readLogs reads JSON log lines with from <= timestamp < until. Lines that
// are not JSON are skipped.
func readLogs(path string, from, until time.Time) ([]middleware.LogData, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var entries []middleware.LogData
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry middleware.LogData
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		if entry.Timestamp.Before(from) || !entry.Timestamp.Before(until) {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, scanner.Err()
}

func filterLogs(entries []middleware.LogData, path, method string, status int) []middleware.LogData {
	var out []middleware.LogData
	for _, e := range entries {
		if path != "" && !strings.Contains(strings.ToLower(e.Path), strings.ToLower(path)) {
			continue
		}
		if method != "" && !strings.EqualFold(e.Method, method) {
			continue
		}
		if status != 0 && e.Status != status {
			continue
		}
		out = append(out, e)
	}
	return out
}

func groupLogs(entries []middleware.LogData, keepLogs bool) []LogGroup {
	byKey := map[string]*LogGroup{}
	var order []string
	successes := map[string]int{}
	for _, e := range entries {
		key := e.Method + " " + e.Path
		g, ok := byKey[key]
		if !ok {
			g = &LogGroup{Path: e.Path, Method: e.Method}
			byKey[key] = g
			order = append(order, key)
		}
		ms := float64(e.Latency.Microseconds()) / 1000.0
		g.AvgLatency = (g.AvgLatency*float64(g.Count) + ms) / float64(g.Count+1)
		g.MaxLatency = max(g.MaxLatency, ms)
		g.Count++
		if e.Status >= 200 && e.Status < 400 {
			successes[key]++
		}
		if keepLogs {
			g.Logs = append(g.Logs, e)
		}
	}

	groups := make([]LogGroup, 0, len(order))
	for _, key := range order {
		g := byKey[key]
		g.SuccessRate = float64(successes[key]) / float64(g.Count)
		groups = append(groups, *g)
	}
	slices.SortStableFunc(groups, func(a, b LogGroup) int { return b.Count - a.Count })
	return groups
}
