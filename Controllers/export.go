package Controllers

import (
	"fmt"

	"HomeList/Models"
	"HomeList/Scheduling"
	"HomeList/Services"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

type ExportController struct {
	Tasks *Services.TaskService
}

func NewExportController(tasks *Services.TaskService) *ExportController {
	return &ExportController{Tasks: tasks}
}

var (
	taskSheetHeaders    = []string{"ID", "Title", "Category", "Priority", "Frequency", "Next Due", "Last Completed", "Status", "Archived"}
	historySheetHeaders = []string{"Task ID", "Task", "Action", "Days", "Notes", "Recorded At"}
)

// ExportTasks downloads the user's tasks and their history as an xlsx
// workbook with a Tasks sheet and a History sheet.
func (c *ExportController) ExportTasks(ctx *fiber.Ctx) error {
	userID := currentUser(ctx).ID
	tasks, err := c.Tasks.List(ctx.UserContext(), userID, Scheduling.Filter{IncludeArchived: true})
	if err != nil {
		return respondError(ctx, err)
	}
	var history []Models.TaskHistory
	if err := c.Tasks.DB.WithContext(ctx.UserContext()).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&history).Error; err != nil {
		return respondError(ctx, err)
	}

	file, err := buildWorkbook(tasks, history)
	if err != nil {
		return respondError(ctx, err)
	}
	defer file.Close()

	buf, err := file.WriteToBuffer()
	if err != nil {
		return respondError(ctx, fmt.Errorf("write workbook: %w", err))
	}
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="homelist-tasks.xlsx"`)
	return ctx.Send(buf.Bytes())
}

func buildWorkbook(tasks []Models.Task, history []Models.TaskHistory) (*excelize.File, error) {
	file := excelize.NewFile()
	if err := file.SetSheetName("Sheet1", "Tasks"); err != nil {
		return nil, err
	}
	if _, err := file.NewSheet("History"); err != nil {
		return nil, err
	}

	if err := writeRow(file, "Tasks", 1, taskSheetHeaders); err != nil {
		return nil, err
	}
	titles := make(map[uint]string, len(tasks))
	for i, t := range tasks {
		titles[t.ID] = t.Title
		last := ""
		if t.LastCompleted != nil {
			last = Scheduling.FormatDate(*t.LastCompleted)
		}
		row := []interface{}{
			t.ID, t.Title, t.Category, t.Priority,
			Scheduling.FrequencyLabel(t.FrequencyDays),
			Scheduling.FormatDate(t.NextDueDate), last,
			string(t.Status), t.Archived,
		}
		if err := writeRow(file, "Tasks", i+2, row); err != nil {
			return nil, err
		}
	}

	if err := writeRow(file, "History", 1, historySheetHeaders); err != nil {
		return nil, err
	}
	for i, h := range history {
		var days interface{}
		if h.DeltaDays != nil {
			days = *h.DeltaDays
		}
		row := []interface{}{h.TaskID, titles[h.TaskID], string(h.Action), days, h.Notes, h.CreatedAt.Format("2006-01-02 15:04")}
		if err := writeRow(file, "History", i+2, row); err != nil {
			return nil, err
		}
	}
	return file, nil
}

func writeRow[T any](file *excelize.File, sheet string, row int, values []T) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	vals := make([]interface{}, len(values))
	for i, v := range values {
		vals[i] = v
	}
	return file.SetSheetRow(sheet, cell, &vals)
}
