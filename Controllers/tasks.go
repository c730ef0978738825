package Controllers

import (
	"context"
	"net/url"
	"strings"

	"HomeList/Models"
	"HomeList/Scheduling"
	"HomeList/Services"

	"github.com/gofiber/fiber/v2"
)

type TaskController struct {
	Tasks *Services.TaskService
}

func NewTaskController(tasks *Services.TaskService) *TaskController {
	return &TaskController{Tasks: tasks}
}

type createTaskRequest struct {
	Title         string `json:"title" validate:"required,max=255"`
	Description   string `json:"description"`
	Category      string `json:"category" validate:"max=64"`
	Priority      string `json:"priority" validate:"omitempty,oneof=none low medium high"`
	FrequencyDays int    `json:"frequency_days" validate:"required,min=1"`
	NextDueDate   string `json:"next_due_date"`
}

type editTaskRequest struct {
	Title         *string `json:"title" validate:"omitempty,max=255"`
	Description   *string `json:"description"`
	Category      *string `json:"category" validate:"omitempty,max=64"`
	Priority      *string `json:"priority"`
	FrequencyDays *int    `json:"frequency_days"`
	NextDueDate   *string `json:"next_due_date"`
}

type snoozeRequest struct {
	Days *int `json:"days" form:"days"`
}

func (c *TaskController) filter(ctx *fiber.Ctx) (Scheduling.Filter, error) {
	var f Scheduling.Filter
	if err := ctx.QueryParser(&f); err != nil {
		return f, &Services.ValidationError{Field: "query", Message: "invalid filter"}
	}
	due, err := parseDate("due_on", ctx.Query("due_on"))
	if err != nil {
		return f, err
	}
	f.DueOn = due
	return f, nil
}

// ListTasks returns the filtered task list. With ?view=buckets the list is
// classified into overdue, upcoming, future and completed.
func (c *TaskController) ListTasks(ctx *fiber.Ctx) error {
	f, err := c.filter(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	userID := currentUser(ctx).ID
	today := c.Tasks.Today()

	if ctx.Query("view") == "buckets" {
		buckets, err := c.Tasks.Classified(ctx.UserContext(), userID, f)
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(presentBuckets(buckets, today))
	}

	if _, err := c.Tasks.ReactivateDue(ctx.UserContext(), userID); err != nil {
		return respondError(ctx, err)
	}
	tasks, err := c.Tasks.List(ctx.UserContext(), userID, f)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"tasks": presentTasks(tasks, today)})
}

func (c *TaskController) GetTask(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}
	task, history, err := c.Tasks.TaskHistory(ctx.UserContext(), currentUser(ctx).ID, id)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"task":    presentTask(*task, c.Tasks.Today()),
		"history": presentHistory(history),
	})
}

func (c *TaskController) CreateTask(ctx *fiber.Ctx) error {
	var req createTaskRequest
	if err := bind(ctx, &req); err != nil {
		return respondError(ctx, err)
	}
	due, err := parseDate("next_due_date", req.NextDueDate)
	if err != nil {
		return respondError(ctx, err)
	}
	task, err := c.Tasks.Create(ctx.UserContext(), currentUser(ctx).ID, Services.NewTask{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Priority:      req.Priority,
		FrequencyDays: req.FrequencyDays,
		NextDueDate:   due,
	})
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(presentTask(*task, c.Tasks.Today()))
}

func (c *TaskController) UpdateTask(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}
	var req editTaskRequest
	if err := bind(ctx, &req); err != nil {
		return respondError(ctx, err)
	}
	changes := Services.TaskChanges{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Priority:      req.Priority,
		FrequencyDays: req.FrequencyDays,
	}
	if req.NextDueDate != nil {
		due, err := parseDate("next_due_date", *req.NextDueDate)
		if err != nil {
			return respondError(ctx, err)
		}
		if due == nil {
			return respondError(ctx, &Services.ValidationError{Field: "next_due_date", Message: "next due date cannot be cleared"})
		}
		changes.NextDueDate = due
	}
	task, err := c.Tasks.Edit(ctx.UserContext(), currentUser(ctx).ID, id, changes)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(presentTask(*task, c.Tasks.Today()))
}

func (c *TaskController) CompleteTask(ctx *fiber.Ctx) error {
	return c.mutate(ctx, c.Tasks.Complete)
}

func (c *TaskController) ResetTask(ctx *fiber.Ctx) error {
	return c.mutate(ctx, c.Tasks.Reset)
}

func (c *TaskController) ArchiveTask(ctx *fiber.Ctx) error {
	return c.mutate(ctx, c.Tasks.Archive)
}

func (c *TaskController) RestoreTask(ctx *fiber.Ctx) error {
	return c.mutate(ctx, c.Tasks.Restore)
}

func (c *TaskController) SnoozeTask(ctx *fiber.Ctx) error {
	var req snoozeRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return respondError(ctx, &Services.ValidationError{Field: "body", Message: "invalid request body"})
		}
	}
	if req.Days == nil {
		return respondError(ctx, &Services.ValidationError{Field: "days", Message: "days is required"})
	}
	return c.mutate(ctx, func(uctx context.Context, userID, taskID uint) (*Models.Task, error) {
		return c.Tasks.Snooze(uctx, userID, taskID, *req.Days)
	})
}

func (c *TaskController) DeleteTask(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}
	if err := c.Tasks.Delete(ctx.UserContext(), currentUser(ctx).ID, id); err != nil {
		return respondError(ctx, err)
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *TaskController) mutate(ctx *fiber.Ctx, op func(context.Context, uint, uint) (*Models.Task, error)) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}
	task, err := op(ctx.UserContext(), currentUser(ctx).ID, id)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(presentTask(*task, c.Tasks.Today()))
}

// TaskPage renders a task with its history.
func (c *TaskController) TaskPage(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return ctx.Redirect("/dashboard")
	}
	task, history, err := c.Tasks.TaskHistory(ctx.UserContext(), currentUser(ctx).ID, id)
	if err != nil {
		if Services.IsNotFound(err) || Services.IsAuthorization(err) {
			return ctx.Status(fiber.StatusNotFound).SendString("Task not found")
		}
		return respondError(ctx, err)
	}
	return ctx.Render("pages/task", fiber.Map{
		"Title":   task.Title,
		"User":    currentUser(ctx),
		"Task":    task,
		"History": history,
	}, "layouts/main")
}

// CompleteForm handles the complete button on the task page.
func (c *TaskController) CompleteForm(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return ctx.Redirect("/dashboard")
	}
	if _, err := c.Tasks.Complete(ctx.UserContext(), currentUser(ctx).ID, id); err != nil {
		return respondError(ctx, err)
	}
	return ctx.Redirect(localRedirect(ctx.FormValue("next"), "/dashboard"))
}

// localRedirect returns next when it is a path on this site and fallback
// otherwise, so form posts cannot bounce users to another host.
func localRedirect(next, fallback string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return next
}
