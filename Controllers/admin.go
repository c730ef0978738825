package Controllers

import (
	"HomeList/Notifications"

	"github.com/gofiber/fiber/v2"
)

type AdminController struct {
	Notifier *Notifications.Notifier
}

func NewAdminController(notifier *Notifications.Notifier) *AdminController {
	return &AdminController{Notifier: notifier}
}

// RunNotifications triggers the overdue or weekly job by hand.
func (c *AdminController) RunNotifications(ctx *fiber.Ctx) error {
	summary, err := c.Notifier.Run(ctx.UserContext(), ctx.Params("kind"))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(summary)
}
