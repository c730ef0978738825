package Controllers

import (
	"errors"
	"log"
	"strconv"

	"HomeList/Models"
	"HomeList/Services"
	"HomeList/middleware"

	"github.com/gofiber/fiber/v2"
)

// respondError maps service errors onto status codes. Anything unexpected
// is logged and reported as a 500 without leaking details.
func respondError(ctx *fiber.Ctx, err error) error {
	var (
		validation *Services.ValidationError
		notFound   *Services.NotFoundError
		forbidden  *Services.AuthorizationError
		conflict   *Services.ConflictError
	)
	switch {
	case errors.As(err, &validation):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation_failed",
			"field":   validation.Field,
			"message": validation.Message,
		})
	case errors.As(err, &notFound):
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "not_found",
			"message": notFound.Error(),
		})
	case errors.As(err, &forbidden):
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "forbidden",
			"message": forbidden.Error(),
		})
	case errors.As(err, &conflict):
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":   "conflict",
			"field":   conflict.Field,
			"message": conflict.Message,
		})
	}

	log.Printf("Failed to handle %s %s: %v", ctx.Method(), ctx.Path(), err)
	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "internal_error",
		"message": "Something went wrong",
	})
}

func parseID(ctx *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(ctx.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, &Services.ValidationError{Field: name, Message: "invalid id"}
	}
	return uint(id), nil
}

// currentUser reads the user stored by middleware.Verify.
func currentUser(ctx *fiber.Ctx) Models.User {
	user, _ := middleware.CurrentUser(ctx)
	return user
}

// queryInt reads an integer query parameter, falling back to def when it
// is missing or malformed.
func queryInt(ctx *fiber.Ctx, key string, def int) int {
	v, err := strconv.Atoi(ctx.Query(key))
	if err != nil {
		return def
	}
	return v
}

func queryBool(ctx *fiber.Ctx, key string) bool {
	v, _ := strconv.ParseBool(ctx.Query(key))
	return v
}
