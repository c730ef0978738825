package Controllers

import (
	"errors"

	"HomeList/Models"
	"HomeList/Services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DeviceController struct {
	DB *gorm.DB
}

func NewDeviceController(db *gorm.DB) *DeviceController {
	return &DeviceController{DB: db}
}

// RegisterDevice stores a push token for the current user. A token that was
// registered before moves to the new owner.
func (c *DeviceController) RegisterDevice(ctx *fiber.Ctx) error {
	var req Models.RegisterDeviceRequest
	if err := bind(ctx, &req); err != nil {
		return respondError(ctx, err)
	}
	userID := currentUser(ctx).ID

	var device Models.DeviceToken
	err := c.DB.WithContext(ctx.UserContext()).Where("value = ?", req.Value).First(&device).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		device = Models.DeviceToken{UserID: userID, Value: req.Value, Platform: req.Platform}
		if err := c.DB.WithContext(ctx.UserContext()).Create(&device).Error; err != nil {
			return respondError(ctx, err)
		}
		return ctx.Status(fiber.StatusCreated).JSON(device)
	case err != nil:
		return respondError(ctx, err)
	}

	device.UserID = userID
	device.Platform = req.Platform
	if err := c.DB.WithContext(ctx.UserContext()).Save(&device).Error; err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(device)
}

func (c *DeviceController) ListDevices(ctx *fiber.Ctx) error {
	var devices []Models.DeviceToken
	if err := c.DB.WithContext(ctx.UserContext()).Where("user_id = ?", currentUser(ctx).ID).Order("id ASC").Find(&devices).Error; err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(devices)
}

func (c *DeviceController) DeleteDevice(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}
	res := c.DB.WithContext(ctx.UserContext()).Where("id = ? AND user_id = ?", id, currentUser(ctx).ID).Delete(&Models.DeviceToken{})
	if res.Error != nil {
		return respondError(ctx, res.Error)
	}
	if res.RowsAffected == 0 {
		return respondError(ctx, &Services.NotFoundError{Resource: "device", ID: id})
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
