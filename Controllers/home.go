package Controllers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"HomeList/Models"
	"HomeList/Services"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

// BannerWidth is the width home photos are scaled down to.
const BannerWidth = 1200

var photoExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".webp": true}

type HomeController struct {
	Home      *Services.HomeService
	UploadDir string
}

func NewHomeController(home *Services.HomeService, uploadDir string) *HomeController {
	return &HomeController{Home: home, UploadDir: uploadDir}
}

type questionnaireRequest struct {
	Models.HomeFeatures
	Persona                  string `json:"persona" validate:"max=32"`
	TimeBudgetMinutesPerWeek *int   `json:"time_budget_minutes_per_week" validate:"omitempty,min=0"`
}

type basicsRequest struct {
	Address    string `json:"address" validate:"max=255"`
	YearBuilt  *int   `json:"year_built"`
	SquareFeet *int   `json:"square_feet" validate:"omitempty,min=0"`
	Beds       *int   `json:"beds" validate:"omitempty,min=0"`
	Baths      string `json:"baths" validate:"max=8"`
}

func (c *HomeController) GetQuestionnaire(ctx *fiber.Ctx) error {
	features, err := c.Home.Features(ctx.UserContext(), currentUser(ctx).ID)
	if err != nil {
		return respondError(ctx, err)
	}
	user := currentUser(ctx)
	return ctx.JSON(fiber.Map{
		"features":                     features,
		"persona":                      user.Persona,
		"time_budget_minutes_per_week": user.TimeBudgetMinutesPerWeek,
	})
}

// SaveQuestionnaire stores the answers and generates any tasks they unlock.
func (c *HomeController) SaveQuestionnaire(ctx *fiber.Ctx) error {
	var req questionnaireRequest
	if err := bind(ctx, &req); err != nil {
		return respondError(ctx, err)
	}
	features, report, err := c.Home.SaveQuestionnaire(ctx.UserContext(), currentUser(ctx).ID, Services.Questionnaire{
		Features:                 req.HomeFeatures,
		Persona:                  req.Persona,
		TimeBudgetMinutesPerWeek: req.TimeBudgetMinutesPerWeek,
	})
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"features":   features,
		"generation": report,
	})
}

func (c *HomeController) Regenerate(ctx *fiber.Ctx) error {
	report, err := c.Home.Regenerate(ctx.UserContext(), currentUser(ctx).ID)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(report)
}

func (c *HomeController) SaveBasics(ctx *fiber.Ctx) error {
	var req basicsRequest
	if err := bind(ctx, &req); err != nil {
		return respondError(ctx, err)
	}
	features, err := c.Home.SaveBasics(ctx.UserContext(), currentUser(ctx).ID, Services.HomeBasics{
		Address:    req.Address,
		YearBuilt:  req.YearBuilt,
		SquareFeet: req.SquareFeet,
		Beds:       req.Beds,
		Baths:      req.Baths,
	})
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(features)
}

func (c *HomeController) Overview(ctx *fiber.Ctx) error {
	today := c.Home.Tasks.Today()
	overview, err := c.Home.Overview(ctx.UserContext(), currentUser(ctx).ID)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"overdue_count":     overview.OverdueCount,
		"due_7_days":        overview.DueIn7Days,
		"completed_30_days": overview.CompletedLast30,
		"upcoming_tasks":    presentTasks(overview.Upcoming, today),
		"features":          overview.Features,
	})
}

// UploadPhoto accepts a png, jpeg or webp home photo, scales it down to
// BannerWidth and stores it as a jpeg under UploadDir.
func (c *HomeController) UploadPhoto(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("photo")
	if err != nil {
		return respondError(ctx, &Services.ValidationError{Field: "photo", Message: "a photo file is required"})
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !photoExtensions[ext] {
		return respondError(ctx, &Services.ValidationError{Field: "photo", Message: "photo must be a png, jpg, jpeg or webp file"})
	}

	src, err := file.Open()
	if err != nil {
		return respondError(ctx, err)
	}
	defer src.Close()

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return respondError(ctx, &Services.ValidationError{Field: "photo", Message: "photo could not be decoded"})
	}
	if img.Bounds().Dx() > BannerWidth {
		img = imaging.Resize(img, BannerWidth, 0, imaging.Lanczos)
	}

	if err := os.MkdirAll(c.UploadDir, 0755); err != nil {
		return respondError(ctx, fmt.Errorf("create upload dir: %w", err))
	}
	userID := currentUser(ctx).ID
	name := fmt.Sprintf("home_%d_%s.jpg", userID, uuid.NewString())
	if err := imaging.Save(img, filepath.Join(c.UploadDir, name), imaging.JPEGQuality(85)); err != nil {
		return respondError(ctx, fmt.Errorf("save photo: %w", err))
	}

	path := "/uploads/" + name
	if err := c.Home.SetBanner(ctx.UserContext(), userID, path); err != nil {
		return respondError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"banner_path": path})
}

func (c *HomeController) ApplyBaseline(ctx *fiber.Ctx) error {
	var answers Services.BaselineAnswers
	if err := bind(ctx, &answers); err != nil {
		return respondError(ctx, err)
	}
	updated, err := c.Home.ApplyBaseline(ctx.UserContext(), currentUser(ctx).ID, answers)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"updated": updated})
}

func (c *HomeController) DismissBaseline(ctx *fiber.Ctx) error {
	if err := c.Home.DismissBaseline(ctx.UserContext(), currentUser(ctx).ID); err != nil {
		return respondError(ctx, err)
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
