package Controllers

import (
	"HomeList/Services"

	"github.com/gofiber/fiber/v2"
)

type CatalogController struct {
	Catalog *Services.CatalogService
}

func NewCatalogController(catalog *Services.CatalogService) *CatalogController {
	return &CatalogController{Catalog: catalog}
}

func (c *CatalogController) ListTemplates(ctx *fiber.Ctx) error {
	templates, err := c.Catalog.List(ctx.UserContext())
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(templates)
}

// ImportCSV upserts templates from an uploaded CSV file. Rows that fail to
// parse are reported back and do not stop the rest of the import.
func (c *CatalogController) ImportCSV(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		return respondError(ctx, &Services.ValidationError{Field: "file", Message: "a csv file is required"})
	}
	src, err := file.Open()
	if err != nil {
		return respondError(ctx, err)
	}
	defer src.Close()

	report, err := c.Catalog.ImportCSV(ctx.UserContext(), src)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(report)
}
