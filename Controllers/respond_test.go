package Controllers

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"HomeList/Services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondErrorStatus(t *testing.T) {
	cases := map[string]struct {
		err  error
		code int
	}{
		"validation": {&Services.ValidationError{Field: "title", Message: "title is required"}, fiber.StatusBadRequest},
		"not found":  {&Services.NotFoundError{Resource: "task", ID: 4}, fiber.StatusNotFound},
		"forbidden":  {&Services.AuthorizationError{Resource: "task", ID: 4}, fiber.StatusForbidden},
		"conflict":   {&Services.ConflictError{Field: "email", Message: "taken"}, fiber.StatusConflict},
		"wrapped":    {errors.Join(errors.New("loading"), &Services.NotFoundError{Resource: "task"}), fiber.StatusNotFound},
		"internal":   {errors.New("disk on fire"), fiber.StatusInternalServerError},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(ctx *fiber.Ctx) error { return respondError(ctx, tc.err) })
			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.code, resp.StatusCode)
		})
	}
}

func TestCheckTranslatesFirstFieldError(t *testing.T) {
	err := check(&registerRequest{Email: "not-an-email", Password: "Secret123"})
	var verr *Services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)
	assert.Equal(t, "email must be a valid email address", verr.Message)

	err = check(&registerRequest{Email: "sam@example.com", Password: "secret"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password", verr.Field)
	assert.Contains(t, verr.Message, "at least 8 characters")

	assert.NoError(t, check(&registerRequest{Email: "sam@example.com", Password: "Secret123"}))
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("due_on", "")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = parseDate("due_on", "2025-03-09")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "2025-03-09", d.Format("2006-01-02"))

	_, err = parseDate("due_on", "09/03/2025")
	var verr *Services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "due_on", verr.Field)
}

func TestQueryHelpers(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"year":  queryInt(ctx, "year", 0),
			"page":  queryInt(ctx, "page", 1),
			"logs":  queryBool(ctx, "include_logs"),
			"month": queryInt(ctx, "month", 0),
		})
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/?year=2025&page=abc&include_logs=true", nil))
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, float64(2025), out["year"])
	assert.Equal(t, float64(1), out["page"])
	assert.Equal(t, true, out["logs"])
	assert.Equal(t, float64(0), out["month"])
}

func TestLocalRedirect(t *testing.T) {
	tests := map[string]string{
		"/tasks/3":              "/tasks/3",
		"/dashboard?month=5":    "/dashboard?month=5",
		"https://evil.example/": "/dashboard",
		"//evil.example/":       "/dashboard",
		"/\\evil.example":       "/dashboard",
		"javascript:alert(1)":   "/dashboard",
		"":                      "/dashboard",
	}
	for next, want := range tests {
		assert.Equal(t, want, localRedirect(next, "/dashboard"), "next=%q", next)
	}
}

func TestCheckAcceptsPriorityNone(t *testing.T) {
	assert.NoError(t, check(&createTaskRequest{Title: "Oil Hinges", FrequencyDays: 180, Priority: "none"}))
	assert.Error(t, check(&createTaskRequest{Title: "Oil Hinges", FrequencyDays: 180, Priority: "urgent"}))
}
