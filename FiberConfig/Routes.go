package FiberConfig

import (
	"HomeList/Controllers"
	"HomeList/Notifications"
	"HomeList/Services"
	"HomeList/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/gorm"
)

// Deps is everything the HTTP layer needs.
type Deps struct {
	DB       *gorm.DB
	Tasks    *Services.TaskService
	Home     *Services.HomeService
	Accounts *Services.AccountService
	Catalog  *Services.CatalogService
	Notifier *Notifications.Notifier
	Mail     Notifications.EmailSender
	Views    fiber.Views

	AppURL         string
	UploadDir      string
	StaticDir      string
	CORSOrigins    string
	SecureCookies  bool
	RequestLogPath string
	Log            *middleware.LogConfig
}

// NewApp builds the fiber app with middleware and routes.
func NewApp(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		Views:     d.Views,
		BodyLimit: 10 * 1024 * 1024,
	})

	logConfig := middleware.DefaultLogConfig()
	if d.Log != nil {
		logConfig = *d.Log
	}
	if d.RequestLogPath != "" {
		logConfig.LogFilePath = d.RequestLogPath
	}

	app.Use(middleware.RequestID())
	app.Use(middleware.LoggingMiddleware(logConfig))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	origins := d.CORSOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Requested-With, " + middleware.RequestIDHeader,
		// credentials cannot be combined with a wildcard origin
		AllowCredentials: origins != "*",
		MaxAge:           300,
	}))

	SetupRoutes(app, d, logConfig.LogFilePath)
	return app
}

func SetupRoutes(app *fiber.App, d Deps, requestLog string) {
	auth := Controllers.NewAuthController(d.Accounts, d.Mail, d.AppURL)
	auth.SecureCookies = d.SecureCookies
	tasks := Controllers.NewTaskController(d.Tasks)
	home := Controllers.NewHomeController(d.Home, d.UploadDir)
	views := Controllers.NewViewController(d.Home)
	catalog := Controllers.NewCatalogController(d.Catalog)
	devices := Controllers.NewDeviceController(d.DB)
	export := Controllers.NewExportController(d.Tasks)
	admin := Controllers.NewAdminController(d.Notifier)
	logs := Controllers.NewLogsController(requestLog)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	if d.StaticDir != "" {
		app.Static("/static", d.StaticDir)
	}
	if d.UploadDir != "" {
		app.Static("/uploads", d.UploadDir)
	}

	api := app.Group("/api")

	// Public auth routes
	api.Post("/auth/register", auth.Register)
	api.Post("/auth/login", auth.Login)
	api.Post("/auth/logout", auth.Logout)
	api.Post("/auth/forgot-password", auth.ForgotPassword)
	api.Post("/auth/reset-password", auth.ResetPassword)

	private := api.Group("", middleware.Verify(d.DB, ""))
	private.Get("/me", auth.Me)
	private.Put("/me/settings", auth.UpdateSettings)

	taskRoutes := private.Group("/tasks")
	taskRoutes.Get("/", tasks.ListTasks)
	taskRoutes.Post("/", tasks.CreateTask)
	taskRoutes.Get("/export", export.ExportTasks)
	taskRoutes.Get("/:id", tasks.GetTask)
	taskRoutes.Patch("/:id", tasks.UpdateTask)
	taskRoutes.Delete("/:id", tasks.DeleteTask)
	taskRoutes.Post("/:id/complete", tasks.CompleteTask)
	taskRoutes.Post("/:id/reset", tasks.ResetTask)
	taskRoutes.Post("/:id/snooze", tasks.SnoozeTask)
	taskRoutes.Post("/:id/archive", tasks.ArchiveTask)
	taskRoutes.Post("/:id/restore", tasks.RestoreTask)

	homeRoutes := private.Group("/home")
	homeRoutes.Get("/questionnaire", home.GetQuestionnaire)
	homeRoutes.Post("/questionnaire", home.SaveQuestionnaire)
	homeRoutes.Post("/regenerate", home.Regenerate)
	homeRoutes.Put("/basics", home.SaveBasics)
	homeRoutes.Post("/photo", home.UploadPhoto)
	homeRoutes.Get("/overview", home.Overview)
	homeRoutes.Post("/baseline", home.ApplyBaseline)
	homeRoutes.Post("/baseline/dismiss", home.DismissBaseline)

	private.Get("/dashboard", views.Dashboard)
	private.Get("/roadmap", views.Roadmap)
	private.Get("/calendar", views.Calendar)
	private.Get("/catalog", catalog.ListTemplates)

	private.Get("/devices", devices.ListDevices)
	private.Post("/devices", devices.RegisterDevice)
	private.Delete("/devices/:id", devices.DeleteDevice)

	adminRoutes := private.Group("/admin", middleware.RequireAdmin())
	adminRoutes.Post("/catalog/import", catalog.ImportCSV)
	adminRoutes.Post("/notifications/:kind", admin.RunNotifications)
	adminRoutes.Get("/logs", logs.GetLogs)

	// Server-rendered pages
	app.Get("/", func(c *fiber.Ctx) error { return c.Redirect("/dashboard") })
	app.Get("/login", auth.LoginPage)
	app.Post("/login", auth.LoginForm)
	app.Get("/register", auth.RegisterPage)
	app.Post("/register", auth.RegisterForm)
	app.Get("/logout", auth.LogoutPage)
	app.Get("/forgot-password", auth.ForgotPage)
	app.Post("/forgot-password", auth.ForgotForm)
	app.Get("/reset-password", auth.ResetPage)
	app.Post("/reset-password", auth.ResetForm)

	page := middleware.Verify(d.DB, "/login")
	app.Get("/dashboard", page, views.DashboardPage)
	app.Get("/roadmap", page, views.RoadmapPage)
	app.Get("/calendar", page, views.CalendarPage)
	app.Get("/tasks/:id", page, tasks.TaskPage)
	app.Post("/tasks/:id/complete", page, tasks.CompleteForm)
}
