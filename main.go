package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"HomeList/Config"
	"HomeList/CronJobs"
	"HomeList/FiberConfig"
	"HomeList/Models"
	"HomeList/Notifications"
	"HomeList/Scheduling"
	"HomeList/Services"
	"HomeList/Templates"
	"HomeList/middleware"

	"github.com/gofiber/template/html"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

var envFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "homelist",
		Short: "HomeList home maintenance reminders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "Path to an optional .env file")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(notifyCmd())
	rootCmd.AddCommand(catalogCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server and the reminder scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func notifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "notify [overdue|weekly]",
		Short:     "Send the overdue digest or the weekly check-in now",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{Notifications.KindOverdue, Notifications.KindWeekly},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			summary, err := a.notifier.Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(summary.String())
			return nil
		},
	}
}

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the task template catalog",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "import [file.csv]",
		Short: "Upsert templates from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			report, err := a.catalog.ImportCSV(cmd.Context(), f)
			if err != nil {
				return err
			}
			out, _ := json.MarshalIndent(report, "", "  ")
			fmt.Println(string(out))
			return nil
		},
	})
	return cmd
}

type application struct {
	cfg      *Config.Config
	db       *gorm.DB
	views    *html.Engine
	tasks    *Services.TaskService
	home     *Services.HomeService
	accounts *Services.AccountService
	catalog  *Services.CatalogService
	mail     Notifications.EmailSender
	notifier *Notifications.Notifier
}

// bootstrap loads config, opens the database, seeds the catalog and wires
// the services.
func bootstrap(ctx context.Context) (*application, error) {
	cfg, err := Config.Load(envFile)
	if err != nil {
		return nil, err
	}
	middleware.SecretKey = cfg.JWTSecret

	db, err := Models.Connect(cfg.DBDriver, cfg.DBDSN, !cfg.Production())
	if err != nil {
		return nil, err
	}

	a := &application{cfg: cfg, db: db}
	a.catalog = Services.NewCatalogService(db)
	entries, err := Scheduling.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	n, err := a.catalog.Seed(ctx, entries)
	if err != nil {
		return nil, fmt.Errorf("seed catalog: %w", err)
	}
	log.Printf("Catalog seeded with %d templates", n)

	history := Services.NewGormHistory(db)
	a.tasks = Services.NewTaskService(db, history)
	a.home = Services.NewHomeService(db, a.tasks, Services.NewGenerator(db, history))
	a.accounts = Services.NewAccountService(db)
	a.views = Templates.Engine(cfg.TemplatesDir)

	if cfg.Email().Configured() {
		a.mail = Notifications.NewMailer(cfg.Email(), a.views)
	} else {
		log.Println("SMTP is not configured, e-mails are disabled")
	}

	a.notifier = Notifications.NewNotifier(db, a.tasks, a.mail)
	a.notifier.AppURL = cfg.AppURL
	if cfg.SlackWebhookURL != "" {
		a.notifier.Reporter = Notifications.SlackReporter{WebhookURL: cfg.SlackWebhookURL}
	}
	if cfg.FirebaseCredentials != "" {
		push, err := Notifications.NewFirebasePush(ctx, cfg.FirebaseCredentials)
		if err != nil {
			log.Printf("Push notifications disabled: %v", err)
		} else {
			a.notifier.Push = push
		}
	}
	return a, nil
}

func serve(ctx context.Context) error {
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	if a.cfg.Production() {
		setupLogging(a.cfg.LogDir)
	}

	scheduler := CronJobs.NewScheduler(a.notifier, a.tasks, time.UTC)
	if err := scheduler.Start(CronJobs.Schedules{
		WeeklyCheckin: a.cfg.WeeklyCheckinCron,
		Overdue:       a.cfg.OverdueCron,
		Reactivate:    a.cfg.ReactivateCron,
	}); err != nil {
		return err
	}
	defer scheduler.Stop()

	app := FiberConfig.NewApp(FiberConfig.Deps{
		DB:             a.db,
		Tasks:          a.tasks,
		Home:           a.home,
		Accounts:       a.accounts,
		Catalog:        a.catalog,
		Notifier:       a.notifier,
		Mail:           a.mail,
		Views:          a.views,
		AppURL:         a.cfg.AppURL,
		UploadDir:      a.cfg.UploadDir,
		StaticDir:      "static",
		CORSOrigins:    a.cfg.CORSOrigins,
		SecureCookies:  a.cfg.Production(),
		RequestLogPath: a.cfg.RequestLogPath,
	})

	go func() {
		<-ctx.Done()
		log.Println("Shutting down")
		done := make(chan error, 1)
		go func() { done <- app.Shutdown() }()
		select {
		case err := <-done:
			if err != nil {
				log.Printf("Failed to shut down cleanly: %v", err)
			}
		case <-time.After(shutdownTimeout):
			log.Printf("Shutdown did not finish within %s", shutdownTimeout)
		}
	}()

	log.Printf("Server listening on %s", a.cfg.HTTPAddr)
	return app.Listen(a.cfg.HTTPAddr)
}

func setupLogging(dir string) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("Error creating logs directory: %v\n", err)
		return
	}

	logFile, err := os.OpenFile(filepath.Join(dir, "application.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Error opening log file: %v\n", err)
		return
	}

	log.SetOutput(logFile)
	log.SetFlags(log.Ldate | log.Ltime)
}
