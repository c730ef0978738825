package Config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"HomeList/Models"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is read from the environment, optionally seeded from a .env file.
type Config struct {
	AppEnv   string `mapstructure:"app_env"`
	HTTPAddr string `mapstructure:"http_addr"`
	AppURL   string `mapstructure:"app_url"`

	DBDriver string `mapstructure:"db_driver"`
	DBDSN    string `mapstructure:"db_dsn"`

	JWTSecret string `mapstructure:"jwt_secret"`

	SMTPHost  string `mapstructure:"smtp_host"`
	SMTPPort  int    `mapstructure:"smtp_port"`
	SMTPUser  string `mapstructure:"smtp_user"`
	SMTPPass  string `mapstructure:"smtp_pass"`
	SMTPTLS   bool   `mapstructure:"smtp_tls"`
	FromEmail string `mapstructure:"from_email"`
	FromName  string `mapstructure:"from_name"`

	CatalogPath    string `mapstructure:"catalog_path"`
	UploadDir      string `mapstructure:"upload_dir"`
	TemplatesDir   string `mapstructure:"templates_dir"`
	LogDir         string `mapstructure:"log_dir"`
	RequestLogPath string `mapstructure:"request_log_path"`

	FirebaseCredentials string `mapstructure:"firebase_credentials"`
	SlackWebhookURL     string `mapstructure:"slack_webhook_url"`
	CORSOrigins         string `mapstructure:"cors_origins"`

	WeeklyCheckinCron string `mapstructure:"weekly_checkin_cron"`
	OverdueCron       string `mapstructure:"overdue_cron"`
	ReactivateCron    string `mapstructure:"reactivate_cron"`
}

var defaults = map[string]interface{}{
	"app_env":          "development",
	"http_addr":        ":3001",
	"app_url":          "http://localhost:3001",
	"db_driver":        "sqlite",
	"db_dsn":           "homelist.db",
	"jwt_secret":       "",
	"smtp_host":        "",
	"smtp_port":        587,
	"smtp_user":        "",
	"smtp_pass":        "",
	"smtp_tls":         false,
	"from_email":       "",
	"from_name":        "HomeList",
	"catalog_path":     "",
	"upload_dir":       "uploads",
	"templates_dir":    "",
	"log_dir":          "logs",
	"request_log_path": "logs/requests.log",

	"firebase_credentials": "",
	"slack_webhook_url":    "",
	"cors_origins":         "*",

	// minute hour day-of-month month day-of-week
	"weekly_checkin_cron": "0 8 * * 6",
	"overdue_cron":        "0 7 * * *",
	"reactivate_cron":     "5 0 * * *",
}

// devSecret signs tokens outside production when JWT_SECRET is unset.
const devSecret = "homelist-development-secret"

var ErrMissingSecret = errors.New("JWT_SECRET must be set in production")

// Load reads envFile when it exists, then the process environment.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err == nil {
			log.Printf("Loaded environment from %s", envFile)
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	cfg.AppURL = strings.TrimRight(cfg.AppURL, "/")

	if cfg.JWTSecret == "" {
		if cfg.Production() {
			return nil, ErrMissingSecret
		}
		log.Println("JWT_SECRET is not set, using the development secret")
		cfg.JWTSecret = devSecret
	}
	return &cfg, nil
}

func (c *Config) Production() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func (c *Config) Email() Models.EmailConfig {
	return Models.EmailConfig{
		SMTPServer: c.SMTPHost,
		SMTPPort:   c.SMTPPort,
		Username:   c.SMTPUser,
		Password:   c.SMTPPass,
		FromEmail:  c.FromEmail,
		FromName:   c.FromName,
		TLSEnabled: c.SMTPTLS,
	}
}
