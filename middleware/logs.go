package middleware

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"HomeList/Models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// LogConfig holds configuration for the logging middleware
type LogConfig struct {
	Console     bool
	File        bool
	LogFilePath string
	// "json" or "text"
	Format    string
	SkipPaths []string
	// Output replaces console and file output when set. Used by tests.
	Output func(line string)
}

// LogData is one request log line.
type LogData struct {
	Timestamp     time.Time     `json:"timestamp"`
	Method        string        `json:"method"`
	Path          string        `json:"path"`
	Status        int           `json:"status"`
	Latency       time.Duration `json:"latency"`
	IP            string        `json:"ip"`
	UserAgent     string        `json:"user_agent"`
	RequestID     string        `json:"request_id"`
	Error         string        `json:"error,omitempty"`
	UserID        uint          `json:"user_id,omitempty"`
	ContentLength int           `json:"content_length"`
}

func DefaultLogConfig() LogConfig {
	return LogConfig{
		Console:     true,
		File:        true,
		LogFilePath: "logs/requests.log",
		Format:      "json",
		SkipPaths:   []string{"/health", "/static"},
	}
}

// RequestID makes sure every request carries an X-Request-ID, echoing it
// back on the response.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
			c.Request().Header.Set(RequestIDHeader, id)
		}
		c.Set(RequestIDHeader, id)
		c.Locals("request_id", id)
		return c.Next()
	}
}

// LoggingMiddleware creates a new logging middleware with the given configuration
func LoggingMiddleware(config ...LogConfig) fiber.Handler {
	cfg := DefaultLogConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.File && cfg.Output == nil {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFilePath), 0755); err != nil {
			log.Printf("Error creating logs directory: %v\n", err)
		}
	}

	return func(c *fiber.Ctx) error {
		start := time.Now()

		for _, skipPath := range cfg.SkipPaths {
			if c.Path() == skipPath {
				return c.Next()
			}
		}

		err := c.Next()

		data := LogData{
			Timestamp:     start,
			Method:        c.Method(),
			Path:          c.Path(),
			Status:        c.Response().StatusCode(),
			Latency:       time.Since(start),
			IP:            c.IP(),
			UserAgent:     c.Get(fiber.HeaderUserAgent),
			RequestID:     c.Get(RequestIDHeader),
			ContentLength: len(c.Response().Body()),
		}
		if user, ok := CurrentUser(c); ok {
			data.UserID = user.ID
		}
		if err != nil {
			data.Error = err.Error()
		}

		logRequest(cfg, data)
		return err
	}
}

func logRequest(cfg LogConfig, data LogData) {
	var line string
	if cfg.Format == "json" {
		b, _ := json.Marshal(data)
		line = string(b)
	} else {
		line = formatTextLog(data)
	}

	if cfg.Output != nil {
		cfg.Output(line)
		return
	}
	if cfg.Console {
		log.Println(line)
	}
	if cfg.File {
		logToFile(cfg.LogFilePath, line)
	}
}

func formatTextLog(data LogData) string {
	user := ""
	if data.UserID != 0 {
		user = fmt.Sprintf(" user:%d", data.UserID)
	}
	return fmt.Sprintf(
		"[%s] %s %s %d %s %s %s%s",
		data.Timestamp.Format("2006-01-02 15:04:05"),
		data.Method,
		data.Path,
		data.Status,
		data.Latency,
		data.IP,
		data.RequestID,
		user,
	)
}

func logToFile(filePath, message string) {
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Error opening log file: %v\n", err)
		return
	}
	defer file.Close()

	if len(message) > 0 && message[len(message)-1] != '\n' {
		message += "\n"
	}
	if _, err := file.WriteString(message); err != nil {
		log.Printf("Error writing to log file: %v\n", err)
	}
}

// ErrorLogger appends failed requests to logs/errors.log.
func ErrorLogger(path string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err == nil && c.Response().StatusCode() < 400 {
			return err
		}

		data := LogData{
			Timestamp: start,
			Method:    c.Method(),
			Path:      c.Path(),
			Status:    c.Response().StatusCode(),
			Latency:   time.Since(start),
			IP:        c.IP(),
			RequestID: c.Get(RequestIDHeader),
		}
		if user, ok := c.Locals("user").(Models.User); ok {
			data.UserID = user.ID
		}
		if err != nil {
			data.Error = err.Error()
		}
		b, _ := json.Marshal(data)
		logToFile(path, string(b))
		return err
	}
}
