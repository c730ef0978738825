package Models

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// postgresDSN pins the session time zone to UTC so timestamptz columns come
// back on the day they were stored. An explicit TimeZone is left alone.
func postgresDSN(dsn string) string {
	if strings.Contains(strings.ToLower(dsn), "timezone=") {
		return dsn
	}
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return dsn
		}
		q := u.Query()
		q.Set("TimeZone", "UTC")
		u.RawQuery = q.Encode()
		return u.String()
	}
	return strings.TrimSpace(dsn + " TimeZone=UTC")
}

// Connect opens the database for the given driver and migrates the schema.
// Supported drivers: sqlite (default), mysql, postgres.
func Connect(driver, dsn string, debug bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "", "sqlite":
		if dsn == "" {
			dsn = "database.db"
		}
		dialector = sqlite.Open(dsn)
	case "mysql":
		// Dates are stored at UTC midnight, so time columns must round-trip in UTC.
		cfg, err := mysqldriver.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("invalid mysql dsn: %w", err)
		}
		cfg.ParseTime = true
		cfg.Loc = time.UTC
		dialector = mysql.New(mysql.Config{DSN: cfg.FormatDSN(), DSNConfig: cfg})
	case "postgres":
		dialector = postgres.Open(postgresDSN(dsn))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}

	connection, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == "" || driver == "sqlite" {
		// sqlite only enforces ON DELETE CASCADE with this pragma
		connection.Exec("PRAGMA foreign_keys = ON")
	} else {
		sqlDB, err := connection.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get SQL DB: %w", err)
		}
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}

	if err := Migrate(connection); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database connection established (%s)", dialector.Name())
	return connection, nil
}

// Migrate creates or updates the schema. Users first, then the tables
// that reference them.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{},
		&TaskTemplate{},
	); err != nil {
		return err
	}

	return db.AutoMigrate(
		&HomeFeatures{},
		&Task{},
		&TaskHistory{},
		&DeviceToken{},
	)
}
