package database

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/arnavshah/seat-planner-go/pkg/config"
)

var (
	// ErrPlanNotFound is returned when a seating plan lookup yields no rows
	ErrPlanNotFound = errors.New("seating plan not found")
	// ErrSeatNotFound is returned when a seat lookup yields no rows
	ErrSeatNotFound = errors.New("seat not found")
	// ErrPresetNotFound is returned when a parameter preset lookup yields no rows
	ErrPresetNotFound = errors.New("parameter preset not found")
)

// APIKey represents the api_keys table
type APIKey struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Key        string     `gorm:"unique;not null" json:"-"`
	KeyPreview string     `json:"key_preview"`
	Name       string     `gorm:"not null" json:"name"`
	RateLimit  int        `gorm:"default:10000" json:"rate_limit"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsed   *time.Time `json:"last_used"`
}

// APIUsage represents the api_usage table
type APIUsage struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	KeyID          uint   `gorm:"uniqueIndex:idx_key_date;not null" json:"key_id"`
	Date           string `gorm:"uniqueIndex:idx_key_date;not null" json:"date"`
	RequestCount   int    `gorm:"default:0" json:"request_count"`
	TotalEmployees int    `gorm:"default:0" json:"total_employees"`
	TotalSeats     int    `gorm:"default:0" json:"total_seats"`
}

// MasterUser represents the master_users table
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Open connects to the configured database and migrates the schema.
// Postgres is used when a URL is set, MySQL when the driver says so,
// and a SQLite file otherwise.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	var dialector gorm.Dialector
	switch {
	case cfg.Driver == "mysql":
		if cfg.URL == "" {
			return nil, errors.New("mysql driver requires DATABASE_URL")
		}
		dialector = mysql.Open(cfg.URL)
	case cfg.URL != "":
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.URL,
			PreferSimpleProtocol: true,
		})
		gormCfg.PrepareStmt = false
	default:
		path := cfg.Path
		if path == "" {
			path = "seating.db"
		}
		dialector = sqlite.Open(path)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates every table
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&APIKey{},
		&APIUsage{},
		&MasterUser{},
		&EmployeeRecord{},
		&ProjectRecord{},
		&ZoneRecord{},
		&SeatRecord{},
		&PlanRecord{},
		&PresetRecord{},
		&NotificationRecord{},
	)
	if err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}
