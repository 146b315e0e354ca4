package database

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/staffrota/roster-api-go/pkg/config"
	"github.com/staffrota/roster-api-go/pkg/models"
)

// APIKey represents the api_keys table
type APIKey struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Key        string     `gorm:"unique;not null" json:"key"`
	Name       string     `gorm:"not null" json:"name"`
	KeyPreview string     `json:"key_preview"`
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
	TotalShifts    int    `gorm:"default:0" json:"total_shifts"`
	TotalEmployees int    `gorm:"default:0" json:"total_employees"`
}

// MasterUser represents the master_users table
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// InitDB opens the database connection and migrates the schema. A configured
// URL selects Postgres; otherwise a local SQLite file is used.
func InitDB(cfg *config.DatabaseConfig, log *zap.Logger) *gorm.DB {
	var db *gorm.DB
	var err error

	if cfg.URL != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.URL,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	} else {
		path := cfg.Path
		if path == "" {
			path = "roster.db"
		}
		db, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	}

	if err != nil {
		log.Fatal("failed to connect database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&APIKey{}, &APIUsage{}, &MasterUser{},
		&models.Employee{}, &models.Position{}, &models.ShiftTemplate{},
		&models.AvailabilityWindow{}, &models.EmployeePosition{},
		&models.SchedulingConstraint{}, &models.Schedule{}, &models.Shift{},
		&models.Violation{},
	); err != nil {
		log.Fatal("failed to migrate schema", zap.Error(err))
	}

	return db
}
