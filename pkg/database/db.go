package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/arnavshah/roster-optimizer/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
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
	RevokedAt  *time.Time `json:"revoked_at"`
}

// Revoked reports whether the key was revoked by an operator
func (k *APIKey) Revoked() bool {
	return k.RevokedAt != nil
}

// ErrKeyRevoked is returned when registering a key that was revoked
var ErrKeyRevoked = errors.New("api key revoked")

// RegisterKey records an issued key, returning the existing row when the key
// is already registered
func RegisterKey(db *gorm.DB, key, name, preview string, rateLimit int) (*APIKey, error) {
	var apiKey APIKey
	err := db.Where(&APIKey{Key: key}).
		Attrs(APIKey{Name: name, KeyPreview: preview, RateLimit: rateLimit}).
		FirstOrCreate(&apiKey).Error
	if err != nil {
		return nil, fmt.Errorf("register key: %w", err)
	}
	if apiKey.Revoked() {
		return nil, ErrKeyRevoked
	}
	return &apiKey, nil
}

// APIUsage represents the api_usage table
type APIUsage struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	KeyID           uint   `gorm:"uniqueIndex:idx_key_date;not null" json:"key_id"`
	Date            string `gorm:"uniqueIndex:idx_key_date;not null" json:"date"`
	RequestCount    int    `gorm:"default:0" json:"request_count"`
	TotalCaregivers int    `gorm:"default:0" json:"total_caregivers"`
	TotalClients    int    `gorm:"default:0" json:"total_clients"`
	TotalProposals  int    `gorm:"default:0" json:"total_proposals"`
}

// MasterUser represents the master_users table
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Connect opens the configured database: postgres when DATABASE_URL is set,
// sqlite at DATA_PATH otherwise.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	var dialector gorm.Dialector
	if cfg.DatabaseURL != "" {
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DatabaseURL,
			PreferSimpleProtocol: true,
		})
		gormConfig.PrepareStmt = false
	} else {
		dialector = sqlite.Open(cfg.DataPath)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

// Migrate creates or updates every table the service uses
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&APIKey{},
		&APIUsage{},
		&MasterUser{},
		&Caregiver{},
		&Client{},
		&CaregiverAssignment{},
		&ClientCaregiverRule{},
		&CaregiverSchedule{},
	)
}

// Close releases database resources
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
