package database

import (
	"strings"
	"time"

	"creativeminds-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const sqlitePrefix = "sqlite:"

// Open opens a GORM DB from DSN. A "sqlite:" prefix selects the pure-Go SQLite
// driver (local runs); anything else is treated as a Postgres URL.
// PreferSimpleProtocol disables prepared statement caching to avoid 42P05
// ("prepared statement already exists") when using connection poolers (e.g. PgBouncer).
func Open(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, sqlitePrefix) {
		return gorm.Open(sqlite.Open(strings.TrimPrefix(dsn, sqlitePrefix)), &gorm.Config{})
	}
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
}

// AutoMigrate runs migrations for every persisted model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Project{},
		&domain.Transaction{},
		&domain.Pool{},
		&domain.Wallet{},
	)
}

// EnsurePool creates the main pool row with a zero balance if it is missing.
func EnsurePool(db *gorm.DB) error {
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&domain.Pool{
		ID:          domain.MainPoolID,
		LastUpdated: time.Now(),
	}).Error
}
