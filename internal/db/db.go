package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/emberly-app/emberly-backend/internal/config"
)

// NewDB initializes the database connection using DSN from config.
// TranslateError is on so unique-constraint violations surface as
// gorm.ErrDuplicatedKey; the services rely on that to turn races on
// conditional inserts into idempotent results.
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DB.DSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	// AutoMigrate ensures schema is in sync with models.
	if err := db.AutoMigrate(
		&User{}, &Like{}, &Match{}, &Notification{}, &ReferralCode{}, &Referral{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return db, nil
}
