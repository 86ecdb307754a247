package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"shortly/internal/config"
	"shortly/models"
)

// Connect opens the Postgres store and migrates the urls table. The handle
// is returned to the caller for injection; nothing here is package state.
// TranslateError is required so a duplicate short code surfaces as
// gorm.ErrDuplicatedKey instead of a raw pgconn error.
func Connect(cfg config.Config) (*gorm.DB, error) {
	dsn := cfg.DatabaseURL
	if dsn == "" {
		dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)
	}

	database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := database.AutoMigrate(&models.Link{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return database, nil
}
