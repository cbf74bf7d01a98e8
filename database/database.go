// Package database provides database connection management for the
// borsapulse market analytics service.
//
// This package includes:
//   - Database connection management using GORM and PostgreSQL
//   - Schema initialization via AutoMigrate
//   - Shared error types for repository operations
//
// Data Models:
//
//	All data models (Quote, Candle, UserAlert, AlertTrigger, etc.) are
//	defined in the models_pkg package to avoid circular import
//	dependencies; this package re-exports them as type aliases.
package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	models "borsapulse/database/models_pkg"
)

// Database holds the GORM database connection and provides access to the
// underlying DB instance. It serves as the central connection point for
// all database operations in the application.
type Database struct {
	db *gorm.DB
}

// DB returns the underlying GORM database instance for direct access when needed.
func (d *Database) DB() *gorm.DB {
	return d.db
}

// Connect establishes database connection using GORM
func Connect(host string, port int, dbname, user, password string) (*Database, error) {
	dsn := fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=disable",
		host, port, dbname, user, password)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Silent logging for production
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Database{db: db}, nil
}

// InitSchema migrates all tables.
func (d *Database) InitSchema() error {
	err := d.db.AutoMigrate(
		&models.Quote{},
		&models.Candle{},
		&models.UserAlert{},
		&models.AlertTrigger{},
		&models.AlertWebhook{},
		&models.AlertWebhookLog{},
		&models.AnalysisSnapshot{},
	)
	if err != nil {
		return fmt.Errorf("InitSchema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ============================================================================
// Type Aliases
// ============================================================================

// Core data models re-exported so callers can import a single package.

type Quote = models.Quote
type Candle = models.Candle
type UserAlert = models.UserAlert
type AlertTrigger = models.AlertTrigger
type AlertWebhook = models.AlertWebhook
type AlertWebhookLog = models.AlertWebhookLog
type AnalysisSnapshot = models.AnalysisSnapshot
