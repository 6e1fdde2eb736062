package db

import (
	"fmt"
	"log"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"onboarding-records/internal/config"
	"onboarding-records/internal/models"
)

// Connect opens the single database handle shared by every component and
// migrates the schema. SQLite is limited to one open connection.
func Connect(cfg config.Config, zl zerolog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DatabaseURL)
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}

	return Open(dialector, cfg.DBDriver == config.DriverSQLite, zl)
}

func Open(dialector gorm.Dialector, singleConn bool, zl zerolog.Logger) (*gorm.DB, error) {
	gormLogger := logger.New(
		log.New(zl.With().Str("component", "gorm").Logger(), "", 0),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	database, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql handle: %w", err)
	}
	if singleConn {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(database); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return database, nil
}

func Migrate(database *gorm.DB) error {
	if err := database.AutoMigrate(&models.Employee{}, &models.Attachment{}); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

func Close(database *gorm.DB) error {
	sqlDB, err := database.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
