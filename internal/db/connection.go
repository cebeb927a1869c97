package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/NahomAnteneh/scm-predictor/internal/db/models"
	"github.com/NahomAnteneh/scm-predictor/internal/logging"
)

// Connect opens the history database for the given driver ("postgres" or "sqlite")
func Connect(driver, databaseURL string, log *zap.Logger) (*gorm.DB, error) {
	// Configure GORM logger
	gormLogger := logger.New(
		logging.StdLogger(log, "db"),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(databaseURL)
	case "sqlite":
		dialector = sqlite.Open(databaseURL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if driver == "sqlite" {
		// one writer keeps in-memory databases on a single connection
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// RunMigrations creates or updates the history tables
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(&models.Assessment{})
}

// Close releases the underlying connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
