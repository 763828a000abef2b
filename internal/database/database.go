package database

import (
	"strings"

	"github.com/smartgoals/smartgoals-api/internal/config"
	"github.com/smartgoals/smartgoals-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect opens the database. PostgreSQL when the URL says so, otherwise
// SQLite — the default DSN is an in-memory database that vanishes on restart.
func Connect(cfg *config.Config) error {
	var dialector gorm.Dialector

	if strings.HasPrefix(cfg.DatabaseURL, "postgres") {
		dialector = postgres.Open(cfg.DatabaseURL)
	} else {
		dialector = sqlite.Open(cfg.DatabaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return err
	}

	DB = db
	return nil
}

func Migrate() error {
	return DB.AutoMigrate(
		&models.User{},
		&models.UserSettings{},
		&models.Goal{},
		&models.WeeklyGoal{},
		&models.DailyTask{},
		&models.Activity{},
		&models.PushSubscription{},
	)
}
