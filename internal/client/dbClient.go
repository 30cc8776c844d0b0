package client

import (
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"orderflow/internal/model"
)

// InitDB connects to MySQL when DATABASE_URL is set and falls back to a
// local sqlite file otherwise, so the service runs without infrastructure
// in development.
func InitDB(databaseURL string) *gorm.DB {
	dialector := gorm.Dialector(sqlite.Open("orderflow.db"))
	if databaseURL != "" {
		dialector = mysql.Open(databaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal(err)
	}

	// Connection pool (callbacks and webhooks arrive in bursts)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&model.Product{},
		&model.Order{},
		&model.AutomationSubscription{},
	); err != nil {
		log.Fatal(err)
	}

	return db
}
