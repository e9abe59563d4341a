package repository

import (
	"fmt"
	"time"

	"tush00nka/marketplace_chat/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// AutoMigrate creates the tables owned by the chat service. Users, profiles
// and products belong to other services and must already exist.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Chat{},
		&model.Message{},
		&model.MessageImage{},
		&model.Reaction{},
	)
}
