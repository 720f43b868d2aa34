package config

import (
	"github.com/mitulaghara/villageconnect/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB, log *zap.Logger) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Notification{},
	)
	if err != nil {
		log.Error("failed to migrate database schema", zap.Error(err))
		return err
	}

	log.Info("database migrations completed")
	return nil
}
