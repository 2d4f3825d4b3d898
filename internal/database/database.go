package database

import (
	"context"
	"fmt"

	"github.com/Behyna/cinefund/internal/config"
	"github.com/Behyna/cinefund/internal/model"
	"github.com/Behyna/cinefund/pkg/mysql"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewConnection(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	return mysql.NewConnection(context.Background(), cfg.Database, logger)
}

// Migrate creates or updates the investments and transactions tables.
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	if err := db.AutoMigrate(&model.Investment{}, &model.Transaction{}); err != nil {
		logger.Error("Database migration failed", zap.Error(err))
		return fmt.Errorf("auto migrate: %w", err)
	}

	logger.Info("Database schema is up to date")

	return nil
}
