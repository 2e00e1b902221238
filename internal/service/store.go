package service

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/database"
)

// OpenRecipeStore builds the store named by cfg.Driver and applies migrations. The
// returned *gorm.DB is nil for the memory driver.
func OpenRecipeStore(cfg config.DatabaseConfig, log *zap.Logger) (RecipeStore, *gorm.DB, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return NewMemoryRecipeStore(), nil, nil
	case config.DriverSQLite, config.DriverPostgres:
		db, err := database.Open(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		if err := database.RunMigrations(db, log); err != nil {
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				_ = sqlDB.Close()
			}
			return nil, nil, err
		}
		return NewRecipeService(db), db, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
