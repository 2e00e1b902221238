package database

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/recipebox/backend/internal/model"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migration is one numbered schema change
type Migration struct {
	Name string
	Up   string
	Down string
}

// Migrations returns the embedded migrations in apply order
func Migrations() ([]Migration, error) {
	entries, err := fs.ReadDir(migrationFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	byName := map[string]*Migration{}
	for _, entry := range entries {
		file := entry.Name()
		var name, direction string
		switch {
		case strings.HasSuffix(file, ".up.sql"):
			name, direction = strings.TrimSuffix(file, ".up.sql"), "up"
		case strings.HasSuffix(file, ".down.sql"):
			name, direction = strings.TrimSuffix(file, ".down.sql"), "down"
		default:
			continue
		}

		content, err := fs.ReadFile(migrationFS, "migrations/"+file)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		m, ok := byName[name]
		if !ok {
			m = &Migration{Name: name}
			byName[name] = m
		}
		if direction == "up" {
			m.Up = string(content)
		} else {
			m.Down = string(content)
		}
	}

	migrations := make([]Migration, 0, len(byName))
	for _, m := range byName {
		if m.Up == "" {
			return nil, fmt.Errorf("migration %s has no up file", m.Name)
		}
		migrations = append(migrations, *m)
	}
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Name < migrations[j].Name
	})
	return migrations, nil
}

// RunMigrations brings the schema up to date. SQLite uses gorm auto-migration;
// postgres applies the embedded SQL files and records them in schema_migrations.
func RunMigrations(db *gorm.DB, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	if db.Dialector.Name() == "sqlite" {
		log.Info("using gorm auto-migration for sqlite")
		return db.AutoMigrate(&model.Recipe{})
	}

	migrations, err := Migrations()
	if err != nil {
		return err
	}

	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, m := range migrations {
		var count int64
		if err := db.Table("schema_migrations").Where("name = ?", m.Name).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if count > 0 {
			log.Debug("skipping migration (already applied)", zap.String("migration", m.Name))
			continue
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(m.Up).Error; err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", m.Name, err)
			}
			if err := tx.Exec("INSERT INTO schema_migrations (name) VALUES (?)", m.Name).Error; err != nil {
				return fmt.Errorf("failed to record migration %s: %w", m.Name, err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		log.Info("applied migration", zap.String("migration", m.Name))
	}

	return nil
}
