package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/database"
)

const createMigrationsTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		id SERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE,
		applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

func main() {
	// Parse command line flags
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("DATABASE_URL is not set and configuration failed to load: %v", err)
		}
		if cfg.Database.Driver != config.DriverPostgres {
			log.Fatalf("migrations only apply to postgres (DB_DRIVER=%s)", cfg.Database.Driver)
		}
		dsn = database.PostgresDSN(cfg.Database)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(createMigrationsTable); err != nil {
		log.Fatalf("failed to create migrations table: %v", err)
	}

	migrations, err := database.Migrations()
	if err != nil {
		log.Fatalf("failed to load migrations: %v", err)
	}

	if *rollback {
		if err := rollbackLast(db, migrations); err != nil {
			log.Fatal(err)
		}
		return
	}

	for _, m := range migrations {
		var applied bool
		err := db.QueryRow("SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)", m.Name).Scan(&applied)
		if err != nil {
			log.Fatalf("failed to check migration status: %v", err)
		}

		if applied {
			fmt.Printf("Migration already applied: %s\n", m.Name)
			continue
		}

		fmt.Printf("Applying migration: %s\n", m.Name)

		tx, err := db.Begin()
		if err != nil {
			log.Fatalf("failed to start transaction: %v", err)
		}

		if _, err := tx.Exec(m.Up); err != nil {
			tx.Rollback()
			log.Fatalf("failed to apply migration %s: %v", m.Name, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_migrations (name) VALUES ($1)", m.Name); err != nil {
			tx.Rollback()
			log.Fatalf("failed to record migration: %v", err)
		}

		if err := tx.Commit(); err != nil {
			log.Fatalf("failed to commit migration: %v", err)
		}

		fmt.Printf("Successfully applied migration: %s\n", m.Name)
	}

	fmt.Println("All migrations applied successfully.")
}

func rollbackLast(db *sql.DB, migrations []database.Migration) error {
	var name string
	err := db.QueryRow(`
		SELECT name
		FROM schema_migrations
		ORDER BY applied_at DESC, id DESC
		LIMIT 1
	`).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errors.New("no migrations to rollback")
		}
		return fmt.Errorf("failed to get last migration: %w", err)
	}

	var target *database.Migration
	for i := range migrations {
		if migrations[i].Name == name {
			target = &migrations[i]
			break
		}
	}
	if target == nil || target.Down == "" {
		return fmt.Errorf("rollback file not found for %s", name)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	if _, err := tx.Exec(target.Down); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to execute rollback: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM schema_migrations WHERE name = $1", name); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to remove migration record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rollback: %w", err)
	}

	fmt.Printf("Successfully rolled back migration: %s\n", name)
	return nil
}
