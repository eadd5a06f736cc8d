package db

import (
	"context"
	"fmt"
	"log"
	"time"
)

// ResetDatabase drops all tables and re-runs migrations
func ResetDatabase() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Drop all tables (CASCADE will handle indexes and constraints)
	dropQuery := `
		DROP TABLE IF EXISTS email_logs CASCADE;
		DROP TABLE IF EXISTS email_templates CASCADE;
		DROP TABLE IF EXISTS students CASCADE;
		DROP TABLE IF EXISTS schema_migrations CASCADE;
	`

	if _, err := Pool.Exec(ctx, dropQuery); err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}

	log.Println("All tables dropped successfully")

	if err := RunMigrations(connURL); err != nil {
		return fmt.Errorf("failed to run migrations after reset: %w", err)
	}

	log.Println("Database reset completed successfully")
	return nil
}
