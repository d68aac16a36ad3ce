package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"farmlink-be/internal/logger"

	"go.uber.org/zap"
)

const migrationMarker = "-- +migrate "

// Migrator applies the plain SQL files in Dir. Each file carries an Up and a
// Down section separated by "-- +migrate Up" / "-- +migrate Down" markers.
type Migrator struct {
	DB  *sql.DB
	Dir string
}

func NewMigrator(db *sql.DB, dir string) *Migrator {
	return &Migrator{DB: db, Dir: dir}
}

// Up applies every migration not yet recorded in schema_migrations and
// returns the versions it applied.
func (m *Migrator) Up(ctx context.Context) ([]string, error) {
	files, err := m.prepare(ctx)
	if err != nil {
		return nil, err
	}
	return m.applyUp(ctx, files)
}

// Down rolls back the most recently applied migration. It returns "" when
// nothing has been applied.
func (m *Migrator) Down(ctx context.Context) (string, error) {
	files, err := m.prepare(ctx)
	if err != nil {
		return "", err
	}
	return m.applyDown(ctx, files)
}

func (m *Migrator) prepare(ctx context.Context) ([]string, error) {
	_, err := m.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure schema_migrations table: %w", err)
	}

	files, err := filepath.Glob(filepath.Join(m.Dir, "*.sql"))
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	// File names are date/sequence prefixed, so lexical order is apply order.
	sort.Strings(files)
	return files, nil
}

func (m *Migrator) applyUp(ctx context.Context, files []string) ([]string, error) {
	log := logger.FromCtx(ctx).With(zap.String("component", "migrate"))

	var applied []string
	for _, file := range files {
		version := filepath.Base(file)

		var exists bool
		err := m.DB.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, version,
		).Scan(&exists)
		if err != nil {
			return applied, fmt.Errorf("failed to check migration status: %w", err)
		}
		if exists {
			log.Debug("skipping applied migration", zap.String("version", version))
			continue
		}

		content, err := os.ReadFile(file)
		if err != nil {
			return applied, fmt.Errorf("failed to read %s: %w", file, err)
		}

		log.Info("applying migration", zap.String("version", version))
		if _, err := m.DB.ExecContext(ctx, extractMigrationPart(string(content), "Up")); err != nil {
			return applied, fmt.Errorf("migration failed (%s): %w", version, err)
		}

		if _, err := m.DB.ExecContext(ctx,
			`INSERT INTO schema_migrations (version) VALUES ($1)`, version,
		); err != nil {
			return applied, fmt.Errorf("failed to record migration version: %w", err)
		}
		applied = append(applied, version)
	}
	return applied, nil
}

func (m *Migrator) applyDown(ctx context.Context, files []string) (string, error) {
	log := logger.FromCtx(ctx).With(zap.String("component", "migrate"))

	var lastVersion string
	err := m.DB.QueryRowContext(ctx,
		`SELECT version FROM schema_migrations ORDER BY applied_at DESC LIMIT 1`,
	).Scan(&lastVersion)
	if errors.Is(err, sql.ErrNoRows) {
		log.Info("no migrations to roll back")
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get last applied migration: %w", err)
	}

	filePath := ""
	for _, f := range files {
		if filepath.Base(f) == lastVersion {
			filePath = f
			break
		}
	}
	if filePath == "" {
		return "", fmt.Errorf("migration file not found for version: %s", lastVersion)
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	log.Info("rolling back migration", zap.String("version", lastVersion))
	if _, err := m.DB.ExecContext(ctx, extractMigrationPart(string(content), "Down")); err != nil {
		return "", fmt.Errorf("rollback failed (%s): %w", lastVersion, err)
	}

	if _, err := m.DB.ExecContext(ctx,
		`DELETE FROM schema_migrations WHERE version = $1`, lastVersion,
	); err != nil {
		return "", fmt.Errorf("failed to remove migration record: %w", err)
	}
	return lastVersion, nil
}

func extractMigrationPart(content string, section string) string {
	var part strings.Builder
	inPart := false

	for _, line := range strings.Split(content, "\n") {
		if strings.Contains(line, migrationMarker+section) {
			inPart = true
			continue
		}
		if inPart && strings.HasPrefix(strings.TrimSpace(line), strings.TrimSpace(migrationMarker)) {
			break
		}
		if inPart {
			part.WriteString(line + "\n")
		}
	}
	return part.String()
}
