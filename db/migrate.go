package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// Schema names map to directories under migrations/.
const (
	SchemaForum      = "forum"
	SchemaTournament = "tournament"
)

// MigrationFiles lists the embedded migration files for a schema.
func MigrationFiles(schema string) ([]string, error) {
	entries, err := fs.ReadDir(migrationsFS, "migrations/"+schema)
	if err != nil {
		return nil, fmt.Errorf("unknown schema %q: %w", schema, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

// Migrate applies all pending up migrations of schema to db.
func Migrate(ctx context.Context, db *sql.DB, schema string) error {
	src, err := iofs.New(migrationsFS, "migrations/"+schema)
	if err != nil {
		return fmt.Errorf("failed to open migrations for %s: %w", schema, err)
	}
	defer src.Close()

	return WithConn(ctx, db, func(conn *sql.Conn) error {
		driver, err := postgres.WithConnection(ctx, conn, &postgres.Config{})
		if err != nil {
			return fmt.Errorf("failed to create migrate driver for %s: %w", schema, err)
		}

		m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
		if err != nil {
			return fmt.Errorf("failed to create migrator for %s: %w", schema, err)
		}

		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to apply %s migrations: %w", schema, err)
		}
		return nil
	})
}
