package database

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// SchemaVersion is the latest migration shipped with the binary.
const SchemaVersion = 2

type MigrationStatus struct {
	Version uint
	Dirty   bool
	Applied bool // At least one migration ran
}

// migrationLogger forwards golang-migrate progress to slog.
type migrationLogger struct{}

func (migrationLogger) Printf(format string, v ...interface{}) {
	slog.Debug("Migration", "message", strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (migrationLogger) Verbose() bool {
	return false
}

// RunMigrations brings the posts schema up to SchemaVersion and fails when the
// database ends at any other version.
// The migrate instance is not closed because closing it would close db.
func RunMigrations(db *DB) (MigrationStatus, error) {
	driver, err := sqlite.WithInstance(db.DB, &sqlite.Config{})
	if err != nil {
		return MigrationStatus{}, fmt.Errorf("failed to create sqlite driver: %w", err)
	}

	source, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return MigrationStatus{}, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return MigrationStatus{}, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	m.Log = migrationLogger{}

	status := MigrationStatus{Applied: true}
	switch err := m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		status.Applied = false
	case err != nil:
		return MigrationStatus{}, fmt.Errorf("failed to migrate posts schema: %w", err)
	}

	status.Version, status.Dirty, err = m.Version()
	if err != nil {
		return MigrationStatus{}, fmt.Errorf("failed to read schema version: %w", err)
	}
	if status.Dirty {
		return status, fmt.Errorf("posts schema is dirty at version %d", status.Version)
	}
	if status.Version != SchemaVersion {
		return status, fmt.Errorf("posts schema is at version %d, expected %d", status.Version, SchemaVersion)
	}

	return status, nil
}
