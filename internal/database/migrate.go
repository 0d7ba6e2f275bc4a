package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"fintrack/internal/logger"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// NewMigrator returns a golang-migrate instance over the embedded migrations
// for the configured driver. The caller must Close it.
func NewMigrator(config *Config) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations/"+config.Driver)
	if err != nil {
		return nil, fmt.Errorf("create iofs source: %w", err)
	}

	switch config.Driver {
	case DriverPostgres:
		db, err := sql.Open("postgres", config.MigrationURL())
		if err != nil {
			return nil, fmt.Errorf("open migration database: %w", err)
		}
		driver, err := migratepg.WithInstance(db, &migratepg.Config{})
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create postgres driver: %w", err)
		}
		return migrate.NewWithInstance("iofs", src, "postgres", driver)

	case DriverSQLite:
		// Separate pure-Go connection so migrations don't share the gorm pool.
		db, err := sql.Open("sqlite", sqliteDSN(config.SQLitePath, "_pragma=foreign_keys(1)"))
		if err != nil {
			return nil, fmt.Errorf("open migration database: %w", err)
		}
		driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create sqlite driver: %w", err)
		}
		return migrate.NewWithInstance("iofs", src, "sqlite", driver)

	default:
		return nil, fmt.Errorf("unsupported database driver %q", config.Driver)
	}
}

// MigrateUp applies all pending migrations.
func MigrateUp(config *Config) error {
	logger.Get().Info("Running database migrations...")

	m, err := NewMigrator(config)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer CloseMigrator(m)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Get().Info("Database migrations completed successfully")
	return nil
}

// CloseMigrator closes both ends of a migrator, logging failures.
func CloseMigrator(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		logger.Get().Warnf("migrate source close error: %v", srcErr)
	}
	if dbErr != nil {
		logger.Get().Warnf("migrate database close error: %v", dbErr)
	}
}
