package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"lucerna/internal/shared/logger"
)

//go:embed scripts/*.sql
var scripts embed.FS

// Migrator applies the embedded SQL migrations against a live database
// connection. The caller owns the connection.
type Migrator struct {
	logger logger.Interface
}

func NewMigrator(log logger.Interface) *Migrator {
	return &Migrator{logger: log}
}

func (m *Migrator) build(db *sql.DB) (*migrate.Migrate, error) {
	source, err := iofs.New(scripts, "scripts")
	if err != nil {
		return nil, fmt.Errorf("failed to load migration scripts: %w", err)
	}

	driver, err := migratemysql.WithInstance(db, &migratemysql.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to prepare migration driver: %w", err)
	}

	return migrate.NewWithInstance("iofs", source, "mysql", driver)
}

// Up applies every pending migration.
func (m *Migrator) Up(db *sql.DB) error {
	instance, err := m.build(db)
	if err != nil {
		return err
	}

	if err := instance.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Infow("database schema already up to date")
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	version, dirty, err := instance.Version()
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	m.logger.Infow("migrations applied", "version", version, "dirty", dirty)
	return nil
}

// Down rolls back the given number of migrations.
func (m *Migrator) Down(db *sql.DB, steps int) error {
	if steps < 1 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}

	instance, err := m.build(db)
	if err != nil {
		return err
	}

	if err := instance.Steps(-steps); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Infow("nothing to roll back")
			return nil
		}
		return fmt.Errorf("rollback failed: %w", err)
	}

	m.logger.Infow("rollback completed", "steps", steps)
	return nil
}

// Version reports the current schema version. A fresh database reports
// version zero.
func (m *Migrator) Version(db *sql.DB) (uint, bool, error) {
	instance, err := m.build(db)
	if err != nil {
		return 0, false, err
	}

	version, dirty, err := instance.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to read migration version: %w", err)
	}
	return version, dirty, nil
}
