package postgres

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// MigrationResult estado del esquema después de migrar.
type MigrationResult struct {
	Version uint
	Dirty   bool
	Changed bool // false si no había nada pendiente
}

// MigrateUp aplica los scripts embebidos pendientes.
func MigrateUp(databaseURL string) (MigrationResult, error) {
	return runMigrations(databaseURL, (*migrate.Migrate).Up)
}

// MigrateDown revierte todas las migraciones.
func MigrateDown(databaseURL string) (MigrationResult, error) {
	return runMigrations(databaseURL, (*migrate.Migrate).Down)
}

func runMigrations(databaseURL string, step func(*migrate.Migrate) error) (res MigrationResult, err error) {
	m, err := newMigrator(databaseURL)
	if err != nil {
		return res, err
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if err == nil {
			err = errors.Join(srcErr, dbErr)
		}
	}()

	err = step(m)
	switch {
	case errors.Is(err, migrate.ErrNoChange):
	case err != nil:
		return res, fmt.Errorf("aplicar migraciones: %w", err)
	default:
		res.Changed = true
	}

	res.Version, res.Dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("leer versión del esquema: %w", err)
	}
	return res, nil
}

func newMigrator(databaseURL string) (*migrate.Migrate, error) {
	url, err := migrateURL(databaseURL)
	if err != nil {
		return nil, err
	}
	src, err := migrationSource()
	if err != nil {
		return nil, err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return nil, fmt.Errorf("crear migrador: %w", err)
	}
	return m, nil
}

func migrationSource() (source.Driver, error) {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("leer migraciones embebidas: %w", err)
	}
	return src, nil
}

// migrateURL traduce el DSN postgres:// al esquema pgx5:// del driver de golang-migrate.
func migrateURL(dsn string) (string, error) {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "pgx5://" + strings.TrimPrefix(dsn, prefix), nil
		}
	}
	if strings.HasPrefix(dsn, "pgx5://") {
		return dsn, nil
	}
	return "", errors.New("DSN no soportado para migraciones: se espera una URL postgres://")
}
