package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/news-portal-api/internal/config"
)

// DB is the Postgres pool shared by every repository.
type DB struct {
	*sql.DB
	log zerolog.Logger
}

// New opens the pool, applies the configured limits and checks the server
// answers before returning.
func New(cfg *config.DatabaseConfig, log zerolog.Logger) (*DB, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres %s:%s: %w", cfg.Host, cfg.Port, err)
	}

	pool := &DB{DB: db, log: log.With().Str("component", "database").Logger()}
	pool.log.Info().
		Str("host", cfg.Host).
		Str("database", cfg.Name).
		Int("max_open_conns", cfg.MaxOpenConns).
		Int("max_idle_conns", cfg.MaxIdleConns).
		Dur("max_lifetime", cfg.MaxLifetime).
		Msg("Connected to postgres")
	return pool, nil
}

// migrator opens a golang-migrate instance over the pool and returns it with
// a logger scoped to the migration source.
func (db *DB) migrator(migrationsPath string) (*migrate.Migrate, zerolog.Logger, error) {
	log := db.log.With().Str("subsystem", "migrations").Str("path", migrationsPath).Logger()

	driver, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		return nil, log, fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return nil, log, fmt.Errorf("migration source %s: %w", migrationsPath, err)
	}
	return m, log, nil
}

// schemaVersion reports the applied version; zero when nothing is applied.
func schemaVersion(m *migrate.Migrate) (uint, bool, error) {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// RunMigrations brings the schema up to the newest migration.
func (db *DB) RunMigrations(migrationsPath string) error {
	m, log, err := db.migrator(migrationsPath)
	if err != nil {
		return err
	}

	from, _, err := schemaVersion(m)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	log.Info().Uint("from_version", from).Msg("Applying schema migrations")

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	to, dirty, err := schemaVersion(m)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	log.Info().
		Uint("from_version", from).
		Uint("to_version", to).
		Bool("dirty", dirty).
		Msg("Schema is up to date")
	return nil
}

// MigrateDown reverts the newest applied migration.
func (db *DB) MigrateDown(migrationsPath string) error {
	m, log, err := db.migrator(migrationsPath)
	if err != nil {
		return err
	}

	from, _, err := schemaVersion(m)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if from == 0 {
		log.Warn().Msg("No applied migrations to roll back")
		return nil
	}

	if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("roll back version %d: %w", from, err)
	}

	to, _, err := schemaVersion(m)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	log.Info().Uint("from_version", from).Uint("to_version", to).Msg("Schema rolled back")
	return nil
}
