package db

import (
	"errors"
	"fmt"

	migrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// DefaultMigrationsDir is where the SQL migrations live relative to the repo root.
const DefaultMigrationsDir = "db/migrations"

// Migrator applies the schema migrations under Dir to DatabaseURL.
type Migrator struct {
	DatabaseURL string
	Dir         string
}

func (m Migrator) open() (*migrate.Migrate, error) {
	dir := m.Dir
	if dir == "" {
		dir = DefaultMigrationsDir
	}
	mig, err := migrate.New("file://"+dir, m.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db: open migrations: %w", err)
	}
	return mig, nil
}

func closeMigrate(mig *migrate.Migrate, err error) error {
	srcErr, dbErr := mig.Close()
	return errors.Join(err, srcErr, dbErr)
}

// Up applies every pending migration. An up-to-date schema is not an error.
func (m Migrator) Up() error {
	mig, err := m.open()
	if err != nil {
		return err
	}
	err = mig.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		err = nil
	}
	return closeMigrate(mig, err)
}

// Down rolls back steps migrations.
func (m Migrator) Down(steps int) error {
	if steps <= 0 {
		return errors.New("db: steps must be positive")
	}
	mig, err := m.open()
	if err != nil {
		return err
	}
	return closeMigrate(mig, mig.Steps(-steps))
}

// Version reports the applied version and whether the last migration left the schema dirty.
func (m Migrator) Version() (uint, bool, error) {
	mig, err := m.open()
	if err != nil {
		return 0, false, err
	}
	version, dirty, err := mig.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		err = nil
	}
	return version, dirty, closeMigrate(mig, err)
}
