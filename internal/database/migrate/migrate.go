// Package migrate applies the SQL migrations in migrations/ with golang-migrate.
package migrate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
	"gorm.io/gorm"

	appConfig "github.com/konkursant/portal/internal/config"
)

// GetMigrationsPath returns MIGRATIONS_PATH, or "migrations" relative to the working directory.
func GetMigrationsPath() string {
	return appConfig.GetEnv("MIGRATIONS_PATH", "migrations")
}

// zapLogger routes golang-migrate's progress messages to zap at debug level.
type zapLogger struct {
	logger *zap.SugaredLogger
}

func (l zapLogger) Printf(format string, v ...any) {
	l.logger.Debugf(strings.TrimSuffix(format, "\n"), v...)
}

func (l zapLogger) Verbose() bool {
	return false
}

// Migrate brings the postgres schema behind db up to the newest migration in dir.
// It is safe to call on every start; an up-to-date schema is not an error.
func Migrate(db *gorm.DB, dir string, logger *zap.SugaredLogger) error {
	if db == nil {
		return errors.New("database connection is nil")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	migrationsPath, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve migrations path %q: %w", dir, err)
	}
	if _, statErr := os.Stat(migrationsPath); errors.Is(statErr, os.ErrNotExist) {
		return fmt.Errorf("migrations directory does not exist: %s", migrationsPath)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+filepath.ToSlash(migrationsPath), "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	m.Log = zapLogger{logger: logger}

	// m.Close is not called: it would close the pool shared with gorm.
	from, _, _ := m.Version()
	switch err := m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Debugw("schema is up to date", "version", from)
		return nil
	case err != nil:
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	to, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	logger.Infow("migrations applied", "from", from, "to", to, "dirty", dirty)
	return nil
}
