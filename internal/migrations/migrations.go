package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"todoTracker/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

//go:embed *.sql
var files embed.FS

func newMigrate(connString string) (*migrate.Migrate, *sql.DB, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, nil, fmt.Errorf("открытие соединения для миграций: %w", err)
	}

	driver, err := migratepgx.WithInstance(db, &migratepgx.Config{})
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("драйвер миграций: %w", err)
	}

	source, err := iofs.New(files, ".")
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("источник миграций: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "pgx5", driver)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("инициализация миграций: %w", err)
	}
	return m, db, nil
}

// Up применяет все ещё не применённые миграции.
func Up(connString string) error {
	logger.Info("Попытка миграций")

	m, db, err := newMigrate(connString)
	if err != nil {
		logger.Error("Migrations: ошибка инициализации", err)
		return err
	}
	defer db.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Migrations: не удалось применить миграции", err)
		return fmt.Errorf("применение миграций: %w", err)
	}

	logVersion(m)
	return nil
}

type versioner interface {
	Version() (uint, bool, error)
}

func logVersion(m versioner) {
	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		logger.Info("Migrations: миграции не применялись")
	case err != nil:
		logger.Error("Migrations: не удалось прочитать версию схемы", err)
	default:
		logger.Info("Migrations: схема актуальна", zap.Uint("version", version), zap.Bool("dirty", dirty))
	}
}

// Down откатывает все миграции.
func Down(connString string) error {
	logger.Info("Откат миграций")

	m, db, err := newMigrate(connString)
	if err != nil {
		logger.Error("Migrations: ошибка инициализации", err)
		return err
	}
	defer db.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Migrations: не удалось откатить миграции", err)
		return fmt.Errorf("откат миграций: %w", err)
	}

	logger.Info("Migrations: миграции откачены")
	return nil
}
