package database

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DriverFromURL определяет драйвер по строке подключения из конфигурации:
// postgres:// префикс означает PostgreSQL, все остальное трактуется
// как путь к файлу SQLite (включая :memory:).
func DriverFromURL(databaseURL string) string {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		return "postgres"
	}
	return "sqlite3"
}

// Connect открывает соединение с базой данных и проверяет его пингом.
func Connect(databaseURL string, logger *slog.Logger) (*sqlx.DB, error) {
	driver := DriverFromURL(databaseURL)
	logger.Info("Connecting to database", slog.String("driver", driver))

	db, err := sqlx.Connect(driver, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	if driver == "sqlite3" {
		// Внешние ключи в SQLite выключены по умолчанию
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable sqlite foreign keys: %w", err)
		}
	}

	logger.Info("Successfully connected to database", slog.String("driver", driver))
	return db, nil
}
