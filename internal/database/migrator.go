package database

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Migration — одна версионированная миграция схемы.
type Migration struct {
	Version string
	Name    string
	SQL     string
}

// Migrator применяет версионированные .sql миграции из каталога,
// соответствующего диалекту базы (migrations/sqlite или migrations/postgres).
type Migrator struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewMigrator(db *sqlx.DB, logger *slog.Logger) *Migrator {
	return &Migrator{db: db, logger: logger}
}

// dialectDir возвращает подкаталог миграций для текущего драйвера.
func (m *Migrator) dialectDir(migrationsPath string) string {
	if m.db.DriverName() == "postgres" {
		return filepath.Join(migrationsPath, "postgres")
	}
	return filepath.Join(migrationsPath, "sqlite")
}

// initialize создает таблицу учета примененных миграций.
func (m *Migrator) initialize() error {
	query := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := m.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

// appliedMigrations возвращает версии уже примененных миграций.
func (m *Migrator) appliedMigrations() (map[string]bool, error) {
	applied := make(map[string]bool)

	rows, err := m.db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

// loadMigrations загружает все .sql файлы миграций из каталога диалекта.
func (m *Migrator) loadMigrations(dir string) ([]Migration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory %s: %w", dir, err)
	}

	var migrations []Migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		// Версия берется из имени файла: "001_init.sql" -> "001"
		parts := strings.SplitN(entry.Name(), "_", 2)
		if len(parts) < 2 {
			m.logger.Warn("Skipping invalid migration filename", slog.String("file", entry.Name()))
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		migrations = append(migrations, Migration{
			Version: parts[0],
			Name:    entry.Name(),
			SQL:     string(content),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

// apply выполняет одну миграцию в транзакции и фиксирует ее версию.
func (m *Migrator) apply(migration Migration) error {
	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(migration.SQL); err != nil {
		return fmt.Errorf("failed to execute migration %s: %w", migration.Name, err)
	}

	insert := m.db.Rebind("INSERT INTO schema_migrations (version) VALUES (?)")
	if _, err := tx.Exec(insert, migration.Version); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", migration.Name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %s: %w", migration.Name, err)
	}

	m.logger.Info("Applied migration", slog.String("name", migration.Name))
	return nil
}

// Run применяет все неприменённые миграции.
func (m *Migrator) Run(migrationsPath string) error {
	if err := m.initialize(); err != nil {
		return err
	}

	applied, err := m.appliedMigrations()
	if err != nil {
		return err
	}

	migrations, err := m.loadMigrations(m.dialectDir(migrationsPath))
	if err != nil {
		return err
	}

	pending := 0
	for _, migration := range migrations {
		if applied[migration.Version] {
			continue
		}
		if err := m.apply(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		pending++
	}

	if pending == 0 {
		m.logger.Info("No pending migrations")
	} else {
		m.logger.Info("Successfully applied migrations", slog.Int("count", pending))
	}
	return nil
}
