package persistence

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

//go:embed migrations
var migrationFS embed.FS

// migrationTarget abstracts the two database handles the runner applies SQL to.
type migrationTarget interface {
	exec(ctx context.Context, query string, args ...any) error
	appliedFiles(ctx context.Context) (map[string]bool, error)
}

// RunMigrations applies the embedded Postgres migrations that have not run yet.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	if pool == nil {
		logger.Warn("no postgres pool available; skipping migrations")
		return nil
	}
	return runMigrations(ctx, "postgres", pgxTarget{pool: pool}, logger)
}

// RunSQLiteMigrations applies the embedded SQLite migrations that have not run yet.
func RunSQLiteMigrations(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	if db == nil {
		logger.Warn("no sqlite database available; skipping migrations")
		return nil
	}
	return runMigrations(ctx, "sqlite", sqlTarget{db: db}, logger)
}

func runMigrations(ctx context.Context, dialect string, target migrationTarget, logger *zap.Logger) error {
	const createTracking = `
        CREATE TABLE IF NOT EXISTS schema_migrations (
            filename   TEXT PRIMARY KEY,
            applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`
	if err := target.exec(ctx, createTracking); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	applied, err := target.appliedFiles(ctx)
	if err != nil {
		return fmt.Errorf("read applied migrations: %w", err)
	}

	dir := path.Join("migrations", dialect)
	entries, err := fs.ReadDir(migrationFS, dir)
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	filenames := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".sql" {
			continue
		}
		filenames = append(filenames, entry.Name())
	}
	sort.Strings(filenames)

	count := 0
	for _, name := range filenames {
		if applied[name] {
			continue
		}
		content, err := fs.ReadFile(migrationFS, path.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		logger.Info("applying migration", zap.String("dialect", dialect), zap.String("file", name))
		if err := target.exec(ctx, string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		if err := target.exec(ctx, markAppliedQuery(dialect), name); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
		count++
	}

	logger.Info("migrations applied", zap.String("dialect", dialect), zap.Int("count", count))
	return nil
}

func markAppliedQuery(dialect string) string {
	if dialect == "postgres" {
		return `INSERT INTO schema_migrations (filename) VALUES ($1)`
	}
	return `INSERT INTO schema_migrations (filename) VALUES (?)`
}

type pgxTarget struct {
	pool *pgxpool.Pool
}

func (t pgxTarget) exec(ctx context.Context, query string, args ...any) error {
	_, err := t.pool.Exec(ctx, query, args...)
	return err
}

func (t pgxTarget) appliedFiles(ctx context.Context) (map[string]bool, error) {
	rows, err := t.pool.Query(ctx, `SELECT filename FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = true
	}
	return applied, rows.Err()
}

type sqlTarget struct {
	db *sql.DB
}

func (t sqlTarget) exec(ctx context.Context, query string, args ...any) error {
	_, err := t.db.ExecContext(ctx, query, args...)
	return err
}

func (t sqlTarget) appliedFiles(ctx context.Context) (map[string]bool, error) {
	rows, err := t.db.QueryContext(ctx, `SELECT filename FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = true
	}
	return applied, rows.Err()
}
