// Package sqlite stores quiz history and question reports in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// Open opens (creating if needed) the database at path and applies pending migrations.
// Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string, logger *zap.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL", path)
	logger.Info("opening database", zap.String("path", path))

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	// single writer; also keeps one shared connection for :memory:
	db.SetMaxOpenConns(1)

	if err := migrate(ctx, db, logger); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied_at DATETIME DEFAULT CURRENT_TIMESTAMP)`); err != nil {
		return err
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return err
	}
	for _, entry := range entries {
		version := entry.Name()

		var applied int
		q, args, err := sqlBuilder.Select("COUNT(*)").From("schema_migrations").Where(squirrel.Eq{"version": version}).ToSql()
		if err != nil {
			return err
		}
		if err := db.QueryRowContext(ctx, q, args...).Scan(&applied); err != nil {
			return err
		}
		if applied > 0 {
			continue
		}

		body, err := migrationsFS.ReadFile("migrations/" + version)
		if err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx, string(body)); err != nil {
			return fmt.Errorf("apply migration %s: %w", version, err)
		}
		if _, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
			return err
		}
		logger.Info("migration applied", zap.String("version", version))
	}
	return nil
}
