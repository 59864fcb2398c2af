package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/leapstack-labs/hbnb/internal/model"

	// sqlite driver for the object store.
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLiteBackend stores one row per object in a SQLite database.
type SQLiteBackend struct {
	db   *sql.DB
	path string
}

// OpenSQLiteBackend opens (or creates) the database at path and runs
// pending migrations. Use ":memory:" for an in-memory database.
func OpenSQLiteBackend(path string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if path == ":memory:" {
		// Each pooled connection would get its own empty database.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	b := &SQLiteBackend{db: db, path: path}
	if err := b.Migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return b, nil
}

// Migrate runs all pending schema migrations.
func (b *SQLiteBackend) Migrate() error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.Up(b.db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// MigrationVersion returns the current schema version.
func (b *SQLiteBackend) MigrationVersion() (int64, error) {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite"); err != nil {
		return 0, fmt.Errorf("failed to set dialect: %w", err)
	}
	return goose.GetDBVersion(b.db)
}

// Load returns the stored records ordered by insertion position.
func (b *SQLiteBackend) Load(ctx context.Context) ([]*model.Record, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT key, data FROM objects ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query objects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*model.Record
	for rows.Next() {
		var key, data string
		if err := rows.Scan(&key, &data); err != nil {
			return nil, fmt.Errorf("failed to scan object: %w", err)
		}
		rec := model.NewRecord()
		if err := json.Unmarshal([]byte(data), rec); err != nil {
			return nil, fmt.Errorf("failed to decode object %s: %w", key, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Store replaces the table contents with records in one transaction.
func (b *SQLiteBackend) Store(ctx context.Context, records []*model.Record) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM objects`); err != nil {
		return fmt.Errorf("failed to clear objects: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO objects (key, class_name, id, position, data) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, rec := range records {
		class, _ := rec.Get(model.FieldClassName)
		id, _ := rec.Get(model.FieldID)
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		classStr, idStr := fmt.Sprint(class), fmt.Sprint(id)
		if _, err := stmt.ExecContext(ctx, Key(classStr, idStr), classStr, idStr, i, string(data)); err != nil {
			return fmt.Errorf("failed to insert object %s: %w", Key(classStr, idStr), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (b *SQLiteBackend) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}
