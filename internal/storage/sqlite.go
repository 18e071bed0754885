package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// sortLayout is fixed width so text ordering matches time ordering.
const sortLayout = "2006-01-02T15:04:05.000000000Z"

type sqliteBackend struct {
	db *sql.DB
}

// ensureSQLiteDir creates the directory holding the database file. A dsn
// may carry query parameters after the path.
func ensureSQLiteDir(dsn string) error {
	path, _, _ := strings.Cut(dsn, "?")
	if dir := filepath.Dir(path); path != ":memory:" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating database dir %s: %w", dir, err)
		}
	}
	return nil
}

// openSQLite opens (or creates) the SQLite database at dsn.
func openSQLite(ctx context.Context, dsn string) (*sqliteBackend, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	// One writer; concurrent connections only produce SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite: %w", err)
	}
	return &sqliteBackend{db: db}, nil
}

const sqliteUpsert = `INSERT INTO documents (collection, id, sort_at, body, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (collection, id) DO UPDATE SET
	sort_at = excluded.sort_at, body = excluded.body, updated_at = excluded.updated_at`

func (b *sqliteBackend) put(ctx context.Context, collection string, doc document) error {
	_, err := b.db.ExecContext(ctx, sqliteUpsert,
		collection, doc.ID, doc.SortAt.UTC().Format(sortLayout), string(doc.Body),
		time.Now().UTC().Format(sortLayout))
	return err
}

func (b *sqliteBackend) putAll(ctx context.Context, collection string, docs []document) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, sqliteUpsert)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(sortLayout)
	for _, doc := range docs {
		if _, err := stmt.ExecContext(ctx, collection, doc.ID,
			doc.SortAt.UTC().Format(sortLayout), string(doc.Body), now); err != nil {
			return fmt.Errorf("inserting %s: %w", doc.ID, err)
		}
	}
	return tx.Commit()
}

func (b *sqliteBackend) get(ctx context.Context, collection, id string) ([]byte, error) {
	var body string
	err := b.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE collection = ? AND id = ?`,
		collection, id,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying %s/%s: %w", collection, id, err)
	}
	return []byte(body), nil
}

func (b *sqliteBackend) list(ctx context.Context, collection string) ([]document, error) {
	rows, err := b.db.QueryContext(ctx,
		`SELECT id, sort_at, body FROM documents WHERE collection = ?
		 ORDER BY sort_at DESC, id`,
		collection)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []document
	for rows.Next() {
		var (
			doc          document
			sortAt, body string
		)
		if err := rows.Scan(&doc.ID, &sortAt, &body); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", collection, err)
		}
		doc.SortAt, _ = time.Parse(sortLayout, sortAt)
		doc.Body = []byte(body)
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (b *sqliteBackend) delete(ctx context.Context, collection, id string) (bool, error) {
	res, err := b.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (b *sqliteBackend) count(ctx context.Context, collection string) (int, error) {
	var n int
	err := b.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents WHERE collection = ?`, collection).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting %s: %w", collection, err)
	}
	return n, nil
}

func (b *sqliteBackend) close() error {
	return b.db.Close()
}
