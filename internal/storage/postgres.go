package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresBackend struct {
	pool *pgxpool.Pool
}

// openPostgres creates a connection pool and verifies it.
func openPostgres(ctx context.Context, dsn string) (*postgresBackend, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &postgresBackend{pool: pool}, nil
}

const postgresUpsert = `INSERT INTO documents (collection, id, sort_at, body, updated_at)
	VALUES ($1, $2, $3, $4, now())
	ON CONFLICT (collection, id) DO UPDATE SET
	sort_at = EXCLUDED.sort_at, body = EXCLUDED.body, updated_at = now()`

func (b *postgresBackend) put(ctx context.Context, collection string, doc document) error {
	_, err := b.pool.Exec(ctx, postgresUpsert, collection, doc.ID, doc.SortAt.UTC(), string(doc.Body))
	return err
}

func (b *postgresBackend) putAll(ctx context.Context, collection string, docs []document) error {
	batch := &pgx.Batch{}
	for _, doc := range docs {
		batch.Queue(postgresUpsert, collection, doc.ID, doc.SortAt.UTC(), string(doc.Body))
	}
	tx, err := b.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("inserting batch: %w", err)
	}
	return tx.Commit(ctx)
}

func (b *postgresBackend) get(ctx context.Context, collection, id string) ([]byte, error) {
	var body string
	err := b.pool.QueryRow(ctx,
		`SELECT body::text FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying %s/%s: %w", collection, id, err)
	}
	return []byte(body), nil
}

func (b *postgresBackend) list(ctx context.Context, collection string) ([]document, error) {
	rows, err := b.pool.Query(ctx,
		`SELECT id, sort_at, body::text FROM documents WHERE collection = $1
		 ORDER BY sort_at DESC, id`,
		collection)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []document
	for rows.Next() {
		var (
			doc  document
			body string
		)
		if err := rows.Scan(&doc.ID, &doc.SortAt, &body); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", collection, err)
		}
		doc.Body = []byte(body)
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (b *postgresBackend) delete(ctx context.Context, collection, id string) (bool, error) {
	tag, err := b.pool.Exec(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (b *postgresBackend) count(ctx context.Context, collection string) (int, error) {
	var n int
	err := b.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM documents WHERE collection = $1`, collection).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting %s: %w", collection, err)
	}
	return n, nil
}

func (b *postgresBackend) close() error {
	b.pool.Close()
	return nil
}
