package storage

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists entities as jsonb documents in a single table
// keyed by (collection, id). The schema lives in migrations/.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an existing pgx pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// GetAll returns every document in the collection.
func (p *PostgresStore) GetAll(ctx context.Context, collection string) ([]json.RawMessage, error) {
	const query = `SELECT data FROM entities WHERE collection=$1 ORDER BY updated_at DESC`
	rows, err := p.pool.Query(ctx, query, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []json.RawMessage
	for rows.Next() {
		var raw json.RawMessage
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, rows.Err()
}

// GetByID returns one document or ErrNotFound.
func (p *PostgresStore) GetByID(ctx context.Context, collection, id string) (json.RawMessage, error) {
	const query = `SELECT data FROM entities WHERE collection=$1 AND id=$2`
	var raw json.RawMessage
	if err := p.pool.QueryRow(ctx, query, collection, id).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return raw, nil
}

// Put upserts the entity document.
func (p *PostgresStore) Put(ctx context.Context, collection, id string, entity any) error {
	raw, err := json.Marshal(entity)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO entities (collection, id, data, updated_at)
        VALUES ($1, $2, $3, NOW())
        ON CONFLICT (collection, id) DO UPDATE SET data=EXCLUDED.data, updated_at=NOW()`
	_, err = p.pool.Exec(ctx, query, collection, id, raw)
	return err
}

// Delete removes the document if present.
func (p *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	const query = `DELETE FROM entities WHERE collection=$1 AND id=$2`
	_, err := p.pool.Exec(ctx, query, collection, id)
	return err
}
