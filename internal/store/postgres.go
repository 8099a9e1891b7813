package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres keeps the record tree in a single jsonb table. Each row holds one
// document plus its parent path so child listing is an indexed lookup.
type Postgres struct {
	DB *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{DB: pool}
}

func (p *Postgres) Get(ctx context.Context, path string) (json.RawMessage, error) {
	var data []byte
	err := p.DB.QueryRow(ctx, `SELECT data FROM records WHERE path = $1`, path).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

func (p *Postgres) Set(ctx context.Context, path string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	parent, key := splitPath(path)
	_, err = p.DB.Exec(ctx, `
    INSERT INTO records (path, parent, key, data)
    VALUES ($1, $2, $3, $4)
    ON CONFLICT (path) DO UPDATE SET data = EXCLUDED.data, updated_at = now()
  `, path, parent, key, data)
	return err
}

func (p *Postgres) Update(ctx context.Context, path string, fields map[string]any) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	parent, key := splitPath(path)
	_, err = p.DB.Exec(ctx, `
    INSERT INTO records (path, parent, key, data)
    VALUES ($1, $2, $3, $4)
    ON CONFLICT (path) DO UPDATE SET data = records.data || EXCLUDED.data, updated_at = now()
  `, path, parent, key, data)
	return err
}

func (p *Postgres) Push(ctx context.Context, path string, value any) (string, error) {
	key := uuid.NewString()
	if err := p.Set(ctx, joinPath(path, key), value); err != nil {
		return "", err
	}
	return key, nil
}

func (p *Postgres) Children(ctx context.Context, path string) (map[string]json.RawMessage, error) {
	rows, err := p.DB.Query(ctx, `SELECT key, data FROM records WHERE parent = $1`, path)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	children := map[string]json.RawMessage{}
	for rows.Next() {
		var key string
		var data []byte
		if err := rows.Scan(&key, &data); err != nil {
			return nil, err
		}
		children[key] = json.RawMessage(data)
	}
	return children, rows.Err()
}

func (p *Postgres) ChildKeys(ctx context.Context, path string) ([]string, error) {
	rows, err := p.DB.Query(ctx, `
    SELECT DISTINCT split_part(substr(path, length($1) + 2), '/', 1)
    FROM records
    WHERE path LIKE $1 || '/%'
  `, path)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Transform runs fn against the current row under a row lock so concurrent
// read-modify-write cycles on the same path serialize instead of racing.
func (p *Postgres) Transform(ctx context.Context, path string, fn func(current json.RawMessage) (any, error)) error {
	tx, err := p.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current []byte
	err = tx.QueryRow(ctx, `SELECT data FROM records WHERE path = $1 FOR UPDATE`, path).Scan(&current)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	var raw json.RawMessage
	if current != nil {
		raw = json.RawMessage(current)
	}
	next, err := fn(raw)
	if err != nil {
		return err
	}

	data, err := json.Marshal(next)
	if err != nil {
		return err
	}
	parent, key := splitPath(path)
	if _, err := tx.Exec(ctx, `
    INSERT INTO records (path, parent, key, data)
    VALUES ($1, $2, $3, $4)
    ON CONFLICT (path) DO UPDATE SET data = EXCLUDED.data, updated_at = now()
  `, path, parent, key, data); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
