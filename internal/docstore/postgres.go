package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// Postgres mirrors the sqlite backend on a JSONB column. Same semantics,
// same Go-side filtering, so the two backends are interchangeable.
type Postgres struct {
	db *sql.DB
}

func OpenPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	p := &Postgres{db: db}
	if err := p.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return p, nil
}

func (p *Postgres) migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS documents (
  collection TEXT NOT NULL,
  id TEXT NOT NULL,
  doc JSONB NOT NULL,
  created_at TIMESTAMPTZ NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL,
  PRIMARY KEY (collection, id)
);`)
	if err != nil {
		return fmt.Errorf("migrate postgres: %w", err)
	}
	return nil
}

func (p *Postgres) List(ctx context.Context, collection string, filters ...Filter) ([]Document, error) {
	rows, err := p.db.QueryContext(ctx, `
SELECT id, doc, created_at, updated_at
FROM documents
WHERE collection = $1
ORDER BY created_at;`, collection)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var d Document
		var body []byte
		if err := rows.Scan(&d.ID, &body, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(body, &d.Data); err != nil {
			return nil, fmt.Errorf("list %s: doc %s: %w", collection, d.ID, err)
		}
		if matches(d.Data, filters) {
			out = append(out, d)
		}
	}
	return out, rows.Err()
}

func (p *Postgres) Create(ctx context.Context, collection string, data map[string]any) (string, error) {
	id := uuid.NewString()
	body, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("create in %s: %w", collection, err)
	}
	now := time.Now().UTC()
	_, err = p.db.ExecContext(ctx, `
INSERT INTO documents (collection, id, doc, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5);`, collection, id, body, now, now)
	if err != nil {
		return "", fmt.Errorf("create in %s: %w", collection, err)
	}
	return id, nil
}

func (p *Postgres) CreateBatch(ctx context.Context, collection string, docs []map[string]any) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("batch create in %s: %w", collection, err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	for _, data := range docs {
		body, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("batch create in %s: %w", collection, err)
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO documents (collection, id, doc, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5);`, collection, uuid.NewString(), body, now, now); err != nil {
			return fmt.Errorf("batch create in %s: %w", collection, err)
		}
	}
	return tx.Commit()
}

func (p *Postgres) Update(ctx context.Context, collection, id string, patch Patch) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	defer func() { _ = tx.Rollback() }()

	var body []byte
	err = tx.QueryRowContext(ctx, `
SELECT doc FROM documents WHERE collection = $1 AND id = $2 FOR UPDATE;`, collection, id).Scan(&body)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}

	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	applyPatch(data, patch)

	newBody, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if _, err := tx.ExecContext(ctx, `
UPDATE documents SET doc = $1, updated_at = $2
WHERE collection = $3 AND id = $4;`, newBody, time.Now().UTC(), collection, id); err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return tx.Commit()
}

func (p *Postgres) Delete(ctx context.Context, collection, id string) error {
	res, err := p.db.ExecContext(ctx, `
DELETE FROM documents WHERE collection = $1 AND id = $2;`, collection, id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) Close() error {
	if p == nil || p.db == nil {
		return nil
	}
	return p.db.Close()
}
