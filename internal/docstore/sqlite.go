package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLite stores every collection in one documents table, the JSON body in a
// TEXT column. Filters are evaluated in Go after loading the collection;
// corpora here are operator-scale.
type SQLite struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLite, error) {
	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1) // sqlite typically wants 1 writer
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS documents (
  collection TEXT NOT NULL,
  id TEXT NOT NULL,
  doc TEXT NOT NULL,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL,
  PRIMARY KEY (collection, id)
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_documents_created
ON documents(collection, created_at);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLite) List(ctx context.Context, collection string, filters ...Filter) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, doc, created_at, updated_at
FROM documents
WHERE collection = ?
ORDER BY created_at;`, collection)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var d Document
		var body, createdStr, updatedStr string
		if err := rows.Scan(&d.ID, &body, &createdStr, &updatedStr); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(body), &d.Data); err != nil {
			return nil, fmt.Errorf("list %s: doc %s: %w", collection, d.ID, err)
		}
		d.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		d.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedStr)
		if matches(d.Data, filters) {
			out = append(out, d)
		}
	}
	return out, rows.Err()
}

func (s *SQLite) Create(ctx context.Context, collection string, data map[string]any) (string, error) {
	id := uuid.NewString()
	body, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("create in %s: %w", collection, err)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(ctx, `
INSERT INTO documents (collection, id, doc, created_at, updated_at)
VALUES (?, ?, ?, ?, ?);`, collection, id, string(body), now, now)
	if err != nil {
		return "", fmt.Errorf("create in %s: %w", collection, err)
	}
	return id, nil
}

func (s *SQLite) CreateBatch(ctx context.Context, collection string, docs []map[string]any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("batch create in %s: %w", collection, err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, data := range docs {
		body, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("batch create in %s: %w", collection, err)
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO documents (collection, id, doc, created_at, updated_at)
VALUES (?, ?, ?, ?, ?);`, collection, uuid.NewString(), string(body), now, now); err != nil {
			return fmt.Errorf("batch create in %s: %w", collection, err)
		}
	}
	return tx.Commit()
}

func (s *SQLite) Update(ctx context.Context, collection, id string, patch Patch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	defer func() { _ = tx.Rollback() }()

	var body string
	err = tx.QueryRowContext(ctx, `
SELECT doc FROM documents WHERE collection = ? AND id = ?;`, collection, id).Scan(&body)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(body), &data); err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	applyPatch(data, patch)

	newBody, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := tx.ExecContext(ctx, `
UPDATE documents SET doc = ?, updated_at = ?
WHERE collection = ? AND id = ?;`, string(newBody), now, collection, id); err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return tx.Commit()
}

func (s *SQLite) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.ExecContext(ctx, `
DELETE FROM documents WHERE collection = ? AND id = ?;`, collection, id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
