package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id TEXT NOT NULL,
	body TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	PRIMARY KEY (collection, id)
);
CREATE INDEX IF NOT EXISTS idx_documents_created ON documents(collection, created_at DESC);
`

// SQLite 基于 modernc.org/sqlite 的存储（纯 Go，无需 cgo）
type SQLite struct {
	db *sql.DB
}

// OpenSQLite 打开（必要时创建）数据库文件并建表
func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite store: path is required")
	}
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("sqlite store: create dir: %w", err)
			}
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: open %s: %w", path, err)
	}
	// sqlite 单写者
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite store: init schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Put(ctx context.Context, collection string, doc Document) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, body, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET body = excluded.body`,
		collection, doc.ID, string(doc.Body), doc.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("sqlite store: put %s/%s: %w", collection, doc.ID, err)
	}
	return nil
}

func (s *SQLite) Replace(ctx context.Context, collection string, doc Document) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET body = ? WHERE collection = ? AND id = ?`,
		string(doc.Body), collection, doc.ID)
	if err != nil {
		return fmt.Errorf("sqlite store: replace %s/%s: %w", collection, doc.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite store: replace %s/%s: %w", collection, doc.ID, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLite) Get(ctx context.Context, collection, id string) (Document, error) {
	var (
		body    string
		created int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT body, created_at FROM documents WHERE collection = ? AND id = ?`,
		collection, id).Scan(&body, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("sqlite store: get %s/%s: %w", collection, id, err)
	}
	return Document{ID: id, Body: []byte(body), CreatedAt: time.Unix(0, created).UTC()}, nil
}

func (s *SQLite) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		return fmt.Errorf("sqlite store: delete %s/%s: %w", collection, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite store: delete %s/%s: %w", collection, id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLite) List(ctx context.Context, collection string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, body, created_at FROM documents WHERE collection = ? ORDER BY created_at DESC, id DESC`,
		collection)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: list %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var (
			id, body string
			created  int64
		)
		if err := rows.Scan(&id, &body, &created); err != nil {
			return nil, fmt.Errorf("sqlite store: scan %s: %w", collection, err)
		}
		docs = append(docs, Document{ID: id, Body: []byte(body), CreatedAt: time.Unix(0, created).UTC()})
	}
	return docs, rows.Err()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
