package canvasdoc

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresStore persists documents as JSONB rows with an optimistic version
// column. A small LRU in front keeps hot canvases off the database on reads;
// it is invalidated on every write.
type PostgresStore struct {
	db *sql.DB

	schemaOnce sync.Once
	schemaErr  error

	docCache *lru.Cache[string, Document]
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	cache, err := lru.New[string, Document](1024)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PostgresStore{db: db, docCache: cache}, nil
}

// NewFromEnv returns a Postgres-backed store when CANVAS_STORE_PG_DSN is
// set and reachable, and the file store at path otherwise.
func NewFromEnv(path string) Store {
	dsn := strings.TrimSpace(os.Getenv("CANVAS_STORE_PG_DSN"))
	if dsn == "" {
		return NewFileStore(path)
	}
	s, err := NewPostgresStore(dsn)
	if err != nil {
		return NewFileStore(path)
	}
	return s
}

func (s *PostgresStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS canvas_documents (
    canvas_id  TEXT PRIMARY KEY,
    version    BIGINT NOT NULL DEFAULT 0,
    doc        JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`)
	})
	return s.schemaErr
}

func (s *PostgresStore) Get(ctx context.Context, canvasID string) (Document, error) {
	if s == nil || s.db == nil {
		return Document{}, fmt.Errorf("store is nil")
	}
	key := strings.TrimSpace(canvasID)
	if key == "" {
		return Document{}, fmt.Errorf("canvas_id is required")
	}
	if doc, ok := s.docCache.Get(key); ok {
		return doc, nil
	}
	if err := s.ensureSchema(ctx); err != nil {
		return Document{}, fmt.Errorf("ensure schema: %w", err)
	}

	var version int64
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT version, doc FROM canvas_documents WHERE canvas_id = $1`, key,
	).Scan(&version, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{CanvasID: key}, nil
	}
	if err != nil {
		return Document{}, err
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("decode document %s: %w", key, err)
	}
	doc.CanvasID = key
	doc.Version = version
	s.docCache.Add(key, doc)
	return doc, nil
}

func (s *PostgresStore) Put(ctx context.Context, doc Document, baseVersion int64) (Document, bool, error) {
	if s == nil || s.db == nil {
		return Document{}, false, fmt.Errorf("store is nil")
	}
	key := strings.TrimSpace(doc.CanvasID)
	if key == "" {
		return Document{}, false, fmt.Errorf("canvas_id is required")
	}
	if err := s.ensureSchema(ctx); err != nil {
		return Document{}, false, fmt.Errorf("ensure schema: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Document{}, false, err
	}
	defer tx.Rollback()

	var current int64
	err = tx.QueryRowContext(ctx,
		`SELECT version FROM canvas_documents WHERE canvas_id = $1 FOR UPDATE`, key,
	).Scan(&current)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Document{}, false, err
	}
	if baseVersion > 0 && baseVersion != current {
		stored, getErr := s.getTx(ctx, tx, key, current)
		if getErr != nil {
			return Document{}, false, getErr
		}
		return stored, true, nil
	}

	doc.CanvasID = key
	doc.Version = current + 1
	raw, err := json.Marshal(doc)
	if err != nil {
		return Document{}, false, fmt.Errorf("encode document %s: %w", key, err)
	}
	_, err = tx.ExecContext(ctx, `
INSERT INTO canvas_documents (canvas_id, version, doc, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (canvas_id)
DO UPDATE SET version = $2, doc = $3, updated_at = now()`,
		key, doc.Version, raw)
	if err != nil {
		return Document{}, false, err
	}
	if err := tx.Commit(); err != nil {
		return Document{}, false, err
	}

	s.docCache.Add(key, doc)
	return doc, false, nil
}

func (s *PostgresStore) getTx(ctx context.Context, tx *sql.Tx, key string, version int64) (Document, error) {
	var raw []byte
	err := tx.QueryRowContext(ctx,
		`SELECT doc FROM canvas_documents WHERE canvas_id = $1`, key,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{CanvasID: key}, nil
	}
	if err != nil {
		return Document{}, err
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("decode document %s: %w", key, err)
	}
	doc.CanvasID = key
	doc.Version = version
	return doc, nil
}
