// Package postgres implements stlref.Store using PostgreSQL with
// tsvector/tsquery full-text keyword search.
//
// The Store accepts an externally-owned *pgxpool.Pool via constructor
// injection. The caller creates and closes the pool.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stlref/stlref"
)

// Store implements stlref.Store backed by PostgreSQL. Keyword search uses a
// GIN-indexed tsvector over entry name, category and description.
type Store struct {
	pool *pgxpool.Pool
	cfg  pgConfig
}

// pgConfig holds store configuration set via Option functions.
type pgConfig struct {
	textSearchConfig string // e.g. "english"; empty uses "simple"
}

// Option configures a PostgreSQL Store.
type Option func(*pgConfig)

// WithTextSearchConfig sets the PostgreSQL text search configuration used
// for keyword search ("english", "simple", ...). Operation names are not
// natural language, so the default is "simple", which skips stemming.
func WithTextSearchConfig(name string) Option {
	return func(c *pgConfig) { c.textSearchConfig = name }
}

var _ stlref.Store = (*Store)(nil)

// New creates a Store on top of an existing pool.
func New(pool *pgxpool.Pool, opts ...Option) *Store {
	cfg := pgConfig{textSearchConfig: "simple"}
	for _, o := range opts {
		o(&cfg)
	}
	return &Store{pool: pool, cfg: cfg}
}

// searchVector is the indexed expression; it must match the WHERE clause in
// SearchEntries exactly or the GIN index is not used.
func (s *Store) searchVector(col string) string {
	return fmt.Sprintf("to_tsvector('%s', %s)", s.cfg.textSearchConfig, col)
}

const searchText = "name || ' ' || category || ' ' || description"

// Init creates all required tables and indexes.
func (s *Store) Init(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS topics (
			slug TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			summary TEXT NOT NULL DEFAULT '',
			updated_at BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS entries (
			id UUID PRIMARY KEY,
			topic_slug TEXT NOT NULL REFERENCES topics(slug) ON DELETE CASCADE,
			name TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			op TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL,
			example JSONB,
			position INT NOT NULL,
			UNIQUE(topic_slug, name)
		)`,
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS entries_fts_idx ON entries USING gin(%s)`,
			s.searchVector(searchText)),
	}
	for _, q := range stmts {
		if _, err := s.pool.Exec(ctx, q); err != nil {
			return fmt.Errorf("init: %w", err)
		}
	}
	return nil
}

// PutTopic replaces the stored topic and all of its entries in one
// transaction.
func (s *Store) PutTopic(ctx context.Context, t stlref.Topic) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO topics (slug, title, summary, updated_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (slug) DO UPDATE SET title=EXCLUDED.title, summary=EXCLUDED.summary, updated_at=EXCLUDED.updated_at`,
		t.Slug, t.Title, t.Summary, stlref.NowUnix()); err != nil {
		return fmt.Errorf("upsert topic: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM entries WHERE topic_slug = $1`, t.Slug); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}

	for i, e := range t.Entries {
		var example []byte
		if e.Example != nil {
			if example, err = json.Marshal(e.Example); err != nil {
				return fmt.Errorf("entry %q: marshal example: %w", e.Name, err)
			}
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO entries (id, topic_slug, name, category, op, description, example, position)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			stlref.NewID(), t.Slug, e.Name, e.Category, e.Op, e.Description, example, i); err != nil {
			return fmt.Errorf("insert entry %q: %w", e.Name, err)
		}
	}

	return tx.Commit(ctx)
}

// ListTopics returns stored topics without their entries, in slug order.
func (s *Store) ListTopics(ctx context.Context) ([]stlref.Topic, error) {
	rows, err := s.pool.Query(ctx, `SELECT slug, title, summary FROM topics ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	defer rows.Close()

	var topics []stlref.Topic
	for rows.Next() {
		var t stlref.Topic
		if err := rows.Scan(&t.Slug, &t.Title, &t.Summary); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// GetEntry returns one entry by topic slug and operation name.
func (s *Store) GetEntry(ctx context.Context, slug, name string) (stlref.Entry, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT name, category, op, description, example FROM entries WHERE topic_slug = $1 AND name = $2`,
		slug, name)
	e, err := scanEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return stlref.Entry{}, &stlref.NotFoundError{Topic: slug, Operation: name}
	}
	if err != nil {
		return stlref.Entry{}, fmt.Errorf("get entry: %w", err)
	}
	return e, nil
}

// ListEntries returns all entries of a topic in authored order.
func (s *Store) ListEntries(ctx context.Context, slug string) ([]stlref.Entry, error) {
	if err := s.topicExists(ctx, slug); err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx,
		`SELECT name, category, op, description, example FROM entries WHERE topic_slug = $1 ORDER BY position`,
		slug)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []stlref.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountEntries returns the number of entries stored for a topic.
func (s *Store) CountEntries(ctx context.Context, slug string) (int, error) {
	if err := s.topicExists(ctx, slug); err != nil {
		return 0, err
	}
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM entries WHERE topic_slug = $1`, slug).Scan(&n); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

// SearchEntries returns up to limit entries matching the keyword query,
// ranked with ts_rank.
func (s *Store) SearchEntries(ctx context.Context, query string, limit int) ([]stlref.Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	vector := s.searchVector(searchText)
	tsquery := fmt.Sprintf("plainto_tsquery('%s', $1)", s.cfg.textSearchConfig)
	rows, err := s.pool.Query(ctx,
		`SELECT name, category, op, description, example
		   FROM entries
		  WHERE `+vector+` @@ `+tsquery+`
		  ORDER BY ts_rank(`+vector+`, `+tsquery+`) DESC, name
		  LIMIT $2`,
		query, limit)
	if err != nil {
		return nil, fmt.Errorf("search entries: %w", err)
	}
	defer rows.Close()

	var entries []stlref.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close is a no-op; the pool is owned by the caller.
func (s *Store) Close() error { return nil }

func (s *Store) topicExists(ctx context.Context, slug string) error {
	var one int
	err := s.pool.QueryRow(ctx, `SELECT 1 FROM topics WHERE slug = $1`, slug).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return &stlref.NotFoundError{Topic: slug}
	}
	if err != nil {
		return fmt.Errorf("check topic: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (stlref.Entry, error) {
	var e stlref.Entry
	var example []byte
	if err := row.Scan(&e.Name, &e.Category, &e.Op, &e.Description, &example); err != nil {
		return stlref.Entry{}, err
	}
	if len(example) > 0 {
		e.Example = new(stlref.Example)
		if err := json.Unmarshal(example, e.Example); err != nil {
			return stlref.Entry{}, fmt.Errorf("unmarshal example: %w", err)
		}
	}
	return e, nil
}
