// Package sqlite implements stlref.Store using pure-Go SQLite. Zero CGO
// required. Worked examples are stored as JSON text, and keyword search is
// done with LIKE matching ranked by where the match occurred.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/stlref/stlref"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// StoreOption configures a SQLite Store.
type StoreOption func(*Store)

// WithLogger sets a structured logger for the store.
// When set, the store emits debug logs for every operation including
// timing and row counts. If not set, no logs are emitted.
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) { s.logger = l }
}

// Store implements stlref.Store backed by a local SQLite file.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ stlref.Store = (*Store)(nil)

// nopLogger is a logger that discards all output.
var nopLogger = slog.New(discardHandler{})

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// New creates a Store using a local SQLite file at dbPath.
// It opens a single shared connection pool with SetMaxOpenConns(1) so that
// all goroutines serialize through one connection, eliminating SQLITE_BUSY
// errors caused by concurrent writers opening independent connections.
func New(dbPath string, opts ...StoreOption) *Store {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		// sql.Open only fails when the driver is not registered; with the
		// blank import above that never happens.
		panic(fmt.Sprintf("sqlite: open driver: %v", err))
	}
	db.SetMaxOpenConns(1)
	s := &Store{db: db, logger: nopLogger}
	for _, o := range opts {
		o(s)
	}
	s.logger.Debug("sqlite: store opened", "path", dbPath)
	return s
}

// Init creates all required tables.
func (s *Store) Init(ctx context.Context) error {
	start := time.Now()
	tables := []string{
		`CREATE TABLE IF NOT EXISTS topics (
			slug TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			summary TEXT NOT NULL DEFAULT '',
			updated_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS entries (
			id TEXT PRIMARY KEY,
			topic_slug TEXT NOT NULL REFERENCES topics(slug) ON DELETE CASCADE,
			name TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			op TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL,
			example TEXT,
			position INTEGER NOT NULL,
			UNIQUE(topic_slug, name)
		)`,
		`CREATE INDEX IF NOT EXISTS entries_name_idx ON entries(name)`,
	}
	for _, q := range tables {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	s.logger.Debug("sqlite: init done", "elapsed", time.Since(start))
	return nil
}

// PutTopic replaces the stored topic and all of its entries in one
// transaction.
func (s *Store) PutTopic(ctx context.Context, t stlref.Topic) error {
	start := time.Now()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO topics (slug, title, summary, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(slug) DO UPDATE SET title=excluded.title, summary=excluded.summary, updated_at=excluded.updated_at`,
		t.Slug, t.Title, t.Summary, stlref.NowUnix()); err != nil {
		return fmt.Errorf("upsert topic: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE topic_slug = ?`, t.Slug); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}

	for i, e := range t.Entries {
		example, err := marshalExample(e.Example)
		if err != nil {
			return fmt.Errorf("entry %q: %w", e.Name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO entries (id, topic_slug, name, category, op, description, example, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			stlref.NewID(), t.Slug, e.Name, e.Category, e.Op, e.Description, example, i); err != nil {
			return fmt.Errorf("insert entry %q: %w", e.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.logger.Debug("sqlite: topic stored", "slug", t.Slug, "entries", len(t.Entries), "elapsed", time.Since(start))
	return nil
}

// ListTopics returns stored topics without their entries, in slug order.
func (s *Store) ListTopics(ctx context.Context) ([]stlref.Topic, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT slug, title, summary FROM topics ORDER BY slug`)
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
	row := s.db.QueryRowContext(ctx,
		`SELECT name, category, op, description, example FROM entries WHERE topic_slug = ? AND name = ?`,
		slug, name)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
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
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, category, op, description, example FROM entries WHERE topic_slug = ? ORDER BY position`,
		slug)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

// CountEntries returns the number of entries stored for a topic.
func (s *Store) CountEntries(ctx context.Context, slug string) (int, error) {
	if err := s.topicExists(ctx, slug); err != nil {
		return 0, err
	}
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries WHERE topic_slug = ?`, slug).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

// SearchEntries returns up to limit entries whose name, category or
// description match the keyword query. Name matches rank above category
// matches, which rank above description matches.
func (s *Store) SearchEntries(ctx context.Context, query string, limit int) ([]stlref.Entry, error) {
	start := time.Now()
	if limit <= 0 {
		limit = 10
	}
	pattern := "%" + escapeLike(query) + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, category, op, description, example,
		        CASE WHEN name LIKE ?1 ESCAPE '\' THEN 0
		             WHEN category LIKE ?1 ESCAPE '\' THEN 1
		             ELSE 2 END AS rank
		   FROM entries
		  WHERE name LIKE ?1 ESCAPE '\'
		     OR category LIKE ?1 ESCAPE '\'
		     OR description LIKE ?1 ESCAPE '\'
		  ORDER BY rank, name
		  LIMIT ?2`,
		pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search entries: %w", err)
	}
	defer rows.Close()

	var entries []stlref.Entry
	for rows.Next() {
		var e stlref.Entry
		var example sql.NullString
		var rank int
		if err := rows.Scan(&e.Name, &e.Category, &e.Op, &e.Description, &example, &rank); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if e.Example, err = unmarshalExample(example); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	s.logger.Debug("sqlite: search", "query", query, "hits", len(entries), "elapsed", time.Since(start))
	return entries, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) topicExists(ctx context.Context, slug string) error {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM topics WHERE slug = ?`, slug).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return &stlref.NotFoundError{Topic: slug}
	}
	if err != nil {
		return fmt.Errorf("check topic: %w", err)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (stlref.Entry, error) {
	var e stlref.Entry
	var example sql.NullString
	if err := row.Scan(&e.Name, &e.Category, &e.Op, &e.Description, &example); err != nil {
		return stlref.Entry{}, err
	}
	var err error
	if e.Example, err = unmarshalExample(example); err != nil {
		return stlref.Entry{}, err
	}
	return e, nil
}

func collectEntries(rows *sql.Rows) ([]stlref.Entry, error) {
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

func marshalExample(ex *stlref.Example) (any, error) {
	if ex == nil {
		return nil, nil
	}
	b, err := json.Marshal(ex)
	if err != nil {
		return nil, fmt.Errorf("marshal example: %w", err)
	}
	return string(b), nil
}

func unmarshalExample(col sql.NullString) (*stlref.Example, error) {
	if !col.Valid || col.String == "" {
		return nil, nil
	}
	var ex stlref.Example
	if err := json.Unmarshal([]byte(col.String), &ex); err != nil {
		return nil, fmt.Errorf("unmarshal example: %w", err)
	}
	return &ex, nil
}

// escapeLike escapes LIKE wildcards in user queries.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
