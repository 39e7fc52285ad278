package stlref

import "context"

// Store abstracts persistence for serving the catalog out of a database.
// Implementations: store/sqlite (local file, pure Go), store/postgres
// (pgx pool, full-text keyword search).
//
// Stores are synced from authored topics, never edited entry-by-entry:
// PutTopic replaces a topic and all of its entries atomically. Published
// entries have no mutation API.
type Store interface {
	// Init creates all required tables. Idempotent.
	Init(ctx context.Context) error

	// PutTopic replaces the stored topic and its entries.
	PutTopic(ctx context.Context, t Topic) error
	// ListTopics returns stored topics without their entries,
	// in slug order.
	ListTopics(ctx context.Context) ([]Topic, error)

	// GetEntry returns one entry by topic slug and operation name.
	// Fails with *NotFoundError when either is absent.
	GetEntry(ctx context.Context, slug, name string) (Entry, error)
	// ListEntries returns all entries of a topic in authored order.
	// Fails with *NotFoundError when the topic is absent.
	ListEntries(ctx context.Context, slug string) ([]Entry, error)
	// CountEntries returns the number of entries stored for a topic.
	// Fails with *NotFoundError when the topic is absent.
	CountEntries(ctx context.Context, slug string) (int, error)
	// SearchEntries returns up to limit entries whose name, category or
	// description match the keyword query, best match first.
	SearchEntries(ctx context.Context, query string, limit int) ([]Entry, error)

	Close() error
}
