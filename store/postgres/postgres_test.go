package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stlref/stlref"
)

// Integration tests need a live database; set STLREF_POSTGRES_URL to run
// them, e.g. postgres://localhost:5432/stlref_test.
func testStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("STLREF_POSTGRES_URL")
	if url == "" {
		t.Skip("STLREF_POSTGRES_URL not set")
	}
	pool, err := pgxpool.New(context.Background(), url)
	if err != nil {
		t.Fatalf("pgxpool.New: %v", err)
	}
	t.Cleanup(pool.Close)

	s := New(pool)
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return s
}

func TestRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	topic := stlref.Topic{
		Slug:  "algorithm",
		Title: "Sequence Algorithms",
		Entries: []stlref.Entry{
			{
				Name:        "sort_descending",
				Category:    "Sorting and Partitioning",
				Op:          "sort_desc",
				Description: "Sorts in descending order.",
				Example: &stlref.Example{
					Values: []int{10, 20, 5, 15, 30},
					Output: "30 20 15 10 5",
				},
			},
		},
	}
	if err := s.PutTopic(ctx, topic); err != nil {
		t.Fatalf("PutTopic: %v", err)
	}

	e, err := s.GetEntry(ctx, "algorithm", "sort_descending")
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if e.Example == nil || e.Example.Output != "30 20 15 10 5" {
		t.Errorf("entry = %+v", e)
	}

	var nf *stlref.NotFoundError
	if _, err := s.GetEntry(ctx, "algorithm", "missing"); !errors.As(err, &nf) {
		t.Errorf("error = %v, want *stlref.NotFoundError", err)
	}

	hits, err := s.SearchEntries(ctx, "descending", 5)
	if err != nil {
		t.Fatalf("SearchEntries: %v", err)
	}
	if len(hits) == 0 {
		t.Error("no search hits")
	}
}
