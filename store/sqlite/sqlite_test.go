package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stlref/stlref"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s := New(filepath.Join(t.TempDir(), "test.db"))
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func algorithmTopic() stlref.Topic {
	return stlref.Topic{
		Slug:    "algorithm",
		Title:   "Sequence Algorithms",
		Summary: "Generic sequence operations.",
		Entries: []stlref.Entry{
			{
				Name:        "sort_descending",
				Category:    "Sorting and Partitioning",
				Op:          "sort_desc",
				Description: "Sorts in descending order.",
				Example: &stlref.Example{
					Values:     []int{10, 20, 5, 15, 30},
					Invocation: "slices.SortFunc(nums, descending)",
					Output:     "30 20 15 10 5",
				},
			},
			{
				Name:        "reverse",
				Category:    "Modifying Sequence Operations",
				Description: "Reverses the elements in place.",
			},
		},
	}
}

func TestInitIdempotent(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "init.db"))
	defer s.Close()
	ctx := context.Background()
	if err := s.Init(ctx); err != nil {
		t.Fatalf("first Init: %v", err)
	}
	if err := s.Init(ctx); err != nil {
		t.Fatalf("second Init: %v", err)
	}
}

func TestPutAndGetEntry(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.PutTopic(ctx, algorithmTopic()); err != nil {
		t.Fatalf("PutTopic: %v", err)
	}

	e, err := s.GetEntry(ctx, "algorithm", "sort_descending")
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if e.Op != "sort_desc" || e.Category != "Sorting and Partitioning" {
		t.Errorf("entry = %+v", e)
	}
	if e.Example == nil {
		t.Fatal("example not round-tripped")
	}
	if e.Example.Output != "30 20 15 10 5" || len(e.Example.Values) != 5 {
		t.Errorf("example = %+v", e.Example)
	}

	// Entry without example stays example-less.
	plain, err := s.GetEntry(ctx, "algorithm", "reverse")
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if plain.Example != nil {
		t.Errorf("unexpected example: %+v", plain.Example)
	}
}

func TestGetEntryNotFound(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.PutTopic(ctx, algorithmTopic()); err != nil {
		t.Fatalf("PutTopic: %v", err)
	}

	_, err := s.GetEntry(ctx, "algorithm", "no_such_op")
	var nf *stlref.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want *stlref.NotFoundError", err)
	}
	if nf.Topic != "algorithm" || nf.Operation != "no_such_op" {
		t.Errorf("NotFoundError = %+v", nf)
	}
}

func TestPutTopicReplaces(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.PutTopic(ctx, algorithmTopic()); err != nil {
		t.Fatalf("PutTopic: %v", err)
	}

	// Re-sync with one entry fewer; the old entry set must be gone.
	replacement := algorithmTopic()
	replacement.Entries = replacement.Entries[:1]
	if err := s.PutTopic(ctx, replacement); err != nil {
		t.Fatalf("second PutTopic: %v", err)
	}

	n, err := s.CountEntries(ctx, "algorithm")
	if err != nil {
		t.Fatalf("CountEntries: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
	if _, err := s.GetEntry(ctx, "algorithm", "reverse"); err == nil {
		t.Error("stale entry survived re-sync")
	}
}

func TestListEntriesKeepsOrder(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.PutTopic(ctx, algorithmTopic()); err != nil {
		t.Fatalf("PutTopic: %v", err)
	}

	entries, err := s.ListEntries(ctx, "algorithm")
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(entries) != 2 || entries[0].Name != "sort_descending" || entries[1].Name != "reverse" {
		t.Errorf("entries = %+v", entries)
	}

	var nf *stlref.NotFoundError
	if _, err := s.ListEntries(ctx, "missing"); !errors.As(err, &nf) {
		t.Errorf("error = %v, want *stlref.NotFoundError", err)
	}
}

func TestListTopics(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.PutTopic(ctx, algorithmTopic()); err != nil {
		t.Fatalf("PutTopic: %v", err)
	}
	if err := s.PutTopic(ctx, stlref.Topic{Slug: "bitset", Title: "Fixed-Size Bit Vectors"}); err != nil {
		t.Fatalf("PutTopic: %v", err)
	}

	topics, err := s.ListTopics(ctx)
	if err != nil {
		t.Fatalf("ListTopics: %v", err)
	}
	if len(topics) != 2 || topics[0].Slug != "algorithm" || topics[1].Slug != "bitset" {
		t.Errorf("topics = %+v", topics)
	}
}

func TestSearchEntries(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.PutTopic(ctx, algorithmTopic()); err != nil {
		t.Fatalf("PutTopic: %v", err)
	}

	// Name match ranks first.
	hits, err := s.SearchEntries(ctx, "sort", 10)
	if err != nil {
		t.Fatalf("SearchEntries: %v", err)
	}
	if len(hits) == 0 || hits[0].Name != "sort_descending" {
		t.Fatalf("hits = %+v", hits)
	}

	// Description-only match still found.
	hits, err = s.SearchEntries(ctx, "in place", 10)
	if err != nil {
		t.Fatalf("SearchEntries: %v", err)
	}
	if len(hits) != 1 || hits[0].Name != "reverse" {
		t.Errorf("hits = %+v", hits)
	}

	// LIKE wildcards in the query are literals, not patterns.
	hits, err = s.SearchEntries(ctx, "100%", 10)
	if err != nil {
		t.Fatalf("SearchEntries: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("wildcard leaked: %+v", hits)
	}
}
