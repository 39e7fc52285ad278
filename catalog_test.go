package stlref

import (
	"errors"
	"testing"
)

func testTopics() []Topic {
	return []Topic{
		{
			Slug:  "algorithm",
			Title: "Sequence Algorithms",
			Entries: []Entry{
				{Name: "sort", Category: "Sorting", Description: "Sorts ascending."},
				{Name: "reverse", Category: "Modifying", Description: "Reverses in place."},
			},
		},
		{
			Slug:  "bitset",
			Title: "Fixed-Size Bit Vectors",
			Entries: []Entry{
				{Name: "count", Category: "Counting", Description: "Population count."},
			},
		},
	}
}

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog(testTopics()...)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return c
}

func TestLookup(t *testing.T) {
	c := testCatalog(t)

	e, err := c.Lookup("reverse")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if e.Description != "Reverses in place." {
		t.Errorf("Description = %q", e.Description)
	}

	// Deterministic: repeated lookups return the same entry.
	again, err := c.Lookup("reverse")
	if err != nil {
		t.Fatalf("second Lookup: %v", err)
	}
	if again.Name != e.Name || again.Description != e.Description {
		t.Errorf("second Lookup returned a different entry: %+v vs %+v", again, e)
	}
}

func TestLookupNotFound(t *testing.T) {
	c := testCatalog(t)

	_, err := c.Lookup("no_such_operation")
	if err == nil {
		t.Fatal("expected error for absent name")
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error type = %T, want *NotFoundError", err)
	}
	if nf.Operation != "no_such_operation" {
		t.Errorf("Operation = %q", nf.Operation)
	}
}

func TestLookupIn(t *testing.T) {
	c := testCatalog(t)

	if _, err := c.LookupIn("bitset", "count"); err != nil {
		t.Fatalf("LookupIn: %v", err)
	}

	// Name exists, but in a different topic.
	_, err := c.LookupIn("bitset", "sort")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want *NotFoundError", err)
	}
	if nf.Topic != "bitset" || nf.Operation != "sort" {
		t.Errorf("NotFoundError = %+v", nf)
	}

	// Absent topic.
	if _, err := c.LookupIn("strings", "sort"); !errors.As(err, &nf) {
		t.Fatalf("error = %v, want *NotFoundError", err)
	}
}

func TestLen(t *testing.T) {
	c := testCatalog(t)

	n, err := c.Len("algorithm")
	if err != nil {
		t.Fatalf("Len: %v", err)
	}
	if n != 2 {
		t.Errorf("Len(algorithm) = %d, want 2", n)
	}

	if _, err := c.Len("missing"); err == nil {
		t.Error("expected error for absent topic")
	}
}

func TestNewCatalogValidation(t *testing.T) {
	tests := []struct {
		name   string
		topics []Topic
	}{
		{
			"duplicate slug",
			[]Topic{{Slug: "a", Entries: nil}, {Slug: "a"}},
		},
		{
			"missing slug",
			[]Topic{{Title: "No Slug"}},
		},
		{
			"duplicate entry name",
			[]Topic{{Slug: "a", Entries: []Entry{
				{Name: "x", Description: "one"},
				{Name: "x", Description: "two"},
			}}},
		},
		{
			"empty entry name",
			[]Topic{{Slug: "a", Entries: []Entry{{Description: "d"}}}},
		},
		{
			"missing description",
			[]Topic{{Slug: "a", Entries: []Entry{{Name: "x"}}}},
		},
		{
			"example without op",
			[]Topic{{Slug: "a", Entries: []Entry{
				{Name: "x", Description: "d", Example: &Example{Output: "1"}},
			}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.topics...)
			if err == nil {
				t.Fatal("expected validation error")
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error type = %T, want *ValidationError", err)
			}
		})
	}
}

func TestTopicsOrder(t *testing.T) {
	c := testCatalog(t)
	got := c.Topics()
	if len(got) != 2 || got[0].Slug != "algorithm" || got[1].Slug != "bitset" {
		t.Errorf("Topics() order = %v", got)
	}
}
