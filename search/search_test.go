package search

import (
	"testing"

	"github.com/stlref/stlref"
)

func testIndex(t *testing.T) *Index {
	t.Helper()
	c, err := stlref.NewCatalog(
		stlref.Topic{
			Slug: "algorithm",
			Entries: []stlref.Entry{
				{
					Name:        "sort_descending",
					Category:    "Sorting and Partitioning",
					Description: "Sorts the sequence in descending order by inverting the comparison.",
				},
				{
					Name:        "set_union",
					Category:    "Set Operations",
					Description: "Produces the sorted union of two sorted ranges.",
				},
				{
					Name:        "reverse",
					Category:    "Modifying Sequence Operations",
					Description: "Reverses the order of the elements in place.",
				},
			},
		},
		stlref.Topic{
			Slug: "bitset",
			Entries: []stlref.Entry{
				{
					Name:        "count",
					Category:    "Counting and Testing",
					Description: "Counts the bits set to 1 (the population count).",
				},
			},
		},
	)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return New(c)
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"simple words", "hello world", []string{"hello", "world"}},
		{"mixed case", "Hello World", []string{"hello", "world"}},
		{"underscored", "sort_descending order", []string{"sort_descending", "sort", "descending", "order"}},
		{"hyphenated", "bit-vector ops", []string{"bit-vector", "bit", "vector", "ops"}},
		{"punctuation", "foo, bar. baz!", []string{"foo", "bar", "baz"}},
		{"short words filtered", "a I go do it", []string{"go", "do", "it"}},
		{"empty string", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("Tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Tokenize(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSearchSingleTerm(t *testing.T) {
	idx := testIndex(t)

	results := idx.Search("descending", 0)
	if len(results) == 0 {
		t.Fatal("expected results for 'descending'")
	}
	if results[0].Entry.Name != "sort_descending" {
		t.Errorf("top result = %q, want sort_descending", results[0].Entry.Name)
	}
	if results[0].Topic != "algorithm" {
		t.Errorf("topic = %q", results[0].Topic)
	}
}

func TestSearchNameBoost(t *testing.T) {
	idx := testIndex(t)

	// "union" appears in set_union's name and description; it must outrank
	// anything that only mentions related words.
	results := idx.Search("union sorted ranges", 0)
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	if results[0].Entry.Name != "set_union" {
		t.Errorf("top result = %q, want set_union", results[0].Entry.Name)
	}
}

func TestSearchCrossTopic(t *testing.T) {
	idx := testIndex(t)

	results := idx.Search("population count", 0)
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	if results[0].Topic != "bitset" || results[0].Entry.Name != "count" {
		t.Errorf("top result = %s/%s", results[0].Topic, results[0].Entry.Name)
	}
	if results[0].Snippet == "" {
		t.Error("empty snippet")
	}
}

func TestSearchNoMatches(t *testing.T) {
	idx := testIndex(t)

	if got := idx.Search("quaternion", 0); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
	if got := idx.Search("", 0); got != nil {
		t.Errorf("expected nil for empty query, got %v", got)
	}
}

func TestSearchLimit(t *testing.T) {
	idx := testIndex(t)

	results := idx.Search("sorted order sequence", 1)
	if len(results) > 1 {
		t.Errorf("limit ignored: %d results", len(results))
	}
}
