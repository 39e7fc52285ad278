package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stlref/stlref"
)

func testCatalog(t *testing.T) *stlref.Catalog {
	t.Helper()
	c, err := stlref.NewCatalog(stlref.Topic{
		Slug:    "algorithm",
		Title:   "Sequence Algorithms",
		Summary: "Operations on sequences.\n\n| Category | Covers |\n|---|---|\n| Sorting | sort |",
		Entries: []stlref.Entry{
			{
				Name:        "sort_descending",
				Category:    "Sorting and Partitioning",
				Op:          "sort_desc",
				Description: "Sorts in **descending** order.",
				Example: &stlref.Example{
					Values:     []int{10, 20, 5, 15, 30},
					Invocation: "slices.SortFunc(nums, descending)",
					Output:     "30 20 15 10 5",
				},
			},
			{
				Name:        "reverse",
				Category:    "Modifying Sequence Operations",
				Description: "Reverses in place.",
			},
		},
	})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return c
}

func TestMarkdown(t *testing.T) {
	r := New()
	out, err := r.Markdown("Sorts in **descending** order.")
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	if !strings.Contains(string(out), "<strong>descending</strong>") {
		t.Errorf("output = %q", out)
	}
}

func TestMarkdownTables(t *testing.T) {
	r := New()
	out, err := r.Markdown("| A | B |\n|---|---|\n| 1 | 2 |")
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	if !strings.Contains(string(out), "<table>") {
		t.Errorf("GFM tables not rendered: %q", out)
	}
}

func TestWriteSite(t *testing.T) {
	dir := t.TempDir()
	r := New()

	if err := r.WriteSite(testCatalog(t), dir); err != nil {
		t.Fatalf("WriteSite: %v", err)
	}

	index, err := os.ReadFile(filepath.Join(dir, "index.html"))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	if !strings.Contains(string(index), `href="algorithm.html"`) {
		t.Errorf("index missing topic link:\n%s", index)
	}
	if !strings.Contains(string(index), "2 operations") {
		t.Errorf("index missing entry count:\n%s", index)
	}

	topic, err := os.ReadFile(filepath.Join(dir, "algorithm.html"))
	if err != nil {
		t.Fatalf("read topic page: %v", err)
	}
	page := string(topic)
	for _, want := range []string{
		"<strong>descending</strong>",
		"30 20 15 10 5",
		"slices.SortFunc(nums, descending)",
		`id="reverse"`,
		"<table>", // summary table rendered via GFM
	} {
		if !strings.Contains(page, want) {
			t.Errorf("topic page missing %q", want)
		}
	}

	// Entries without an example get no input/output block.
	if n := strings.Count(page, "<dt>Output</dt>"); n != 1 {
		t.Errorf("output blocks = %d, want 1", n)
	}
}

func TestFormatInputs(t *testing.T) {
	got := formatInputs(&stlref.Example{Values: []int{1, 2}, Arg: 3, Bits: "101"})
	want := "values: [1 2], arg: 3, bits: 101"
	if got != want {
		t.Errorf("formatInputs = %q, want %q", got, want)
	}
	if formatInputs(nil) != "" {
		t.Error("nil example should format empty")
	}
}
