package eval

import (
	"strings"
	"testing"

	"github.com/stlref/stlref"
)

func TestRunUnknownOp(t *testing.T) {
	if _, err := Run("no_such_op", stlref.Example{}); err == nil {
		t.Fatal("expected error for unknown op")
	}
}

func TestKnown(t *testing.T) {
	if !Known("sort_desc") {
		t.Error("sort_desc should be registered")
	}
	if Known("definitely_missing") {
		t.Error("unexpected registration")
	}
}

func TestOpsSortedAndComplete(t *testing.T) {
	ops := Ops()
	if len(ops) == 0 {
		t.Fatal("no registered ops")
	}
	for i := 1; i < len(ops); i++ {
		if ops[i-1] >= ops[i] {
			t.Fatalf("Ops() not sorted: %q before %q", ops[i-1], ops[i])
		}
	}
	for _, want := range []string{"sort", "binary_search", "bits_count", "bits_add"} {
		if !Known(want) {
			t.Errorf("op %q not registered", want)
		}
	}
}

func TestVerifyEntryNoExample(t *testing.T) {
	e := stlref.Entry{Name: "prose_only", Description: "no example"}
	if f := VerifyEntry("algorithm", e); f != nil {
		t.Errorf("unexpected failure: %v", f)
	}
}

func TestVerifyEntryMismatch(t *testing.T) {
	e := stlref.Entry{
		Name: "sort_descending",
		Op:   "sort_desc",
		Example: &stlref.Example{
			Values: []int{10, 20, 5, 15, 30},
			Output: "wrong output",
		},
	}
	f := VerifyEntry("algorithm", e)
	if f == nil {
		t.Fatal("expected a failure")
	}
	if f.Got != "30 20 15 10 5" {
		t.Errorf("Got = %q", f.Got)
	}
	if !strings.Contains(f.String(), "documented") {
		t.Errorf("failure string = %q", f.String())
	}
}

func TestVerifyEntryUnknownOp(t *testing.T) {
	e := stlref.Entry{
		Name:    "bad",
		Op:      "missing_op",
		Example: &stlref.Example{Output: "x"},
	}
	f := VerifyEntry("algorithm", e)
	if f == nil || f.Err == nil {
		t.Fatalf("expected execution failure, got %v", f)
	}
}
