// Package eval executes the worked examples of a catalog and checks them
// against their documented output.
//
// Every runnable operation the catalog documents has a pure Go reference
// implementation here, keyed by the entry's Op field. Verification runs the
// implementation on the example's literal inputs and compares the printed
// result byte-for-byte with the documented output, so a catalog that ships
// is a catalog whose examples are true.
package eval

import (
	"fmt"
	"sort"

	"github.com/stlref/stlref"
)

// Func is a reference implementation of one documented operation. It
// consumes the example's literal inputs and returns the string the
// operation prints.
type Func func(ex stlref.Example) (string, error)

// registry maps Op keys to reference implementations. Populated by the
// sequence and bits files at init time.
var registry = map[string]Func{}

func register(op string, fn Func) {
	if _, dup := registry[op]; dup {
		panic(fmt.Sprintf("eval: duplicate op %q", op))
	}
	registry[op] = fn
}

// Ops returns all registered operation keys, sorted.
func Ops() []string {
	ops := make([]string, 0, len(registry))
	for op := range registry {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

// Known reports whether op has a reference implementation.
func Known(op string) bool {
	_, ok := registry[op]
	return ok
}

// Run executes the reference implementation for op on the given example
// inputs and returns its printed output.
func Run(op string, ex stlref.Example) (string, error) {
	fn, ok := registry[op]
	if !ok {
		return "", fmt.Errorf("eval: unknown op %q", op)
	}
	return fn(ex)
}

// Failure describes one worked example whose documented output does not
// match what the operation actually produces, or whose example could not be
// executed at all.
type Failure struct {
	Topic string
	Entry string
	Op    string
	Want  string
	Got   string
	Err   error
}

func (f Failure) String() string {
	if f.Err != nil {
		return fmt.Sprintf("%s/%s (%s): %v", f.Topic, f.Entry, f.Op, f.Err)
	}
	return fmt.Sprintf("%s/%s (%s): documented %q, got %q", f.Topic, f.Entry, f.Op, f.Want, f.Got)
}

// VerifyEntry checks one entry's worked example. Entries without an example
// pass trivially.
func VerifyEntry(topic string, e stlref.Entry) *Failure {
	if e.Example == nil {
		return nil
	}
	got, err := Run(e.Op, *e.Example)
	if err != nil {
		return &Failure{Topic: topic, Entry: e.Name, Op: e.Op, Err: err}
	}
	if got != e.Example.Output {
		return &Failure{Topic: topic, Entry: e.Name, Op: e.Op, Want: e.Example.Output, Got: got}
	}
	return nil
}

// VerifyCatalog checks every worked example in the catalog and returns the
// failures. An empty slice means every documented output is accurate.
func VerifyCatalog(c *stlref.Catalog) []Failure {
	var failures []Failure
	for _, t := range c.Topics() {
		for _, e := range t.Entries {
			if f := VerifyEntry(t.Slug, e); f != nil {
				failures = append(failures, *f)
			}
		}
	}
	return failures
}
