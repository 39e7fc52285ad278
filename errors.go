package stlref

import "fmt"

// NotFoundError reports a lookup for an operation or topic that is not in
// the catalog. Topic is empty for catalog-wide lookups.
type NotFoundError struct {
	Topic     string
	Operation string
}

func (e *NotFoundError) Error() string {
	if e.Operation == "" {
		return fmt.Sprintf("topic %q not found", e.Topic)
	}
	if e.Topic == "" {
		return fmt.Sprintf("operation %q not found", e.Operation)
	}
	return fmt.Sprintf("operation %q not found in topic %q", e.Operation, e.Topic)
}

// ValidationError reports catalog content that violates an authoring
// invariant (duplicate names, missing descriptions, malformed examples).
type ValidationError struct {
	Topic  string
	Entry  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Entry == "" {
		return fmt.Sprintf("topic %q: %s", e.Topic, e.Reason)
	}
	return fmt.Sprintf("topic %q, entry %q: %s", e.Topic, e.Entry, e.Reason)
}
