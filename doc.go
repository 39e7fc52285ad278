// Package stlref is a structured reference catalog for standard-library
// algorithm and bit-manipulation operations.
//
// The catalog pairs each documented operation with a natural-language
// description and, where it helps, a worked example: literal input values,
// the invocation applied to them, and the literal output that invocation
// prints. Entries are grouped into topics (sequence algorithms, fixed-size
// bit vectors) and are immutable once loaded.
//
// # Quick Start
//
// Load the catalog that ships with the module and look up an operation:
//
//	catalog, err := stlref.LoadCatalog(docs.FS, "topics")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	entry, err := catalog.Lookup("sort_descending")
//	if err != nil {
//		var nf *stlref.NotFoundError
//		if errors.As(err, &nf) {
//			// unknown operation name
//		}
//	}
//	fmt.Println(entry.Description)
//
// # Components
//
// The root package defines the catalog model and the contracts the rest of
// the module implements:
//
//   - [Catalog] — immutable, validated collection of topics and entries
//   - [Store] — persistence for serving the catalog out of a database
//   - [Entry], [Example] — one documented operation and its worked example
//
// # Included Implementations
//
// Storage: store/sqlite (local, pure Go), store/postgres (pgx, full-text
// search). Verification: eval executes every worked example and compares the
// result against the documented output. Search: search builds a BM25 index
// over entries. Export: render writes a static HTML site. Authoring: ingest
// drafts new topics from HTML or PDF reference material.
//
// See cmd/stlref for the command-line interface and cmd/stlref-mcp for the
// MCP stdio server.
package stlref
