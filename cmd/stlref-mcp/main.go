// Binary stlref-mcp is an MCP server that exposes the reference catalog to
// AI assistants (Claude Code, Cursor, Windsurf, etc.) via the Model Context
// Protocol over stdio.
//
// Usage in .mcp.json:
//
//	{
//	  "mcpServers": {
//	    "stlref": {
//	      "type": "stdio",
//	      "command": "go",
//	      "args": ["run", "github.com/stlref/stlref/cmd/stlref-mcp@latest"]
//	    }
//	  }
//	}
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/stlref/stlref"
	"github.com/stlref/stlref/docs"
	"github.com/stlref/stlref/mcp"
	"github.com/stlref/stlref/search"
)

func main() {
	log.SetOutput(os.Stderr)
	log.SetPrefix("")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	catalog, err := stlref.LoadCatalog(docs.FS, "topics")
	if err != nil {
		log.Fatalf("stlref-mcp: load catalog: %v", err)
	}

	srv := mcp.New("stlref", "0.1.0")

	// Register each documented operation as an MCP resource.
	for _, t := range catalog.Topics() {
		for _, e := range t.Entries {
			content := entryMarkdown(t, e)
			srv.AddResource(mcp.Resource{
				URI:         fmt.Sprintf("stlref://%s/%s", t.Slug, e.Name),
				Name:        e.Name,
				Description: resourceDescription(t, e),
				MimeType:    "text/markdown",
				Read:        func() string { return content },
			})
		}
	}

	srv.AddTool(lookupTool(catalog))
	srv.AddTool(searchTool(catalog))

	if err := srv.Serve(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("stlref-mcp: %v", err)
	}
}

// lookupTool resolves an operation name to its documentation.
func lookupTool(catalog *stlref.Catalog) mcp.ToolHandler {
	return mcp.ToolHandler{
		Definition: mcp.ToolDefinition{
			Name:        "lookup_operation",
			Description: "Look up a documented standard-library operation by name. Returns its description and worked example.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{
						"type":        "string",
						"description": "Operation name, e.g. sort_descending or lower_bound",
					},
					"topic": map[string]any{
						"type":        "string",
						"description": "Optional topic slug to disambiguate, e.g. algorithm or bitset",
					},
				},
				"required": []string{"name"},
			},
		},
		Execute: func(_ context.Context, args json.RawMessage) mcp.ToolCallResult {
			var params struct {
				Name  string `json:"name"`
				Topic string `json:"topic"`
			}
			if err := json.Unmarshal(args, &params); err != nil {
				return mcp.ErrorResult("invalid arguments: " + err.Error())
			}

			var (
				e   stlref.Entry
				err error
			)
			if params.Topic != "" {
				e, err = catalog.LookupIn(params.Topic, params.Name)
			} else {
				e, err = catalog.Lookup(params.Name)
			}
			if err != nil {
				return mcp.ErrorResult(err.Error())
			}

			topic := params.Topic
			if topic == "" {
				topic = topicOf(catalog, params.Name)
			}
			t, _ := catalog.Topic(topic)
			return mcp.TextResult(entryMarkdown(t, e))
		},
	}
}

// searchTool runs a keyword search across all documented operations.
func searchTool(catalog *stlref.Catalog) mcp.ToolHandler {
	idx := search.New(catalog)
	return mcp.ToolHandler{
		Definition: mcp.ToolDefinition{
			Name:        "search_catalog",
			Description: "Search the reference catalog by keyword. Returns matching operations with their resource URIs.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "Search query (case-insensitive keyword or phrase)",
					},
				},
				"required": []string{"query"},
			},
		},
		Execute: func(_ context.Context, args json.RawMessage) mcp.ToolCallResult {
			var params struct {
				Query string `json:"query"`
			}
			if err := json.Unmarshal(args, &params); err != nil {
				return mcp.ErrorResult("invalid arguments: " + err.Error())
			}

			results := idx.Search(params.Query, 10)
			if len(results) == 0 {
				return mcp.TextResult("No matches for " + params.Query)
			}

			var b strings.Builder
			fmt.Fprintf(&b, "Found %d matching operations:\n\n", len(results))
			for _, r := range results {
				fmt.Fprintf(&b, "- stlref://%s/%s\n  %s\n", r.Topic, r.Entry.Name, r.Snippet)
			}
			return mcp.TextResult(b.String())
		},
	}
}

// topicOf returns the slug of the first topic documenting the name.
func topicOf(catalog *stlref.Catalog, name string) string {
	for _, t := range catalog.Topics() {
		if _, err := catalog.LookupIn(t.Slug, name); err == nil {
			return t.Slug
		}
	}
	return ""
}

func resourceDescription(t stlref.Topic, e stlref.Entry) string {
	if e.Category != "" {
		return t.Title + ": " + e.Category
	}
	return t.Title
}

// entryMarkdown renders one entry as a markdown document.
func entryMarkdown(t stlref.Topic, e stlref.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", e.Name)
	fmt.Fprintf(&b, "Topic: %s", t.Title)
	if e.Category != "" {
		fmt.Fprintf(&b, " / %s", e.Category)
	}
	b.WriteString("\n\n")
	b.WriteString(e.Description)
	b.WriteString("\n")
	if e.HasExample() {
		fmt.Fprintf(&b, "\n```\n%s\n=> %s\n```\n", e.Example.Invocation, e.Example.Output)
	}
	return b.String()
}
