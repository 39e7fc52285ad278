// Package docs embeds the authored catalog topics so that the CLI, the MCP
// server and the tests can load them at runtime without touching disk.
package docs

import "embed"

// FS contains the TOML topic files under topics/. Load them with
// stlref.LoadCatalog(docs.FS, "topics").
//
//go:embed topics
var FS embed.FS
