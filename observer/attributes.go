package observer

import "go.opentelemetry.io/otel/attribute"

// Attribute keys shared across spans and metrics.
var (
	AttrTopic     = attribute.Key("catalog.topic")
	AttrOperation = attribute.Key("catalog.operation")
	AttrQuery     = attribute.Key("catalog.query")
	AttrResults   = attribute.Key("catalog.results")
	AttrEntries   = attribute.Key("catalog.entries")
	AttrStatus    = attribute.Key("catalog.status")
)
