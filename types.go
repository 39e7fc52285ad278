package stlref

// Topic is a grouping of related operations, e.g. sequence algorithms or
// fixed-size bit vectors. A topic is authored as one TOML file and is
// immutable after loading.
type Topic struct {
	// Slug identifies the topic in lookups, URIs and file names
	// ("algorithm", "bitset"). Lowercase, no spaces.
	Slug string `toml:"slug"`
	// Title is the human-readable topic name.
	Title string `toml:"title"`
	// Summary is a markdown overview of the topic.
	Summary string `toml:"summary"`
	// Entries are the documented operations, in authored order.
	Entries []Entry `toml:"entries"`
}

// Entry is one documented operation: its name, a description, and an
// optional worked example.
type Entry struct {
	// Name is the operation name, unique within its topic
	// ("sort_descending", "count_set_bits").
	Name string `toml:"name"`
	// Category groups entries inside a topic ("Sorting and Partitioning").
	Category string `toml:"category,omitempty"`
	// Op keys the entry to a runnable reference operation in package eval.
	// Required when Example is set; empty for prose-only entries.
	Op string `toml:"op,omitempty"`
	// Description is the markdown body documenting the operation.
	Description string `toml:"description"`
	// Example is the optional worked example.
	Example *Example `toml:"example,omitempty"`
}

// Example is a worked example: literal inputs, the invocation applied to
// them, and the literal output that invocation prints. Which input fields an
// operation consumes is defined by its eval implementation; unused fields
// stay zero.
type Example struct {
	// Values is the primary input sequence.
	Values []int `toml:"values,omitempty"`
	// Other is the second input sequence for two-range operations
	// (merge, set operations).
	Other []int `toml:"other,omitempty"`
	// Arg is a scalar argument (search target, rotation distance,
	// bit position, midpoint index).
	Arg int `toml:"arg,omitempty"`
	// Bits is the primary bit pattern for bit-vector operations,
	// most significant bit first. Bit positions index from the
	// least-significant (rightmost) bit.
	Bits string `toml:"bits,omitempty"`
	// OtherBits is the second bit pattern for two-operand bit operations.
	OtherBits string `toml:"other_bits,omitempty"`
	// Width is the bit-vector width when the input is a numeric value
	// rather than a pattern.
	Width int `toml:"width,omitempty"`
	// Invocation is the human-readable call being demonstrated.
	Invocation string `toml:"invocation"`
	// Output is the literal expected output. The documented output must
	// match what the operation actually produces on the inputs above;
	// package eval enforces this.
	Output string `toml:"output"`
}

// HasExample reports whether the entry carries a worked example.
func (e *Entry) HasExample() bool {
	return e.Example != nil
}
