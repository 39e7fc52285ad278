package stlref

// Catalog is an immutable, validated collection of topics. Once built it is
// never mutated, so it is safe for concurrent readers without locking.
type Catalog struct {
	topics  []Topic
	bySlug  map[string]int            // slug -> index into topics
	byEntry map[string]map[string]int // slug -> name -> index into Entries
}

// NewCatalog builds a catalog from the given topics in order. It validates
// the authoring invariants and returns a *ValidationError on the first
// violation: topic slugs must be unique and non-empty, entry names must be
// unique within their topic and non-empty, descriptions must be non-empty,
// and an entry with a worked example must name the operation that runs it.
func NewCatalog(topics ...Topic) (*Catalog, error) {
	c := &Catalog{
		topics:  topics,
		bySlug:  make(map[string]int, len(topics)),
		byEntry: make(map[string]map[string]int, len(topics)),
	}
	for i, t := range topics {
		if t.Slug == "" {
			return nil, &ValidationError{Topic: t.Title, Reason: "missing slug"}
		}
		if _, dup := c.bySlug[t.Slug]; dup {
			return nil, &ValidationError{Topic: t.Slug, Reason: "duplicate topic slug"}
		}
		c.bySlug[t.Slug] = i

		names := make(map[string]int, len(t.Entries))
		for j, e := range t.Entries {
			if e.Name == "" {
				return nil, &ValidationError{Topic: t.Slug, Reason: "entry with empty name"}
			}
			if _, dup := names[e.Name]; dup {
				return nil, &ValidationError{Topic: t.Slug, Entry: e.Name, Reason: "duplicate operation name"}
			}
			if e.Description == "" {
				return nil, &ValidationError{Topic: t.Slug, Entry: e.Name, Reason: "missing description"}
			}
			if e.Example != nil && e.Op == "" {
				return nil, &ValidationError{Topic: t.Slug, Entry: e.Name, Reason: "worked example without an op binding"}
			}
			names[e.Name] = j
		}
		c.byEntry[t.Slug] = names
	}
	return c, nil
}

// Topics returns the topics in catalog order.
func (c *Catalog) Topics() []Topic {
	return c.topics
}

// Topic returns the topic with the given slug.
// Fails with *NotFoundError when the slug is absent.
func (c *Catalog) Topic(slug string) (Topic, error) {
	i, ok := c.bySlug[slug]
	if !ok {
		return Topic{}, &NotFoundError{Topic: slug}
	}
	return c.topics[i], nil
}

// Entries returns all entries of the topic with the given slug.
// Fails with *NotFoundError when the slug is absent.
func (c *Catalog) Entries(slug string) ([]Entry, error) {
	t, err := c.Topic(slug)
	if err != nil {
		return nil, err
	}
	return t.Entries, nil
}

// Len returns the number of entries in the topic with the given slug.
// Fails with *NotFoundError when the slug is absent.
func (c *Catalog) Len(slug string) (int, error) {
	t, err := c.Topic(slug)
	if err != nil {
		return 0, err
	}
	return len(t.Entries), nil
}

// Lookup finds the entry with the given operation name, scanning topics in
// catalog order. Names are unique per topic, not across the catalog; the
// first topic wins on a cross-topic collision. Fails with *NotFoundError
// when no topic documents the name.
func (c *Catalog) Lookup(name string) (Entry, error) {
	for _, t := range c.topics {
		if j, ok := c.byEntry[t.Slug][name]; ok {
			return t.Entries[j], nil
		}
	}
	return Entry{}, &NotFoundError{Operation: name}
}

// LookupIn finds the entry with the given operation name inside one topic.
// Fails with *NotFoundError when the topic or the name is absent.
func (c *Catalog) LookupIn(slug, name string) (Entry, error) {
	t, err := c.Topic(slug)
	if err != nil {
		return Entry{}, err
	}
	j, ok := c.byEntry[slug][name]
	if !ok {
		return Entry{}, &NotFoundError{Topic: slug, Operation: name}
	}
	return t.Entries[j], nil
}
