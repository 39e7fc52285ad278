// Package search builds a BM25-scored full-text index over catalog entries.
//
// The index is built once from an immutable catalog, so queries need no
// locking. Queries are tokenized into terms and scored with Okapi BM25 with
// a boost for terms matching the operation name or category, so multi-word
// queries like "sorted range union" rank the right entries above entries
// that merely mention one of the words.
package search

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/stlref/stlref"
)

// BM25 tuning parameters.
const (
	bm25K1        = 1.2
	bm25B         = 0.75
	nameBoost     = 2.5 // multiplier for terms matching the operation name
	categoryBoost = 1.5
	maxResults    = 10
)

// Result is a single search hit.
type Result struct {
	Topic   string // topic slug
	Entry   stlref.Entry
	Score   float64
	Snippet string
}

// Index is a BM25 inverted index over catalog entries.
type Index struct {
	docs      []doc
	postings  map[string][]posting
	nameTerms map[string]map[int]bool // term -> doc set (terms from entry names)
	catTerms  map[string]map[int]bool // term -> doc set (terms from categories)
	docLens   []int
	avgDL     float64
}

// doc is one indexed entry with its topic slug.
type doc struct {
	topic string
	entry stlref.Entry
	text  string
}

// posting records a term's frequency in a single document.
type posting struct {
	doc  int
	freq int
}

// New builds an index over every entry of the catalog.
func New(c *stlref.Catalog) *Index {
	var docs []doc
	for _, t := range c.Topics() {
		for _, e := range t.Entries {
			docs = append(docs, doc{topic: t.Slug, entry: e, text: entryText(e)})
		}
	}

	idx := &Index{
		docs:      docs,
		postings:  make(map[string][]posting),
		nameTerms: make(map[string]map[int]bool),
		catTerms:  make(map[string]map[int]bool),
		docLens:   make([]int, len(docs)),
	}

	totalLen := 0
	for i, d := range docs {
		tokens := Tokenize(d.text)
		idx.docLens[i] = len(tokens)
		totalLen += len(tokens)

		tf := make(map[string]int)
		for _, tok := range tokens {
			tf[tok]++
		}
		for term, freq := range tf {
			idx.postings[term] = append(idx.postings[term], posting{doc: i, freq: freq})
		}

		for _, tok := range Tokenize(d.entry.Name) {
			if idx.nameTerms[tok] == nil {
				idx.nameTerms[tok] = make(map[int]bool)
			}
			idx.nameTerms[tok][i] = true
		}
		for _, tok := range Tokenize(d.entry.Category) {
			if idx.catTerms[tok] == nil {
				idx.catTerms[tok] = make(map[int]bool)
			}
			idx.catTerms[tok][i] = true
		}
	}

	if len(docs) > 0 {
		idx.avgDL = float64(totalLen) / float64(len(docs))
	}
	return idx
}

// entryText is the searchable text of an entry.
func entryText(e stlref.Entry) string {
	parts := []string{e.Name, e.Category, e.Description}
	if e.Example != nil {
		parts = append(parts, e.Example.Invocation)
	}
	return strings.Join(parts, "\n")
}

// Search returns up to limit entries matching the query, best first.
// limit <= 0 uses the default of 10.
func (idx *Index) Search(query string, limit int) []Result {
	if limit <= 0 {
		limit = maxResults
	}
	terms := Tokenize(query)
	if len(terms) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var unique []string
	for _, t := range terms {
		if !seen[t] {
			seen[t] = true
			unique = append(unique, t)
		}
	}

	n := float64(len(idx.docs))
	scores := make(map[int]float64)

	for _, term := range unique {
		posts, ok := idx.postings[term]
		if !ok {
			continue
		}

		df := float64(len(posts))
		idf := math.Log((n-df+0.5)/(df+0.5) + 1.0)

		for _, p := range posts {
			dl := float64(idx.docLens[p.doc])
			tf := float64(p.freq)
			tfNorm := (tf * (bm25K1 + 1)) / (tf + bm25K1*(1-bm25B+bm25B*(dl/idx.avgDL)))

			score := idf * tfNorm
			if idx.nameTerms[term][p.doc] {
				score *= nameBoost
			} else if idx.catTerms[term][p.doc] {
				score *= categoryBoost
			}

			scores[p.doc] += score
		}
	}

	if len(scores) == 0 {
		return nil
	}

	results := make([]Result, 0, len(scores))
	for d, score := range scores {
		results = append(results, Result{
			Topic:   idx.docs[d].topic,
			Entry:   idx.docs[d].entry,
			Score:   score,
			Snippet: snippet(idx.docs[d].entry, seen),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Entry.Name < results[j].Entry.Name
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// snippet picks the description line most relevant to the query terms,
// falling back to the first non-empty line.
func snippet(e stlref.Entry, queryTerms map[string]bool) string {
	lines := strings.Split(e.Description, "\n")
	best, bestScore := "", 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if best == "" {
			best = trimmed
		}
		score := 0
		counted := make(map[string]bool)
		for _, tok := range Tokenize(trimmed) {
			if queryTerms[tok] && !counted[tok] {
				score++
				counted[tok] = true
			}
		}
		if score > bestScore {
			best, bestScore = trimmed, score
		}
	}
	return best
}

// Tokenize splits text into lowercase NFC-normalized search tokens.
// Underscored and hyphenated words are indexed both whole ("sort_descending")
// and as parts ("sort", "descending").
func Tokenize(text string) []string {
	lower := strings.ToLower(norm.NFC.String(text))
	var tokens []string
	var buf strings.Builder

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		word := strings.Trim(buf.String(), "-_")
		buf.Reset()
		if len(word) < 2 {
			return
		}
		tokens = append(tokens, word)
		if strings.ContainsAny(word, "-_") {
			for _, part := range strings.FieldsFunc(word, func(r rune) bool { return r == '-' || r == '_' }) {
				if len(part) >= 2 {
					tokens = append(tokens, part)
				}
			}
		}
	}

	for _, r := range lower {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			buf.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()

	return tokens
}
