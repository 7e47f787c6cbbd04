// Package memory provides the in-memory reference corpus retriever.
package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/graftlabs/graft/pkg/ports"
)

// Corpus matches known topic keys against the lowercased query. Matching
// is a case-insensitive substring check, so "What is LangGraph?" hits the
// "langgraph" key. The corpus is immutable after construction and safe for
// concurrent use.
type Corpus struct {
	entries map[string]string
	keys    []string
}

// NewCorpus builds a corpus from topic-key -> snippet entries. Keys are
// normalized to lower case; iteration order is stable (sorted keys).
func NewCorpus(entries map[string]string) *Corpus {
	normalized := make(map[string]string, len(entries))
	keys := make([]string, 0, len(entries))
	for key, text := range entries {
		k := strings.ToLower(key)
		normalized[k] = text
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &Corpus{entries: normalized, keys: keys}
}

// Default returns the built-in demo corpus.
func Default() *Corpus {
	return NewCorpus(map[string]string{
		"langgraph": "LangGraph is a library for building stateful, multi-actor applications with LLMs.",
		"python":    "Python is a high-level, interpreted programming language known for readability.",
		"gemini":    "Gemini is Google's most capable AI model, built to be natively multimodal.",
	})
}

// Retrieve returns every snippet whose topic key occurs in the query.
func (c *Corpus) Retrieve(_ context.Context, query string) ([]ports.Snippet, error) {
	q := strings.ToLower(query)
	var matches []ports.Snippet
	for _, key := range c.keys {
		if strings.Contains(q, key) {
			matches = append(matches, ports.Snippet{Key: key, Text: c.entries[key]})
		}
	}
	return matches, nil
}
