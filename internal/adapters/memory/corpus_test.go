package memory_test

import (
	"context"
	"testing"

	"github.com/graftlabs/graft/internal/adapters/memory"
)

func TestCorpus_SubstringMatch(t *testing.T) {
	corpus := memory.Default()

	cases := []struct {
		query string
		want  int
	}{
		{"What is LangGraph used for?", 1},
		{"Tell me about PYTHON", 1}, // matching is case-insensitive
		{"Compare langgraph with python", 2},
		{"What is the weather like?", 0},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			snippets, err := corpus.Retrieve(context.Background(), tc.query)
			if err != nil {
				t.Fatalf("Retrieve failed: %v", err)
			}
			if len(snippets) != tc.want {
				t.Errorf("Expected %d snippets, got %d: %v", tc.want, len(snippets), snippets)
			}
		})
	}
}

func TestCorpus_StableOrder(t *testing.T) {
	corpus := memory.NewCorpus(map[string]string{
		"zebra": "z",
		"apple": "a",
	})

	snippets, err := corpus.Retrieve(context.Background(), "apple and zebra")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if len(snippets) != 2 || snippets[0].Key != "apple" || snippets[1].Key != "zebra" {
		t.Errorf("Expected sorted keys, got %v", snippets)
	}
}

func TestCorpus_NormalizesKeys(t *testing.T) {
	corpus := memory.NewCorpus(map[string]string{"GoLang": "go stuff"})

	snippets, err := corpus.Retrieve(context.Background(), "tell me about golang")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if len(snippets) != 1 {
		t.Fatalf("Expected 1 snippet, got %v", snippets)
	}
	if snippets[0].Text != "go stuff" {
		t.Errorf("Unexpected snippet: %+v", snippets[0])
	}
}
