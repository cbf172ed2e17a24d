package domain

import (
	"strings"
	"testing"
)

func TestCacheKey_Deterministic(t *testing.T) {
	a := CacheKey("doc-1", "what is the refund policy?")
	b := CacheKey("doc-1", "what is the refund policy?")
	if a != b {
		t.Errorf("same inputs produced different keys: %s vs %s", a, b)
	}
}

func TestCacheKey_Prefix(t *testing.T) {
	key := CacheKey("doc-1", "question")
	if !strings.HasPrefix(key, "answer:") {
		t.Errorf("expected answer: prefix, got %s", key)
	}
}

func TestCacheKey_DistinguishesInputs(t *testing.T) {
	tests := []struct {
		name     string
		docA, qA string
		docB, qB string
	}{
		{"different documents", "doc-1", "q", "doc-2", "q"},
		{"different questions", "doc-1", "q1", "doc-1", "q2"},
		{"shifted boundary", "ab", "c", "a", "bc"},
		{"colon in document id", "a:b", "c", "a", "b:c"},
		{"empty vs whitespace question", "doc", "", "doc", " "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := CacheKey(tt.docA, tt.qA)
			b := CacheKey(tt.docB, tt.qB)
			if a == b {
				t.Errorf("distinct inputs (%q,%q) and (%q,%q) collided on %s",
					tt.docA, tt.qA, tt.docB, tt.qB, a)
			}
		})
	}
}

func TestVectorID(t *testing.T) {
	if got := VectorID("doc-1", 3); got != "doc-1_3" {
		t.Errorf("expected doc-1_3, got %s", got)
	}

	chunk := Chunk{DocumentID: "doc-2", Index: 0}
	if got := chunk.VectorID(); got != "doc-2_0" {
		t.Errorf("expected doc-2_0, got %s", got)
	}
}
