package testutil

import "fmt"

// FixedRunIDGenerator generates predictable run IDs.
//
// With tokens it returns them in order and then falls back to numbered IDs;
// without tokens every call returns the next "test-run-NNN".
//
// This keeps ledger contents byte-identical across test runs.
type FixedRunIDGenerator struct {
	tokens []string
	n      int
}

// NewFixedRunIDGenerator creates a generator that yields tokens first.
func NewFixedRunIDGenerator(tokens ...string) *FixedRunIDGenerator {
	return &FixedRunIDGenerator{tokens: tokens}
}

// Generate returns the next run ID.
//
// Implements store.RunIDGenerator.
func (g *FixedRunIDGenerator) Generate() string {
	i := g.n
	g.n++
	if i < len(g.tokens) {
		return g.tokens[i]
	}
	return fmt.Sprintf("test-run-%03d", i+1)
}
