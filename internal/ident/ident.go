// Package ident generates prefixed, lexicographically sortable identifiers
// for engine-side view handles.
package ident

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Generator produces ULID-based identifiers. Safe for concurrent use.
type Generator struct {
	entropyMu sync.Mutex
	entropy   *ulid.MonotonicEntropy
}

// NewGenerator returns a generator backed by monotonic entropy, so
// identifiers minted in the same millisecond still sort by creation order.
func NewGenerator() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

var (
	defaultGen  *Generator
	defaultOnce sync.Once
)

// Default returns the shared process-wide generator.
func Default() *Generator {
	defaultOnce.Do(func() {
		defaultGen = NewGenerator()
	})
	return defaultGen
}

// New returns prefix + "_" + ULID, e.g. "view_01JF8Z3...".
func (g *Generator) New(prefix string) string {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()
	id := ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
	return prefix + "_" + id.String()
}
