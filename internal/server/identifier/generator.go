// Package identifier produces short public employee identifiers.
//
// A Generator does not guarantee uniqueness. Callers check candidates
// against the store and ask for another one on collision.
package identifier

import (
	"math/rand/v2"
	"strconv"
)

const (
	DefaultPrefix    = "emp"
	DefaultMaxLength = 10

	// Suffix bounds, inclusive.
	minSuffix = 10000
	maxSuffix = 9999999
)

// Generator builds candidates as prefix + random decimal suffix, truncated
// to maxLength.
type Generator struct {
	prefix    string
	maxLength int
	intN      func(n int) int
}

// Option customizes a Generator.
type Option func(*Generator)

// WithIntN replaces the random source; intN must return a value in [0, n).
func WithIntN(intN func(n int) int) Option {
	return func(g *Generator) {
		if intN != nil {
			g.intN = intN
		}
	}
}

// NewGenerator returns a Generator. An empty prefix or non-positive
// maxLength falls back to the defaults.
func NewGenerator(prefix string, maxLength int, opts ...Option) *Generator {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	g := &Generator{prefix: prefix, maxLength: maxLength, intN: rand.IntN}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns a new candidate identifier.
func (g *Generator) Generate() string {
	suffix := minSuffix + g.intN(maxSuffix-minSuffix+1)
	id := g.prefix + strconv.Itoa(suffix)
	if len(id) > g.maxLength {
		id = id[:g.maxLength]
	}
	return id
}
