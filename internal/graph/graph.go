package graph

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Scale is the fixed-point denominator: quoted rates carry 8 decimal digits,
// so a rate of 1.0 is stored as 100000000.
const Scale = 100000000

// pairDelimiter separates the two tokens in a composite pair key.
// Tokens themselves must not contain it.
const pairDelimiter = "-"

var (
	// ErrMalformedPairKey indicates a pair key without exactly one delimiter.
	ErrMalformedPairKey = errors.New("malformed pair key")

	// ErrMalformedRateValue indicates a rate string whose whole or fractional
	// segment is not a valid non-negative integer.
	ErrMalformedRateValue = errors.New("malformed rate value")

	// ErrZeroRate indicates a quoted rate of zero, which has no usable
	// log-space weight.
	ErrZeroRate = errors.New("zero or invalid rate")

	// ErrEmptyTokenSet indicates an input with no pairs at all.
	ErrEmptyTokenSet = errors.New("empty token set")
)

// Graph holds the quoted conversion rates between tokens as fixed-point
// integers. Tokens are kept in lexicographic order so that every downstream
// phase visits vertices in the same order on every run.
type Graph struct {
	tokens []string       // sorted vertex set
	index  map[string]int // token -> dense index
	rates  map[string]map[string]uint64
}

// Build parses a mapping of "FROM-TO" pair keys to decimal rate strings into
// a rate graph. The vertex set is the union of all tokens appearing on either
// side of a pair. Any malformed key or rate aborts the whole build; there is
// no partial result.
func Build(pairs map[string]string) (*Graph, error) {
	if len(pairs) == 0 {
		return nil, ErrEmptyTokenSet
	}

	g := &Graph{
		index: make(map[string]int),
		rates: make(map[string]map[string]uint64),
	}

	seen := make(map[string]struct{})
	for key, value := range pairs {
		parts := strings.Split(key, pairDelimiter)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("%w: %q", ErrMalformedPairKey, key)
		}
		from, to := parts[0], parts[1]

		weight, err := parseRate(value)
		if err != nil {
			return nil, fmt.Errorf("pair %q: %w", key, err)
		}
		if weight == 0 {
			return nil, fmt.Errorf("%w: pair %q quotes %q", ErrZeroRate, key, value)
		}

		if g.rates[from] == nil {
			g.rates[from] = make(map[string]uint64)
		}
		g.rates[from][to] = weight
		seen[from] = struct{}{}
		seen[to] = struct{}{}
	}

	g.tokens = make([]string, 0, len(seen))
	for token := range seen {
		g.tokens = append(g.tokens, token)
	}
	sort.Strings(g.tokens)
	for i, token := range g.tokens {
		g.index[token] = i
	}

	return g, nil
}

// parseRate converts a decimal rate string into a fixed-point integer.
// The upstream quote API always emits exactly 8 fractional digits; shorter
// fractional parts are not padded, so "1.5" decodes as 100000005 rather
// than 150000000. Kept as-is to match the quoted contract.
func parseRate(s string) (uint64, error) {
	whole, frac, found := strings.Cut(s, ".")
	if !found {
		return 0, fmt.Errorf("%w: %q has no fractional separator", ErrMalformedRateValue, s)
	}

	w, err := strconv.ParseUint(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: whole segment of %q", ErrMalformedRateValue, s)
	}
	f, err := strconv.ParseUint(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: fractional segment of %q", ErrMalformedRateValue, s)
	}

	return w*Scale + f, nil
}

// Tokens returns the vertex set in lexicographic order.
// Callers must not modify the returned slice.
func (g *Graph) Tokens() []string {
	return g.tokens
}

// NumTokens returns the number of vertices.
func (g *Graph) NumTokens() int {
	return len(g.tokens)
}

// NumEdges returns the number of quoted directed rates.
func (g *Graph) NumEdges() int {
	count := 0
	for _, edges := range g.rates {
		count += len(edges)
	}
	return count
}

// Index returns the dense index for a token.
func (g *Graph) Index(token string) (int, bool) {
	idx, ok := g.index[token]
	return idx, ok
}

// Rate returns the fixed-point conversion rate from one token to another.
func (g *Graph) Rate(from, to string) (uint64, bool) {
	edges, ok := g.rates[from]
	if !ok {
		return 0, false
	}
	rate, ok := edges[to]
	return rate, ok
}
