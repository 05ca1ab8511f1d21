package graph

import "math"

// Unreachable marks a vertex pair with no quoted rate. Relaxation skips
// these edges; a tentative distance still at Unreachable means the vertex
// was never reached.
const Unreachable = math.MaxFloat64

// LogGraph is the additive-cost view of a rate graph used for negative-cycle
// search: multiplying rates around a cycle becomes summing weights.
//
// The weight is -log2 of the fixed-point integer, not of the unscaled rate,
// so every edge carries a constant -log2(Scale) offset. Log-space negativity
// is therefore only a candidate signal; the fixed-point replay in the
// original graph is the authoritative profitability check.
type LogGraph struct {
	Tokens  []string    // same sorted order as the source graph
	Weights [][]float64 // Weights[u][v], Unreachable where no rate is quoted
}

// LogNegate derives the log-space view of the graph. The adjacency shape is
// preserved: exactly the quoted pairs get finite weights.
func (g *Graph) LogNegate() *LogGraph {
	n := len(g.tokens)
	lg := &LogGraph{
		Tokens:  g.tokens,
		Weights: make([][]float64, n),
	}

	for u, from := range g.tokens {
		row := make([]float64, n)
		for v := range row {
			row[v] = Unreachable
		}
		for to, weight := range g.rates[from] {
			row[g.index[to]] = -math.Log2(float64(weight))
		}
		lg.Weights[u] = row
	}

	return lg
}

// NumTokens returns the number of vertices.
func (lg *LogGraph) NumTokens() int {
	return len(lg.Tokens)
}
