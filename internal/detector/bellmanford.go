package detector

import (
	"arbscan/internal/graph"
)

// relax runs classic Bellman-Ford edge relaxation over the log-weighted
// graph and returns the tentative distance and predecessor arrays.
//
// The source is the first token in sorted order. Which token plays source is
// immaterial for cycle detection on the logically complete graphs this
// system consumes, but fixing it keeps predecessor choices (and therefore
// reported cycles) reproducible across runs.
func relax(lg *graph.LogGraph) (dist []float64, pred []int) {
	n := lg.NumTokens()
	dist = make([]float64, n)
	pred = make([]int, n)
	for i := range dist {
		dist[i] = graph.Unreachable
		pred[i] = -1
	}
	if n == 0 {
		return dist, pred
	}
	dist[0] = 0

	// n-1 rounds: the longest simple path in a graph of n vertices has
	// n-1 edges. Vertices are visited in sorted index order each round.
	for round := 0; round < n-1; round++ {
		for u := 0; u < n; u++ {
			for v := 0; v < n; v++ {
				if u == v {
					continue
				}
				w := lg.Weights[u][v]
				if w == graph.Unreachable {
					continue
				}
				if dist[v] > dist[u]+w {
					dist[v] = dist[u] + w
					pred[v] = u
				}
			}
		}
	}

	return dist, pred
}
