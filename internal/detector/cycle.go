package detector

import (
	"fmt"
	"sort"
	"strings"

	"arbscan/internal/graph"
)

// pathSeparator joins the tokens of a cycle in the rendered report.
const pathSeparator = " <--> "

// Report is one profitable cycle: the token path (first and last element
// identical) and the amount realized by replaying the path's conversions
// from the configured starting amount.
type Report struct {
	Path   []string
	Amount float64
}

// String renders the report line. Reports are sorted by this rendering.
func (r Report) String() string {
	return fmt.Sprintf("Arbitrage opportunity: %s, new trade amount is %.8f",
		strings.Join(r.Path, pathSeparator), r.Amount)
}

// extractCycles rescans every ordered vertex pair after relaxation has
// converged. A pair that still admits relaxation lies on or reaches a
// negative cycle; the cycle is reconstructed by walking predecessor links
// until a vertex repeats.
//
// Reconstructed paths are deduplicated by their rendered token sequence: the
// complete graph guarantees the same cycle is rediscovered from many
// starting pairs. Each distinct path is then replayed in the fixed-point
// graph, and only paths whose final amount strictly exceeds the starting
// amount become reports. Returns the reports and the number of distinct
// cycles examined.
func extractCycles(lg *graph.LogGraph, dist []float64, pred []int, g *graph.Graph, tradeAmount uint64) ([]Report, int) {
	n := lg.NumTokens()
	tokens := lg.Tokens
	paths := make(map[string]struct{})
	var reports []Report

	for i := 0; i < n; i++ {
		// The back-walk below advances this cursor, and the advanced
		// position carries into the remaining destinations of this row.
		source := i
		for dest := 0; dest < n; dest++ {
			if dist[dest] <= dist[source]+lg.Weights[source][dest] {
				continue
			}

			// Walk predecessors from the violating source until a vertex
			// already collected repeats; that repeat closes the cycle.
			cycle := []int{dest}
			closed := true
			for !containsIndex(cycle, pred[source]) {
				if pred[source] < 0 {
					closed = false
					break
				}
				source = pred[source]
				cycle = append(cycle, source)
			}
			if !closed {
				continue
			}
			cycle = append(cycle, dest)

			path := make([]string, len(cycle))
			for k, idx := range cycle {
				path[k] = tokens[idx]
			}
			key := strings.Join(path, pathSeparator)
			if _, dup := paths[key]; dup {
				continue
			}
			paths[key] = struct{}{}

			if amount, ok := replay(g, path, tradeAmount); ok && amount > float64(tradeAmount) {
				reports = append(reports, Report{Path: path, Amount: amount})
			}
		}
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].String() < reports[j].String()
	})

	return reports, len(paths)
}

// replay compounds the starting amount through the path's conversions using
// the fixed-point rates. This is the ground truth for profitability: it
// matches actual tradable precision, unlike the log-space heuristic.
func replay(g *graph.Graph, path []string, tradeAmount uint64) (float64, bool) {
	amount := float64(tradeAmount)
	for k := 0; k < len(path)-1; k++ {
		rate, ok := g.Rate(path[k], path[k+1])
		if !ok {
			return 0, false
		}
		amount *= float64(rate) / graph.Scale
	}
	return amount, true
}

func containsIndex(indices []int, idx int) bool {
	for _, v := range indices {
		if v == idx {
			return true
		}
	}
	return false
}
