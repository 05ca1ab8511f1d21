package detector

import (
	"time"

	"arbscan/internal/graph"
	"arbscan/internal/metrics"

	"github.com/rs/zerolog/log"
)

// Config holds detection settings.
type Config struct {
	// TradeAmount is the starting amount used for the profitability replay
	// and for reporting. It does not affect which cycles are found.
	TradeAmount uint64
}

// Detector runs arbitrage detection on rate graphs.
type Detector struct {
	config  Config
	metrics *metrics.Metrics
}

// New creates a detector.
func New(cfg Config, m *metrics.Metrics) *Detector {
	return &Detector{
		config:  cfg,
		metrics: m,
	}
}

// Detect runs the full pipeline on a built rate graph: log-negation,
// relaxation, cycle extraction and profitability evaluation. The returned
// reports are deduplicated and sorted by their rendered text.
func (d *Detector) Detect(g *graph.Graph) []Report {
	start := time.Now()

	lg := g.LogNegate()
	dist, pred := relax(lg)
	reports, cycles := extractCycles(lg, dist, pred, g, d.config.TradeAmount)

	elapsed := time.Since(start)
	if d.metrics != nil {
		d.metrics.RecordGraphStats(g.NumTokens(), g.NumEdges())
		d.metrics.RecordDetectionLatency(elapsed)
		d.metrics.RecordCyclesFound(cycles)
		d.metrics.RecordOpportunities(len(reports))
	}

	log.Info().
		Int("tokens", g.NumTokens()).
		Int("edges", g.NumEdges()).
		Int("cycles_examined", cycles).
		Int("opportunities", len(reports)).
		Dur("detection_time", elapsed).
		Msg("Detection complete")

	return reports
}
