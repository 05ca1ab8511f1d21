package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Metrics holds all Prometheus metrics for the arbitrage scanner.
type Metrics struct {
	// Fetch metrics
	FetchLatency prometheus.Histogram
	PairsFetched prometheus.Gauge

	// Graph metrics
	GraphTokens prometheus.Gauge
	GraphEdges  prometheus.Gauge

	// Detection metrics
	DetectionLatency prometheus.Histogram
	CyclesFound      prometheus.Counter
	Opportunities    prometheus.Counter

	// Scan metrics
	ScansTotal prometheus.Counter

	server *http.Server
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	m := &Metrics{
		FetchLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "arb_fetch_latency_seconds",
				Help:    "Time to fetch a rate snapshot from the quote endpoint",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~10s
			},
		),
		PairsFetched: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "arb_pairs_fetched",
				Help: "Number of rate pairs in the last fetched snapshot",
			},
		),
		GraphTokens: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "arb_graph_tokens",
				Help: "Number of tokens (vertices) in the last rate graph",
			},
		),
		GraphEdges: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "arb_graph_edges",
				Help: "Number of quoted directed rates in the last rate graph",
			},
		),
		DetectionLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "arb_detection_latency_seconds",
				Help:    "Time to run the detection pipeline on a rate graph",
				Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~1.6s
			},
		),
		CyclesFound: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "arb_cycles_found_total",
				Help: "Total number of distinct negative-cycle candidates examined",
			},
		),
		Opportunities: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "arb_opportunities_total",
				Help: "Total number of profitable opportunities reported",
			},
		),
		ScansTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "arb_scans_total",
				Help: "Total number of completed scans",
			},
		),
	}

	prometheus.MustRegister(
		m.FetchLatency,
		m.PairsFetched,
		m.GraphTokens,
		m.GraphEdges,
		m.DetectionLatency,
		m.CyclesFound,
		m.Opportunities,
		m.ScansTotal,
	)

	return m
}

// StartServer starts the HTTP server for Prometheus metrics.
func (m *Metrics) StartServer(port int, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	m.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		log.Info().Int("port", port).Str("path", path).Msg("Starting metrics server")
		if err := m.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("Metrics server error")
		}
	}()

	return nil
}

// Shutdown gracefully stops the metrics server.
func (m *Metrics) Shutdown(ctx context.Context) error {
	if m.server != nil {
		return m.server.Shutdown(ctx)
	}
	return nil
}

// RecordFetchLatency records the time to fetch a rate snapshot.
func (m *Metrics) RecordFetchLatency(d time.Duration) {
	m.FetchLatency.Observe(d.Seconds())
}

// SetPairsFetched sets the size of the last fetched snapshot.
func (m *Metrics) SetPairsFetched(count int) {
	m.PairsFetched.Set(float64(count))
}

// RecordGraphStats updates the token and edge counts of the last graph.
func (m *Metrics) RecordGraphStats(tokens, edges int) {
	m.GraphTokens.Set(float64(tokens))
	m.GraphEdges.Set(float64(edges))
}

// RecordDetectionLatency records the time to run the detection pipeline.
func (m *Metrics) RecordDetectionLatency(d time.Duration) {
	m.DetectionLatency.Observe(d.Seconds())
}

// RecordCyclesFound adds to the examined cycle candidate counter.
func (m *Metrics) RecordCyclesFound(count int) {
	m.CyclesFound.Add(float64(count))
}

// RecordOpportunities adds to the reported opportunity counter.
func (m *Metrics) RecordOpportunities(count int) {
	m.Opportunities.Add(float64(count))
}

// RecordScan increments the completed scan counter.
func (m *Metrics) RecordScan() {
	m.ScansTotal.Inc()
}
