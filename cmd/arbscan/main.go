package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arbscan/internal/config"
	"arbscan/internal/detector"
	"arbscan/internal/graph"
	"arbscan/internal/metrics"
	"arbscan/internal/rates"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	ratesURL := flag.String("url", "", "Rate endpoint URL (overrides config)")
	amount := flag.Uint64("amount", 0, "Starting trade amount (overrides config)")
	interval := flag.Duration("interval", -1, "Rescan interval, 0 scans once (overrides config)")
	flag.Parse()

	// .env file is optional
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if *ratesURL != "" {
		cfg.Source.URL = *ratesURL
	}
	if *amount > 0 {
		cfg.Detector.TradeAmount = *amount
	}
	if *interval >= 0 {
		cfg.Scan.Interval = *interval
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	setupLogging(cfg.Logging)
	log.Info().
		Str("url", cfg.Source.URL).
		Uint64("trade_amount", cfg.Detector.TradeAmount).
		Dur("interval", cfg.Scan.Interval).
		Msg("Starting arbitrage scanner")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	if err := run(ctx, cfg); err != nil && err != context.Canceled {
		log.Fatal().Err(err).Msg("Scan failed")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		if err := m.StartServer(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			m.Shutdown(shutdownCtx)
		}()
	}

	source, err := rates.NewSource(cfg.Source.URL, cfg.Source.Timeout)
	if err != nil {
		return err
	}

	det := detector.New(detector.Config{TradeAmount: cfg.Detector.TradeAmount}, m)

	if cfg.Scan.Interval == 0 {
		return scanOnce(ctx, source, det, m)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := scanOnce(gCtx, source, det, m); err != nil {
			return err
		}
		ticker := time.NewTicker(cfg.Scan.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			case <-ticker.C:
				if err := scanOnce(gCtx, source, det, m); err != nil {
					return err
				}
			}
		}
	})
	return g.Wait()
}

// scanOnce performs one fetch-build-detect-print pass.
func scanOnce(ctx context.Context, source rates.Source, det *detector.Detector, m *metrics.Metrics) error {
	fetchStart := time.Now()
	pairs, err := source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetching rates: %w", err)
	}
	if m != nil {
		m.RecordFetchLatency(time.Since(fetchStart))
		m.SetPairsFetched(len(pairs.Rates))
	}

	g, err := graph.Build(pairs.Rates)
	if err != nil {
		return fmt.Errorf("building rate graph: %w", err)
	}

	reports := det.Detect(g)
	for _, r := range reports {
		fmt.Println(r)
	}
	if len(reports) == 0 {
		log.Info().Msg("No arbitrage opportunities found")
	}

	if m != nil {
		m.RecordScan()
	}
	return nil
}

func setupLogging(cfg config.LoggingConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	}
}
