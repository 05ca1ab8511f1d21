package graph

import (
	"errors"
	"math"
	"testing"
)

func TestBuildSortsTokens(t *testing.T) {
	g, err := Build(map[string]string{
		"EUR-DAI": "1.02113789",
		"DAI-EUR": "0.99076521",
		"BTC-DAI": "23524.13915530",
		"DAI-BTC": "0.00004290",
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := []string{"BTC", "DAI", "EUR"}
	tokens := g.Tokens()
	if len(tokens) != len(want) {
		t.Fatalf("Expected %d tokens, got %d", len(want), len(tokens))
	}
	for i, token := range want {
		if tokens[i] != token {
			t.Errorf("Expected token %q at index %d, got %q", token, i, tokens[i])
		}
		idx, ok := g.Index(token)
		if !ok || idx != i {
			t.Errorf("Expected index %d for %q, got %d (ok=%v)", i, token, idx, ok)
		}
	}
}

func TestBuildFixedPointWeights(t *testing.T) {
	g, err := Build(map[string]string{
		"BTC-BORG": "116352.26544401",
		"BORG-BTC": "0.00000868",
		"BTC-BTC":  "1.00000000",
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	tests := []struct {
		from, to string
		want     uint64
	}{
		{"BTC", "BORG", 11635226544401},
		{"BORG", "BTC", 868},
		{"BTC", "BTC", Scale},
	}
	for _, tt := range tests {
		got, ok := g.Rate(tt.from, tt.to)
		if !ok {
			t.Errorf("Expected rate for %s-%s", tt.from, tt.to)
			continue
		}
		if got != tt.want {
			t.Errorf("Rate %s-%s: expected %d, got %d", tt.from, tt.to, tt.want, got)
		}
	}

	if _, ok := g.Rate("BORG", "BORG"); ok {
		t.Error("Expected no rate for unquoted pair BORG-BORG")
	}
	if g.NumEdges() != 3 {
		t.Errorf("Expected 3 edges, got %d", g.NumEdges())
	}
}

func TestBuildVertexSetIsUnionOfKeyTokens(t *testing.T) {
	// A destination-only token is still a vertex.
	g, err := Build(map[string]string{"A-B": "2.00000000"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if g.NumTokens() != 2 {
		t.Errorf("Expected 2 tokens, got %d", g.NumTokens())
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		pairs   map[string]string
		wantErr error
	}{
		{
			name:    "empty input",
			pairs:   map[string]string{},
			wantErr: ErrEmptyTokenSet,
		},
		{
			name:    "missing delimiter",
			pairs:   map[string]string{"BTCEUR": "1.00000000"},
			wantErr: ErrMalformedPairKey,
		},
		{
			name:    "extra delimiter",
			pairs:   map[string]string{"BTC-EUR-DAI": "1.00000000"},
			wantErr: ErrMalformedPairKey,
		},
		{
			name:    "empty token",
			pairs:   map[string]string{"-EUR": "1.00000000"},
			wantErr: ErrMalformedPairKey,
		},
		{
			name:    "no fractional separator",
			pairs:   map[string]string{"BTC-EUR": "1"},
			wantErr: ErrMalformedRateValue,
		},
		{
			name:    "non-numeric whole segment",
			pairs:   map[string]string{"BTC-EUR": "x.00000000"},
			wantErr: ErrMalformedRateValue,
		},
		{
			name:    "non-numeric fractional segment",
			pairs:   map[string]string{"BTC-EUR": "1.0000000x"},
			wantErr: ErrMalformedRateValue,
		},
		{
			name:    "negative rate",
			pairs:   map[string]string{"BTC-EUR": "-1.00000000"},
			wantErr: ErrMalformedRateValue,
		},
		{
			name:    "two separators",
			pairs:   map[string]string{"BTC-EUR": "1.000.000"},
			wantErr: ErrMalformedRateValue,
		},
		{
			name:    "zero rate",
			pairs:   map[string]string{"BTC-EUR": "0.00000000"},
			wantErr: ErrZeroRate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.pairs)
			if err == nil {
				t.Fatal("Expected error")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLogNegate(t *testing.T) {
	g, err := Build(map[string]string{
		"A-B": "2.00000000",
		"B-A": "0.40000000",
		"A-A": "1.00000000",
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	lg := g.LogNegate()
	if lg.NumTokens() != 2 {
		t.Fatalf("Expected 2 tokens, got %d", lg.NumTokens())
	}

	// The transform logs the scaled integer, so even a rate of 1.0 carries
	// a negative weight of -log2(Scale).
	wantAB := -math.Log2(2 * Scale)
	if got := lg.Weights[0][1]; got != wantAB {
		t.Errorf("Weight A->B: expected %v, got %v", wantAB, got)
	}
	wantAA := -math.Log2(Scale)
	if got := lg.Weights[0][0]; got != wantAA {
		t.Errorf("Weight A->A: expected %v, got %v", wantAA, got)
	}

	// B has no self rate quoted, so its diagonal is the sentinel.
	if got := lg.Weights[1][1]; got != Unreachable {
		t.Errorf("Weight B->B: expected Unreachable, got %v", got)
	}
}

func TestLogNegatePreservesAdjacencyShape(t *testing.T) {
	g, err := Build(map[string]string{
		"A-B": "2.00000000",
		"B-C": "3.00000000",
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	lg := g.LogNegate()
	finite := 0
	for u := range lg.Weights {
		for v := range lg.Weights[u] {
			if lg.Weights[u][v] != Unreachable {
				finite++
			}
		}
	}
	if finite != g.NumEdges() {
		t.Errorf("Expected %d finite weights, got %d", g.NumEdges(), finite)
	}
}
