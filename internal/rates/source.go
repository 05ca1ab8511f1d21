// Package rates fetches the pairwise rate snapshot consumed by the
// detection pipeline. The snapshot is a single JSON document mapping
// composite pair keys ("BTC-EUR") to decimal rate strings.
package rates

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// PairMap is the deserialized rate-quote response.
type PairMap struct {
	Rates map[string]string `json:"rates"`
}

// Source supplies one rate snapshot per call.
type Source interface {
	Fetch(ctx context.Context) (*PairMap, error)
}

// NewSource selects a source implementation by URL scheme: http/https use a
// plain GET, ws/wss dial the feed and read a single snapshot frame.
func NewSource(rawURL string, timeout time.Duration) (Source, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing rates url: %w", err)
	}

	switch u.Scheme {
	case "http", "https":
		return NewHTTPSource(rawURL, timeout), nil
	case "ws", "wss":
		return NewWSSource(rawURL, timeout), nil
	default:
		return nil, fmt.Errorf("unsupported rates url scheme %q", u.Scheme)
	}
}
