package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// maxMessageSize bounds a single snapshot frame.
const maxMessageSize = 1024 * 1024 // 1MB

// WSSource reads one rate snapshot frame from a WebSocket feed. The
// connection is opened per fetch and closed after the frame is read; there
// is no subscription state to keep between scans.
type WSSource struct {
	url     string
	timeout time.Duration
}

// NewWSSource creates a WebSocket source for the given feed URL.
func NewWSSource(url string, timeout time.Duration) *WSSource {
	return &WSSource{
		url:     url,
		timeout: timeout,
	}
}

// Fetch dials the feed, reads a single JSON snapshot frame and closes the
// connection.
func (s *WSSource) Fetch(ctx context.Context) (*PairMap, error) {
	dialCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing rates feed: %w", err)
	}
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(s.timeout)); err != nil {
		return nil, fmt.Errorf("setting read deadline: %w", err)
	}

	_, msg, err := conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("reading snapshot frame: %w", err)
	}

	var pairs PairMap
	if err := json.Unmarshal(msg, &pairs); err != nil {
		return nil, fmt.Errorf("unmarshaling snapshot frame: %w", err)
	}

	log.Debug().Int("pairs", len(pairs.Rates)).Msg("Fetched rate snapshot over websocket")
	return &pairs, nil
}
