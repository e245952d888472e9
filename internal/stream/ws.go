package stream

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ryanlpeterman/pump-and-dump-bot/internal/signal"
)

const (
	wsHandshakeTimeout = 10 * time.Second
	wsReadDeadline     = 90 * time.Second
	wsInitialBackoff   = time.Second
	wsMaxBackoff       = 30 * time.Second
)

// WS consumes a post firehose over a websocket. Disconnects are retried with
// exponential backoff; the listener still observes an ordered sequence of
// posts, with whatever was missed during the gap simply absent.
type WS struct {
	url     string
	log     zerolog.Logger
	conn    *websocket.Conn
	backoff time.Duration
}

// NewWS targets the firehose at url.
func NewWS(url string, log zerolog.Logger) *WS {
	return &WS{url: url, log: log, backoff: wsInitialBackoff}
}

// Next blocks until one post is decoded from the wire or the context ends.
func (w *WS) Next(ctx context.Context) (signal.Post, error) {
	for {
		if ctx.Err() != nil {
			w.Close()
			return signal.Post{}, ctx.Err()
		}
		if w.conn == nil {
			if err := w.dial(ctx); err != nil {
				if ctx.Err() != nil {
					return signal.Post{}, ctx.Err()
				}
				w.log.Warn().Err(err).Msg("stream dial failed, retrying")
				if err := w.wait(ctx); err != nil {
					return signal.Post{}, err
				}
				continue
			}
		}

		_ = w.conn.SetReadDeadline(time.Now().Add(wsReadDeadline))
		_, message, err := w.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				w.Close()
				return signal.Post{}, ctx.Err()
			}
			w.log.Warn().Err(err).Msg("stream disconnected, reconnecting")
			w.Close()
			if err := w.wait(ctx); err != nil {
				return signal.Post{}, err
			}
			continue
		}
		w.backoff = wsInitialBackoff

		var post signal.Post
		if err := json.Unmarshal(message, &post); err != nil {
			w.log.Warn().Err(err).Msg("failed to decode stream post")
			continue
		}
		return post, nil
	}
}

// Close tears down the current connection, if any.
func (w *WS) Close() {
	if w.conn != nil {
		_ = w.conn.Close()
		w.conn = nil
	}
}

func (w *WS) dial(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: wsHandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, w.url, nil)
	if err != nil {
		return err
	}
	conn.SetReadLimit(1 << 20)
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadDeadline))
	})
	w.conn = conn
	w.log.Info().Str("url", w.url).Msg("connected post stream")
	return nil
}

func (w *WS) wait(ctx context.Context) error {
	select {
	case <-time.After(w.backoff):
	case <-ctx.Done():
		return ctx.Err()
	}
	w.backoff = time.Duration(math.Min(float64(wsMaxBackoff), float64(w.backoff)*1.8))
	return nil
}
