package signal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ryanlpeterman/pump-and-dump-bot/internal/metrics"
)

// ErrListenTimeout reports that the listen window closed before any
// qualifying post arrived. Distinct from a stream transport failure.
var ErrListenTimeout = errors.New("timed out waiting for signal")

// Stream yields posts in arrival order. Next blocks until a post is
// available or the context ends.
type Stream interface {
	Next(ctx context.Context) (Post, error)
}

// Recognizer extracts text from image bytes. Best-effort: unreadable content
// comes back as an empty or garbled string, never as a hard failure the
// listener cares about.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// Listener waits on a stream for the first qualifying post and returns its
// tokens. A post qualifies when it carries an image (always, short-circuits)
// or when the watched author wrote it and the text is not a reply.
type Listener struct {
	stream Stream
	ocr    Recognizer
	author string
	http   *http.Client
	log    zerolog.Logger
}

// NewListener wires a stream and an OCR capability for one watched author.
func NewListener(stream Stream, ocr Recognizer, author string, log zerolog.Logger) *Listener {
	return &Listener{
		stream: stream,
		ocr:    ocr,
		author: author,
		http:   &http.Client{Timeout: 15 * time.Second},
		log:    log,
	}
}

// Listen blocks until one qualifying post is observed, then returns its
// tokens. The first qualifying post wins; no buffering of later candidates.
// The caller bounds the wait through ctx; expiry maps to ErrListenTimeout.
func (l *Listener) Listen(ctx context.Context) ([]string, error) {
	for {
		post, err := l.stream.Next(ctx)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, ErrListenTimeout
			}
			return nil, fmt.Errorf("read stream: %w", err)
		}
		metrics.PostsTotal.Inc()

		if post.HasImage() {
			text := l.imageText(ctx, post.Media[0].URL)
			l.log.Info().Str("author", post.Author).Str("image", post.Media[0].URL).Msg("image post observed, using recognized text")
			return Tokenize(text), nil
		}
		if strings.EqualFold(post.Author, l.author) && post.Text != "" && !strings.HasPrefix(post.Text, replyMarker) {
			l.log.Info().Str("author", post.Author).Str("text", post.Text).Msg("signal post observed")
			return Tokenize(post.Text), nil
		}
		l.log.Debug().Str("author", post.Author).Msg("post did not qualify, still listening")
	}
}

// imageText fetches the image and runs it through OCR. Any failure along the
// way is input noise, not an error: the post already consumed the one-signal
// budget, so an empty token list is the honest result.
func (l *Listener) imageText(ctx context.Context, imageURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		l.log.Warn().Err(err).Msg("build image request failed")
		return ""
	}
	resp, err := l.http.Do(req)
	if err != nil {
		l.log.Warn().Err(err).Msg("fetch image failed")
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		l.log.Warn().Int("status", resp.StatusCode).Msg("fetch image failed")
		return ""
	}
	image, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		l.log.Warn().Err(err).Msg("read image failed")
		return ""
	}

	text, err := l.ocr.Recognize(ctx, image)
	if err != nil {
		l.log.Warn().Err(err).Msg("ocr failed, treating image as empty text")
		return ""
	}
	return text
}
