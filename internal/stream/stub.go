// Package stream hosts post sources feeding the signal listener.
package stream

import (
	"context"
	"sync"
	"time"

	"github.com/ryanlpeterman/pump-and-dump-bot/internal/signal"
)

// Stub replays a scripted post sequence with an optional delay between
// posts, then blocks until the context ends. Useful for paper runs and tests.
type Stub struct {
	mu    sync.Mutex
	posts []signal.Post
	delay time.Duration
	i     int
}

// NewStub builds a stub stream over the given posts.
func NewStub(delay time.Duration, posts ...signal.Post) *Stub {
	return &Stub{posts: posts, delay: delay}
}

// Next returns the next scripted post in order.
func (s *Stub) Next(ctx context.Context) (signal.Post, error) {
	s.mu.Lock()
	exhausted := s.i >= len(s.posts)
	var post signal.Post
	if !exhausted {
		post = s.posts[s.i]
		s.i++
	}
	s.mu.Unlock()

	if exhausted {
		<-ctx.Done()
		return signal.Post{}, ctx.Err()
	}
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return signal.Post{}, ctx.Err()
		}
	}
	return post, nil
}
