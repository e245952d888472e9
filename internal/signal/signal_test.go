package signal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestTokenize(t *testing.T) {
	tokens := Tokenize("Buying  Litecoin\tSOON")
	expected := []string{"buying", "litecoin", "soon"}
	if !reflect.DeepEqual(tokens, expected) {
		t.Fatalf("unexpected tokens: %v", tokens)
	}
	if got := Tokenize(""); len(got) != 0 {
		t.Fatalf("expected no tokens for empty text, got %v", got)
	}
}

// scriptedStream replays a fixed post sequence, then blocks until the
// context ends.
type scriptedStream struct {
	posts []Post
	i     int
}

func (s *scriptedStream) Next(ctx context.Context) (Post, error) {
	if s.i < len(s.posts) {
		post := s.posts[s.i]
		s.i++
		return post, nil
	}
	<-ctx.Done()
	return Post{}, ctx.Err()
}

type fixedRecognizer struct {
	text string
	err  error
}

func (r fixedRecognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	return r.text, r.err
}

func TestListenReturnsAuthorPost(t *testing.T) {
	stream := &scriptedStream{posts: []Post{
		{Author: "someoneelse", Text: "buying ripple"},
		{Author: "officialmcafee", Text: "@friend not a signal"},
		{Author: "officialmcafee", Text: "Buying Litecoin soon"},
	}}
	listener := NewListener(stream, fixedRecognizer{}, "officialmcafee", zerolog.Nop())

	tokens, err := listener.Listen(context.Background())
	if err != nil {
		t.Fatalf("Listen returned error: %v", err)
	}
	expected := []string{"buying", "litecoin", "soon"}
	if !reflect.DeepEqual(tokens, expected) {
		t.Fatalf("unexpected tokens: %v", tokens)
	}
}

func TestListenImagePostShortCircuits(t *testing.T) {
	imageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer imageServer.Close()

	// An image from any author qualifies, even before the watched author posts.
	stream := &scriptedStream{posts: []Post{
		{Author: "retweeter", Media: []Media{{URL: imageServer.URL + "/pic.png"}}},
		{Author: "officialmcafee", Text: "buying ripple"},
	}}
	listener := NewListener(stream, fixedRecognizer{text: "Buying Litecoin"}, "officialmcafee", zerolog.Nop())

	tokens, err := listener.Listen(context.Background())
	if err != nil {
		t.Fatalf("Listen returned error: %v", err)
	}
	expected := []string{"buying", "litecoin"}
	if !reflect.DeepEqual(tokens, expected) {
		t.Fatalf("unexpected tokens: %v", tokens)
	}
}

func TestListenImageOCRFailureYieldsEmptyTokens(t *testing.T) {
	imageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer imageServer.Close()

	stream := &scriptedStream{posts: []Post{
		{Author: "officialmcafee", Media: []Media{{URL: imageServer.URL + "/pic.png"}}},
	}}
	listener := NewListener(stream, fixedRecognizer{err: errors.New("unreadable")}, "officialmcafee", zerolog.Nop())

	tokens, err := listener.Listen(context.Background())
	if err != nil {
		t.Fatalf("Listen returned error: %v", err)
	}
	if len(tokens) != 0 {
		t.Fatalf("expected empty tokens, got %v", tokens)
	}
}

func TestListenTimeout(t *testing.T) {
	stream := &scriptedStream{posts: []Post{
		{Author: "someoneelse", Text: "nothing here"},
	}}
	listener := NewListener(stream, fixedRecognizer{}, "officialmcafee", zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := listener.Listen(ctx)
	if !errors.Is(err, ErrListenTimeout) {
		t.Fatalf("expected ErrListenTimeout, got %v", err)
	}
}

func TestOCRClientRecognize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/recognize" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/octet-stream" {
			t.Fatalf("unexpected content type %s", r.Header.Get("Content-Type"))
		}
		_, _ = w.Write([]byte(`{"text":"Buying Litecoin"}`))
	}))
	defer server.Close()

	client := NewOCRClient(server.URL)
	text, err := client.Recognize(context.Background(), []byte("png-bytes"))
	if err != nil {
		t.Fatalf("Recognize returned error: %v", err)
	}
	if text != "Buying Litecoin" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestOCRClientStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewOCRClient(server.URL)
	if _, err := client.Recognize(context.Background(), []byte("x")); err == nil {
		t.Fatalf("expected error for non-200 status")
	}
}
