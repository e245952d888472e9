// Package signal turns one social-media post into the lowercase token
// sequence the market resolver consumes.
package signal

import "strings"

// Media references one attachment carried by a post.
type Media struct {
	URL string `json:"url"`
}

// Post models the essential pieces of a stream event.
type Post struct {
	Author string  `json:"author"`
	Text   string  `json:"text"`
	Media  []Media `json:"media"`
}

// HasImage reports whether the post carries at least one attachment.
func (p Post) HasImage() bool { return len(p.Media) > 0 }

// replyMarker prefixes posts addressed at another account; those never
// qualify as signals.
const replyMarker = "@"

// Tokenize lowercases text and splits it on whitespace into ordered tokens.
func Tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}
