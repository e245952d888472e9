// Package market maps extracted signal tokens onto exchange-listed pairs.
package market

import (
	"fmt"
	"strings"

	"github.com/ryanlpeterman/pump-and-dump-bot/internal/bittrex"
)

// AmbiguousError reports that the signal named zero or several markets.
// Terminal: an automated trade must never proceed on an ambiguous
// instruction, so there is nothing to retry.
type AmbiguousError struct {
	Matches []bittrex.Market
}

func (e *AmbiguousError) Error() string {
	if len(e.Matches) == 0 {
		return "signal matched no listed market"
	}
	names := make([]string, len(e.Matches))
	for i, m := range e.Matches {
		names[i] = m.PairName
	}
	return fmt.Sprintf("signal matched %d markets: %s", len(e.Matches), strings.Join(names, ", "))
}

// Resolve picks the single market the tokens name. Only markets quoted in
// the reference currency are candidates; a candidate matches when its
// lowercased full name or ticker appears as an exact token. Exactly one
// match resolves, anything else is an AmbiguousError.
func Resolve(tokens []string, markets []bittrex.Market, refCurrency string) (bittrex.Market, error) {
	ref := strings.ToLower(refCurrency)
	tokenSet := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		tokenSet[token] = struct{}{}
	}

	var matches []bittrex.Market
	for _, m := range markets {
		if !strings.Contains(strings.ToLower(m.PairName), ref) {
			continue
		}
		_, byName := tokenSet[strings.ToLower(m.FullName)]
		_, byTicker := tokenSet[strings.ToLower(m.Ticker)]
		if byName || byTicker {
			matches = append(matches, m)
		}
	}

	if len(matches) != 1 {
		return bittrex.Market{}, &AmbiguousError{Matches: matches}
	}
	return matches[0], nil
}
