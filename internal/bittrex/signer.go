package bittrex

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"sync/atomic"
	"time"
)

// Sign computes the hex HMAC-SHA512 apisign value over the exact byte
// sequence of the fully-assembled request URL, nonce included. Pure function
// of (url, secret); the exchange verifies it against the same secret.
func Sign(url, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(url))
	return hex.EncodeToString(mac.Sum(nil))
}

// nonceSource issues strictly increasing nonces seeded from wall-clock
// milliseconds. The exchange rejects reused or decreasing nonces, so two
// requests inside the same millisecond still get distinct values.
type nonceSource struct {
	last atomic.Int64
}

func (n *nonceSource) Next() int64 {
	for {
		nonce := time.Now().UnixMilli()
		last := n.last.Load()
		if nonce <= last {
			nonce = last + 1
		}
		if n.last.CompareAndSwap(last, nonce) {
			return nonce
		}
	}
}
