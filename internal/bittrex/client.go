package bittrex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ryanlpeterman/pump-and-dump-bot/internal/metrics"
)

const (
	// DefaultPublicURL serves unauthenticated market data.
	DefaultPublicURL = "https://bittrex.com/api/v1.1/public"
	// DefaultTradeURL serves the authenticated v2.0 trade endpoints.
	DefaultTradeURL = "https://bittrex.com/api/v2.0/key/market"

	defaultTimeout = 10 * time.Second

	// invalidMarketMessage is the exchange's code for an unlisted pair.
	invalidMarketMessage = "INVALID_MARKET"
)

// Client is an explicit session against the Bittrex API. Market data reads
// are idempotent and freely retryable; PlaceOrder is the single point where
// financial state changes and is issued at most once per call.
type Client struct {
	publicURL string
	tradeURL  string
	apiKey    string
	secret    string
	http      *http.Client
	log       zerolog.Logger
	nonce     nonceSource
}

// Option configures Client construction parameters.
type Option func(*Client)

// WithHTTPClient substitutes the underlying HTTP client (tests, timeouts).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithEndpoints overrides the public and trade base URLs.
func WithEndpoints(publicURL, tradeURL string) Option {
	return func(c *Client) {
		if publicURL != "" {
			c.publicURL = strings.TrimSuffix(publicURL, "/")
		}
		if tradeURL != "" {
			c.tradeURL = strings.TrimSuffix(tradeURL, "/")
		}
	}
}

// NewClient builds a session from the supplied credentials. An empty secret
// is refused here so a signature over an empty key can never be produced.
func NewClient(apiKey, secret string, log zerolog.Logger, opts ...Option) (*Client, error) {
	if apiKey == "" || secret == "" {
		return nil, errors.New("bittrex credentials must not be empty")
	}
	c := &Client{
		publicURL: DefaultPublicURL,
		tradeURL:  DefaultTradeURL,
		apiKey:    apiKey,
		secret:    secret,
		http:      &http.Client{Timeout: defaultTimeout},
		log:       log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Markets fetches every listed trading pair from the public endpoint.
func (c *Client) Markets(ctx context.Context) ([]Market, error) {
	env, err := c.getPublic(ctx, c.publicURL+"/getmarkets")
	if err != nil {
		return nil, err
	}
	var entries []marketEntry
	if err := json.Unmarshal(env.Result, &entries); err != nil {
		return nil, fmt.Errorf("%w: decode markets: %v", ErrSchema, err)
	}
	markets := make([]Market, 0, len(entries))
	for _, entry := range entries {
		markets = append(markets, Market{
			FullName: entry.MarketCurrencyLong,
			Ticker:   entry.MarketCurrency,
			PairName: entry.MarketName,
		})
	}
	return markets, nil
}

// LastPrice fetches the most recent trade price for one pair.
func (c *Client) LastPrice(ctx context.Context, pair string) (float64, error) {
	env, err := c.getPublic(ctx, c.publicURL+"/getticker?market="+url.QueryEscape(pair))
	if err != nil {
		if errors.Is(err, ErrSchema) && strings.Contains(err.Error(), invalidMarketMessage) {
			return 0, fmt.Errorf("%w: %s", ErrUnknownMarket, pair)
		}
		return 0, err
	}
	if string(env.Result) == "null" || len(env.Result) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrUnknownMarket, pair)
	}
	var ticker tickerResult
	if err := json.Unmarshal(env.Result, &ticker); err != nil {
		return 0, fmt.Errorf("%w: decode ticker: %v", ErrSchema, err)
	}
	return ticker.Last, nil
}

// PlaceOrder submits a market order through the authenticated v2.0 endpoint.
// The request URL carries a strictly increasing nonce and is signed whole;
// the signature travels in the apisign header. The call is never retried:
// a timeout or 5xx yields OrderUncertainError because a retry could
// double-execute, and an explicit exchange decline yields OrderRejectedError.
func (c *Client) PlaceOrder(ctx context.Context, side Side, pair string, quantity float64) (*OrderResult, error) {
	params := url.Values{}
	params.Set("marketname", pair)
	params.Set("ordertype", "MARKET")
	params.Set("quantity", strconv.FormatFloat(quantity, 'f', 8, 64))
	params.Set("rate", "0")
	params.Set("timeInEffect", "FILL_OR_KILL")
	params.Set("conditiontype", "NONE")
	params.Set("target", "0")

	requestURL := fmt.Sprintf("%s/trade%s?apikey=%s&nonce=%d&%s",
		c.tradeURL, side, c.apiKey, c.nonce.Next(), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("apisign", Sign(requestURL, c.secret))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &OrderUncertainError{Side: side, Market: pair, Quantity: quantity, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, &OrderUncertainError{
			Side: side, Market: pair, Quantity: quantity,
			Cause: fmt.Errorf("status %d", resp.StatusCode),
		}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		// The write went out but the answer is unreadable; fate unknown.
		return nil, &OrderUncertainError{Side: side, Market: pair, Quantity: quantity, Cause: err}
	}
	if !env.Success {
		return nil, &OrderRejectedError{Side: side, Market: pair, Message: env.Message}
	}

	var payload orderResultPayload
	if len(env.Result) > 0 && string(env.Result) != "null" {
		if err := json.Unmarshal(env.Result, &payload); err != nil {
			return nil, &OrderUncertainError{Side: side, Market: pair, Quantity: quantity, Cause: err}
		}
	}
	id := payload.OrderID
	if id == "" {
		id = payload.UUID
	}

	metrics.OrdersTotal.WithLabelValues(pair, string(side)).Inc()
	c.log.Info().
		Str("market", pair).
		Str("side", string(side)).
		Float64("quantity", quantity).
		Str("order_id", id).
		Msg("order accepted")

	return &OrderResult{ID: id, Side: side, Market: pair, Quantity: quantity}, nil
}

// getPublic issues one idempotent read and unwraps the response envelope.
func (c *Client) getPublic(ctx context.Context, requestURL string) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrNetwork, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: decode envelope: %v", ErrSchema, err)
	}
	if !env.Success {
		return nil, fmt.Errorf("%w: %s", ErrSchema, env.Message)
	}
	if len(env.Result) == 0 {
		return nil, fmt.Errorf("%w: missing result field", ErrSchema)
	}
	return &env, nil
}
