// Package yahoo loads daily closes from the Yahoo Finance chart API.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/rustyeddy/magnate/market"
)

const (
	// DefaultBaseURL is the public chart endpoint host.
	DefaultBaseURL = "https://query1.finance.yahoo.com"

	// GoldFutures is the COMEX gold continuous contract symbol.
	GoldFutures = "GC=F"

	userAgent = "Mozilla/5.0"
)

// APIError is returned for non-2xx responses and chart-level errors.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("yahoo chart error: status=%d code=%s: %s", e.StatusCode, e.Code, e.Description)
	}
	return fmt.Sprintf("yahoo chart error: status=%d", e.StatusCode)
}

// Client fetches chart data. Requests are paced by a rate limiter and
// retried on network errors, 5xx and 429.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *zap.Logger

	maxRetries int
	backoff    time.Duration
	maxBackoff time.Duration
	pipeline   failsafe.Executor[*http.Response]
}

// Option configures a Client.
type Option func(*Client)

func WithBaseURL(u string) Option          { return func(c *Client) { c.baseURL = u } }
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.httpClient = h } }
func WithLogger(l *zap.Logger) Option      { return func(c *Client) { c.log = l } }
func WithRateLimit(l *rate.Limiter) Option { return func(c *Client) { c.limiter = l } }
func WithMaxRetries(n int) Option          { return func(c *Client) { c.maxRetries = n } }

func WithBackoff(min, max time.Duration) Option {
	return func(c *Client) {
		c.backoff = min
		c.maxBackoff = max
	}
}

// NewClient creates a chart API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
		log:        zap.NewNop(),
		maxRetries: 3,
		backoff:    250 * time.Millisecond,
		maxBackoff: 4 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}

	retryPolicy := retrypolicy.NewBuilder[*http.Response]().
		HandleIf(func(resp *http.Response, err error) bool {
			if err != nil {
				return true
			}
			return resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		}).
		WithBackoff(c.backoff, c.maxBackoff).
		WithMaxRetries(c.maxRetries).
		OnRetry(func(e failsafe.ExecutionEvent[*http.Response]) {
			c.log.Warn("retrying chart request", zap.Int("attempt", e.Attempts()), zap.Error(e.LastError()))
		}).
		Build()

	breaker := circuitbreaker.NewBuilder[*http.Response]().
		HandleIf(func(resp *http.Response, err error) bool {
			if err != nil {
				return true
			}
			return resp.StatusCode >= 500
		}).
		WithFailureThresholdRatio(5, 10).
		WithDelay(30 * time.Second).
		Build()

	c.pipeline = failsafe.With[*http.Response](retryPolicy, breaker)

	return c
}

// ChartRequest selects a symbol and a [From, To) window of daily bars.
type ChartRequest struct {
	Symbol string
	From   time.Time
	To     time.Time
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Chart fetches daily closes for req and returns them as a validated series.
// Days without a close are dropped.
func (c *Client) Chart(ctx context.Context, req ChartRequest) (*market.PriceSeries, error) {
	if req.Symbol == "" {
		return nil, fmt.Errorf("chart: symbol is required")
	}
	if !req.From.Before(req.To) {
		return nil, fmt.Errorf("chart: from %s must be before to %s", req.From, req.To)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, url.PathEscape(req.Symbol))
	q := url.Values{}
	q.Set("symbol", req.Symbol)
	q.Set("period1", fmt.Sprint(req.From.Unix()))
	q.Set("period2", fmt.Sprint(req.To.Unix()))
	q.Set("interval", "1d")

	resp, err := c.pipeline.WithContext(ctx).Get(func() (*http.Response, error) {
		hreq, err := http.NewRequestWithContext(ctx, http.MethodGet, u+"?"+q.Encode(), nil)
		if err != nil {
			return nil, err
		}
		hreq.Header.Set("User-Agent", userAgent)
		return c.httpClient.Do(hreq)
	})
	if err != nil {
		if resp != nil {
			resp.Body.Close()
			return nil, &APIError{StatusCode: resp.StatusCode}
		}
		return nil, fmt.Errorf("chart request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read chart body: %w", err)
	}

	var cr chartResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		if resp.StatusCode >= 400 {
			return nil, &APIError{StatusCode: resp.StatusCode}
		}
		return nil, fmt.Errorf("decode chart: %w", err)
	}
	if cr.Chart.Error != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Code: cr.Chart.Error.Code, Description: cr.Chart.Error.Description}
	}
	if resp.StatusCode >= 400 {
		return nil, &APIError{StatusCode: resp.StatusCode}
	}
	if len(cr.Chart.Result) == 0 || len(cr.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("chart: empty result for %s", req.Symbol)
	}

	res := cr.Chart.Result[0]
	closes := res.Indicators.Quote[0].Close
	if len(closes) != len(res.Timestamp) {
		return nil, fmt.Errorf("chart: %d timestamps but %d closes", len(res.Timestamp), len(closes))
	}

	points := make([]market.PricePoint, 0, len(closes))
	for i, ts := range res.Timestamp {
		if closes[i] == nil {
			continue
		}
		points = append(points, market.PricePoint{
			Date:  market.CalendarDay(time.Unix(ts, 0).UTC()),
			Close: decimal.NewFromFloat(*closes[i]),
		})
	}

	c.log.Info("fetched chart", zap.String("symbol", req.Symbol), zap.Int("days", len(points)))
	return market.NewPriceSeries(points)
}

// Source adapts a fixed chart request to market.Source.
type Source struct {
	Client  *Client
	Request ChartRequest
}

func (s Source) Load(ctx context.Context) (*market.PriceSeries, error) {
	return s.Client.Chart(ctx, s.Request)
}
