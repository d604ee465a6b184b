package bookmaker

import (
	"Slipboard/internal/pkg/betslip"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

const (
	NameSportyBet = "SportyBet"

	defaultBaseURL   = "https://www.sportybet.com"
	defaultCountry   = "ng"
	defaultRateLimit = 5.0
	defaultBurst     = 5
	defaultTimeout   = 10 * time.Second
)

var (
	ErrCodeNotFound      = errors.New("booking code not found")
	ErrMalformedResponse = errors.New("bookmaker response malformed")
)

// APIError 上游返回非预期的 HTTP 状态
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bookmaker api error %d: %s", e.StatusCode, e.Message)
}

// Booking 分享码对应的注单
type Booking struct {
	Bookmaker     string
	Code          string
	DeclaredTotal decimal.NullDecimal
	Selections    []betslip.Selection
}

// Client 分享码查询
type Client interface {
	Name() string
	Lookup(ctx context.Context, code string) (*Booking, error)
}

type SportyBetClient struct {
	http    *resty.Client
	country string
	limiter *rate.Limiter
}

// ClientOption 配置客户端
type ClientOption func(*SportyBetClient)

func WithBaseURL(url string) ClientOption {
	return func(c *SportyBetClient) {
		if url != "" {
			c.http.SetBaseURL(strings.TrimRight(url, "/"))
		}
	}
}

func WithCountry(country string) ClientOption {
	return func(c *SportyBetClient) {
		if country != "" {
			c.country = country
		}
	}
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *SportyBetClient) {
		if timeout > 0 {
			c.http.SetTimeout(timeout)
		}
	}
}

func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *SportyBetClient) {
		if rps > 0 && burst > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

func NewSportyBetClient(opts ...ClientOption) *SportyBetClient {
	c := &SportyBetClient{
		http: resty.New().
			SetBaseURL(defaultBaseURL).
			SetTimeout(defaultTimeout).
			SetHeader("Accept", "application/json").
			SetHeader("User-Agent", "Mozilla/5.0 (compatible; Slipboard/1.0)"),
		country: defaultCountry,
		limiter: rate.NewLimiter(rate.Limit(defaultRateLimit), defaultBurst),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *SportyBetClient) Name() string {
	return NameSportyBet
}

// Lookup 查询分享码，未找到返回 ErrCodeNotFound
func (c *SportyBetClient) Lookup(ctx context.Context, code string) (*Booking, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrCodeNotFound
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"country": c.country, "code": code}).
		Get("/api/{country}/orders/share/{code}")
	if err != nil {
		return nil, fmt.Errorf("request share code: %w", err)
	}

	switch status := resp.StatusCode(); {
	case status == http.StatusNotFound || status == http.StatusBadRequest:
		return nil, ErrCodeNotFound
	case status != http.StatusOK:
		return nil, &APIError{StatusCode: status, Message: truncate(resp.String(), 200)}
	}

	doc, err := decodeShareDocument(resp.Body())
	if err != nil {
		return nil, err
	}
	return doc.toBooking(code)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
