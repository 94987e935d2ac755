package twelvedata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"realTimeDash/internal/ports"
)

const (
	// DefaultBaseURL is the Twelve Data real-time price endpoint.
	DefaultBaseURL = "https://api.twelvedata.com/price"

	defaultTimeout = 3 * time.Second
	maxBodyBytes   = 64 << 10
)

// Client implements ports.PriceClient against the Twelve Data /price endpoint.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	logger  ports.Logger
}

// Config holds configuration for the Twelve Data client.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration // Per-request timeout, applied on the http.Client
	Logger     ports.Logger
	HTTPClient *http.Client // Optional; overrides Timeout when set
}

// quoteResponse covers both the success shape ({"price":"189.84"}) and the error
// shape ({"code":401,"message":"...","status":"error"}).
type quoteResponse struct {
	Price   json.RawMessage `json:"price"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Status  string          `json:"status"`
}

// New creates a new Twelve Data client.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Twelve Data client")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid Twelve Data URL '%s': %w: %w", baseURL, ports.ErrConfigurationError, err)
	}
	if cfg.APIKey == "" {
		cfg.Logger.Warn(context.Background(), "Twelve Data API key is empty, quotes will likely be rejected")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		http:    httpClient,
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		logger:  cfg.Logger,
	}, nil
}

// GetPrice issues GET <baseURL>?symbol=<symbol>&apikey=<key> and parses the price field.
func (c *Client) GetPrice(ctx context.Context, symbol string) (float64, error) {
	op := "GetPrice"
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return 0, c.handleError(ctx, fmt.Errorf("%w: %w", ports.ErrConfigurationError, err), op, symbol)
	}
	q := u.Query()
	q.Set("symbol", symbol)
	q.Set("apikey", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, c.handleError(ctx, fmt.Errorf("%w: create request: %w", ports.ErrInvalidRequest, err), op, symbol)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, c.handleError(ctx, err, op, symbol)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, c.handleError(ctx, statusError(resp.StatusCode), op, symbol)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, c.handleError(ctx, err, op, symbol)
	}
	price, err := parsePrice(body)
	if err != nil {
		return 0, c.handleError(ctx, err, op, symbol)
	}
	return price, nil
}

func statusError(code int) error {
	switch {
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: status %d", ports.ErrNotFound, code)
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ports.ErrRateLimited, code)
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ports.ErrAuthenticationFailed, code)
	default:
		return fmt.Errorf("%w: status %d", ports.ErrExchangeUnavailable, code)
	}
}

// parsePrice extracts the price field, accepting both string and number encodings.
func parsePrice(body []byte) (float64, error) {
	var payload quoteResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("%w: %w", ports.ErrInvalidResponse, err)
	}
	if payload.Status == "error" {
		switch payload.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return 0, fmt.Errorf("%w: %s", ports.ErrAuthenticationFailed, payload.Message)
		case http.StatusTooManyRequests:
			return 0, fmt.Errorf("%w: %s", ports.ErrRateLimited, payload.Message)
		default:
			return 0, fmt.Errorf("%w: code %d: %s", ports.ErrExchangeUnavailable, payload.Code, payload.Message)
		}
	}
	raw := strings.TrimSpace(string(payload.Price))
	if raw == "" || raw == "null" {
		return 0, fmt.Errorf("%w: price field missing", ports.ErrNotFound)
	}
	raw = strings.Trim(raw, `"`)
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: could not parse price '%s': %w", ports.ErrInvalidResponse, raw, err)
	}
	return price, nil
}

// handleError classifies transport errors and logs the failure.
func (c *Client) handleError(ctx context.Context, err error, operation, symbol string) error {
	var finalErr error
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		finalErr = fmt.Errorf("%s operation canceled: %w: %w", operation, ports.ErrContextCanceled, err)
	case errors.As(err, &netErr) && netErr.Timeout():
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrTimeout, err)
	case isSentinel(err):
		finalErr = fmt.Errorf("%s failed: %w", operation, err)
	case errors.As(err, &netErr):
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrConnectionFailed, err)
	default:
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrUnknown, err)
	}

	c.logger.Debug(ctx, "Twelve Data request failed", map[string]interface{}{
		"operation": operation,
		"symbol":    symbol,
		"error":     err.Error(),
	})
	return finalErr
}

func isSentinel(err error) bool {
	for _, target := range []error{
		ports.ErrNotFound, ports.ErrRateLimited, ports.ErrAuthenticationFailed,
		ports.ErrExchangeUnavailable, ports.ErrInvalidResponse, ports.ErrInvalidRequest,
		ports.ErrConfigurationError,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
