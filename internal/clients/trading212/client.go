// Package trading212 provides a client for the Trading 212 account data API
package trading212

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/piewatch/internal/common"
	"github.com/bobmcallan/piewatch/internal/interfaces"
	"github.com/bobmcallan/piewatch/internal/models"
)

const (
	DefaultBaseURL           = "https://live.trading212.com"
	DefaultTimeout           = 30 * time.Second
	DefaultRateLimit         = 1 // requests per second
	DefaultTransactionsLimit = 50
)

// Client implements the AccountClient interface
type Client struct {
	baseURL           string
	apiKey            string
	httpClient        *http.Client
	logger            *common.Logger
	limiter           *rate.Limiter
	transactionsLimit int
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithTransactionsLimit sets the page size requested from the history endpoint
func WithTransactionsLimit(limit int) ClientOption {
	return func(c *Client) {
		if limit > 0 {
			c.transactionsLimit = limit
		}
	}
}

// NewClient creates a new Trading 212 client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter:           rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:            common.NewSilentLogger(),
		transactionsLimit: DefaultTransactionsLimit,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents a non-success response from the API
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Trading212 API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// Unwrap lets errors.Is match common.ErrUpstream
func (e *APIError) Unwrap() error {
	return common.ErrUpstream
}

// get performs a rate-limited GET request and decodes the JSON body into an untyped value.
// Numbers are kept as json.Number so that coercion happens in one place.
func (c *Client) get(ctx context.Context, path string) (interface{}, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit wait: %w", common.ErrUpstream, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", common.ErrUpstream, err)
	}

	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("url", path).Msg("Trading212 API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %w", common.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", common.ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			Endpoint:   path,
		}
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var result interface{}
	if err := dec.Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response from %s: %w", common.ErrUpstream, path, err)
	}

	return result, nil
}

// GetAccountCash retrieves the account cash balance
func (c *Client) GetAccountCash(ctx context.Context) (*models.AccountCash, error) {
	raw, err := c.get(ctx, "/api/v0/equity/account/cash")
	if err != nil {
		return nil, err
	}

	obj, _ := raw.(map[string]interface{})
	return &models.AccountCash{
		Free:     common.ToSafeNumber(obj["free"]),
		Total:    common.ToSafeNumber(obj["total"]),
		Invested: common.ToSafeNumber(obj["invested"]),
		PPL:      common.ToSafeNumber(obj["ppl"]),
		Result:   common.ToSafeNumber(obj["result"]),
	}, nil
}

// GetPies retrieves all pies. The list endpoint omits display names, so each
// unnamed pie is looked up individually.
func (c *Client) GetPies(ctx context.Context) ([]models.Pie, error) {
	raw, err := c.get(ctx, "/api/v0/equity/pies")
	if err != nil {
		return nil, err
	}

	items := listItems(raw)
	pies := make([]models.Pie, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		pie := parsePie(obj)

		if pie.Name == "" && pie.ID != "" {
			name, err := c.getPieName(ctx, pie.ID)
			if err != nil {
				return nil, err
			}
			pie.Name = name
		}
		if pie.Name == "" {
			pie.Name = "pie-" + pie.ID
		}

		pies = append(pies, pie)
	}

	c.logger.Debug().Int("count", len(pies)).Msg("Trading212 pies fetched")
	return pies, nil
}

func (c *Client) getPieName(ctx context.Context, id string) (string, error) {
	raw, err := c.get(ctx, "/api/v0/equity/pies/"+url.PathEscape(id))
	if err != nil {
		return "", err
	}
	obj, _ := raw.(map[string]interface{})
	return pieName(obj), nil
}

// GetTransactions retrieves the most recent page of transactions.
// The endpoint has no time filter; callers filter client-side.
func (c *Client) GetTransactions(ctx context.Context) ([]models.RawTransaction, error) {
	path := "/api/v0/history/transactions?limit=" + strconv.Itoa(c.transactionsLimit)
	raw, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	items := listItems(raw)
	txs := make([]models.RawTransaction, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]interface{}); ok {
			txs = append(txs, models.RawTransaction(obj))
		}
	}
	return txs, nil
}

// listItems accepts either a bare JSON array or an object wrapping one under "items" or "data".
func listItems(raw interface{}) []interface{} {
	switch v := raw.(type) {
	case []interface{}:
		return v
	case map[string]interface{}:
		for _, key := range []string{"items", "data"} {
			if list, ok := v[key].([]interface{}); ok {
				return list
			}
		}
	}
	return nil
}

func parsePie(obj map[string]interface{}) models.Pie {
	pie := models.Pie{
		ID:   idString(obj["id"]),
		Name: pieName(obj),
	}

	result, _ := obj["result"].(map[string]interface{})
	switch {
	case result != nil && result["priceAvgValue"] != nil:
		pie.Value = common.ToSafeNumber(result["priceAvgValue"])
	case result != nil && result["value"] != nil:
		pie.Value = common.ToSafeNumber(result["value"])
	default:
		pie.Value = common.ToSafeNumber(obj["value"])
	}

	if result != nil {
		pie.ResultCoef = common.OptionalNumber(result["priceAvgResultCoef"])
	}
	return pie
}

func pieName(obj map[string]interface{}) string {
	if obj == nil {
		return ""
	}
	if settings, ok := obj["settings"].(map[string]interface{}); ok {
		if name, ok := settings["name"].(string); ok && strings.TrimSpace(name) != "" {
			return strings.TrimSpace(name)
		}
	}
	if name, ok := obj["name"].(string); ok {
		return strings.TrimSpace(name)
	}
	return ""
}

func idString(v interface{}) string {
	switch id := v.(type) {
	case string:
		return id
	case json.Number:
		return id.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(id)
	}
}

// Ensure Client implements AccountClient
var _ interfaces.AccountClient = (*Client)(nil)
