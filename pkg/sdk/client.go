package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// HeaderTenantID carries the resolved tenant id on every request.
const HeaderTenantID = "X-Tenant-ID"

const maxResponseBytes = 8 << 20

// ResponseObserver sees every response the client receives. Observers must not
// read or close the body.
type ResponseObserver func(resp *http.Response)

// Client is the shared, tenant-aware API client. Every request it sends
// (including those made through HTTPClient) carries the cached tenant id and
// the current bearer token.
type Client struct {
	baseURL    string
	httpClient *http.Client
	storage    Storage
	tenants    *TenantCache
	tokens     *TokenStore
	logger     *zap.Logger

	mu        sync.RWMutex
	observers map[uint64]ResponseObserver
	nextID    uint64
}

// ClientOptions configures SDK client construction.
type ClientOptions struct {
	HTTPClient  *http.Client
	Storage     Storage
	TokenSource oauth2.TokenSource
	Logger      *zap.Logger
	Timeout     time.Duration
}

// ClientOption mutates ClientOptions.
type ClientOption func(*ClientOptions)

// WithHTTPClient sets the client whose transport, jar and redirect policy are
// wrapped by the dispatcher.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(opts *ClientOptions) {
		opts.HTTPClient = client
	}
}

// WithStorage sets the store tenant identity and tokens are read from.
func WithStorage(storage Storage) ClientOption {
	return func(opts *ClientOptions) {
		opts.Storage = storage
	}
}

// WithTokenSource replaces the role-agnostic token store lookup, e.g. with an
// oauth2.StaticTokenSource for an ephemeral token.
func WithTokenSource(source oauth2.TokenSource) ClientOption {
	return func(opts *ClientOptions) {
		opts.TokenSource = source
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(opts *ClientOptions) {
		opts.Logger = logger
	}
}

// WithTimeout bounds each request. Zero keeps the wrapped client's timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(opts *ClientOptions) {
		opts.Timeout = timeout
	}
}

// NewClient creates the client for the API at baseURL. Storage defaults to an
// in-memory store and logging to a no-op logger.
func NewClient(baseURL string, optFns ...ClientOption) *Client {
	opts := ClientOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Storage == nil {
		opts.Storage = NewMemoryStorage()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		storage:   opts.Storage,
		tenants:   NewTenantCache(opts.Storage),
		tokens:    NewTokenStore(opts.Storage),
		logger:    opts.Logger,
		observers: make(map[uint64]ResponseObserver),
	}

	source := opts.TokenSource
	if source == nil {
		source = c.tokens.TokenSource(context.Background(), RoleAny)
	}

	base := opts.HTTPClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	timeout := opts.HTTPClient.Timeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}

	c.httpClient = &http.Client{
		Transport: &dispatchTransport{
			base:   base,
			client: c,
			source: source,
			logger: opts.Logger,
		},
		CheckRedirect: opts.HTTPClient.CheckRedirect,
		Jar:           opts.HTTPClient.Jar,
		Timeout:       timeout,
	}
	return c
}

// BaseURL returns the API base address.
func (c *Client) BaseURL() string { return c.baseURL }

// HTTPClient returns the decorated http.Client.
func (c *Client) HTTPClient() *http.Client { return c.httpClient }

// Storage returns the backing store.
func (c *Client) Storage() Storage { return c.storage }

// Tenants returns the tenant cache the dispatcher reads.
func (c *Client) Tenants() *TenantCache { return c.tenants }

// Tokens returns the per-role token store.
func (c *Client) Tokens() *TokenStore { return c.tokens }

// Logger returns the client's logger.
func (c *Client) Logger() *zap.Logger { return c.logger }

// Subscribe registers observer for every subsequent response and returns the
// function that detaches it. Every subscriber sees every response on this
// client, whichever caller issued the request.
func (c *Client) Subscribe(observer ResponseObserver) (unsubscribe func()) {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.observers[id] = observer
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.observers, id)
			c.mu.Unlock()
		})
	}
}

// subscribers returns the number of attached observers.
func (c *Client) subscribers() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.observers)
}

func (c *Client) notify(resp *http.Response) {
	c.mu.RLock()
	snapshot := make([]ResponseObserver, 0, len(c.observers))
	for _, observer := range c.observers {
		snapshot = append(snapshot, observer)
	}
	c.mu.RUnlock()

	for _, observer := range snapshot {
		observer(resp)
	}
}

// Do sends a JSON request to path and decodes a successful JSON response into
// out. Non-2xx responses become *APIError; transport errors are returned as-is.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint, err := c.endpoint(path, query)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

func (c *Client) endpoint(path string, query url.Values) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("base URL is required")
	}
	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", path, err)
	}
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return endpoint, nil
}

// dispatchTransport decorates each request with tenant and auth headers and
// reports each response to the client's observers.
type dispatchTransport struct {
	base   http.RoundTripper
	client *Client
	source oauth2.TokenSource
	logger *zap.Logger
}

func (t *dispatchTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	decorated := req.Clone(req.Context())

	if decorated.Header.Get(HeaderTenantID) == "" {
		tenantID, err := t.client.tenants.SavedTenantID(req.Context())
		if err != nil {
			t.logger.Warn("read cached tenant id", zap.Error(err))
		}
		if tenantID != "" {
			decorated.Header.Set(HeaderTenantID, tenantID)
		}
	}

	if decorated.Header.Get("Authorization") == "" {
		token, err := t.source.Token()
		switch {
		case err == nil && token.AccessToken != "":
			token.SetAuthHeader(decorated)
		case err != nil && !errors.Is(err, ErrNoToken):
			t.logger.Warn("read bearer token", zap.Error(err))
		}
	}

	resp, err := t.base.RoundTrip(decorated)
	if err != nil {
		return nil, err
	}

	t.logger.Debug("api response",
		zap.String("method", req.Method),
		zap.String("url", req.URL.Redacted()),
		zap.Int("status", resp.StatusCode),
	)
	t.client.notify(resp)
	return resp, nil
}

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error: %s: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error: %s", e.Status)
}

var messageExtractors = []Extractor{
	Path("message"),
	Path("error", "message"),
	Path("error"),
	Path("data", "message"),
}

func newAPIError(resp *http.Response, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       body,
	}
	if apiErr.Status == "" {
		apiErr.Status = fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	if payload, err := decodeJSON(body); err == nil {
		apiErr.Message, _ = FirstString(payload, messageExtractors)
	}
	return apiErr
}

// IsStatus reports whether err is an *APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	return IsStatus(err, http.StatusUnauthorized)
}
