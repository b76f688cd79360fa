// Package http is the request core shared by every FastSpring resource client.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fivetwenty-io/fastspring-client/internal/constants"
	"github.com/fivetwenty-io/fastspring-client/internal/spec"
	"github.com/fivetwenty-io/fastspring-client/pkg/fastspring"
	"github.com/hashicorp/go-retryablehttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Methods of catalog calls.
const (
	MethodGet    = http.MethodGet
	MethodPost   = http.MethodPost
	MethodPut    = http.MethodPut
	MethodDelete = http.MethodDelete
)

// Authenticator attaches credentials to an outgoing request.
type Authenticator interface {
	Authenticate(req *http.Request, schemes []spec.SecurityScheme) error
}

// Request is a raw request against a resolved path.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string

	operation *spec.Operation
}

// Response is a successful (or, alongside an error, failed) HTTP response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Call is a catalog operation invocation: a literal template and verb plus
// the values to fill it with.
type Call struct {
	Method   string
	Template string
	Params   map[string]string
	Query    url.Values
	Body     interface{}
	Headers  map[string]string
}

// Settings are the mutable, process-wide request settings.
type Settings struct {
	Timeout time.Duration
	BaseURL string
}

// Client dispatches requests through a retryablehttp client.
type Client struct {
	httpClient    *retryablehttp.Client
	authenticator Authenticator
	catalog       *spec.Catalog
	logger        fastspring.Logger
	interceptors  *fastspring.InterceptorChain
	userAgent     string
	debug         bool
	tracing       bool

	mutex    sync.RWMutex
	settings Settings
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for debug output.
func WithLogger(logger fastspring.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithRetryConfig enables retries of 5xx, 429 and connection failures.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax

		if waitMin > 0 {
			c.httpClient.RetryWaitMin = waitMin
		}

		if waitMax > 0 {
			c.httpClient.RetryWaitMax = waitMax
		}
	}
}

// WithTimeout sets the initial per-call timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.settings.Timeout = timeout
	}
}

// WithInterceptors installs an interceptor chain.
func WithInterceptors(chain *fastspring.InterceptorChain) Option {
	return func(c *Client) {
		if chain != nil {
			c.interceptors = chain
		}
	}
}

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient.HTTPClient = client
		}
	}
}

// WithTracing wraps the transport with OpenTelemetry instrumentation.
func WithTracing(enabled bool) Option {
	return func(c *Client) {
		c.tracing = enabled
	}
}

// WithCatalog replaces the embedded operation catalog.
func WithCatalog(catalog *spec.Catalog) Option {
	return func(c *Client) {
		c.catalog = catalog
	}
}

// NewClient creates a request core for baseURL. authenticator may be nil.
func NewClient(baseURL string, authenticator Authenticator, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.Logger = nil
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		httpClient:    retryClient,
		authenticator: authenticator,
		interceptors:  fastspring.NewInterceptorChain(),
		userAgent:     constants.DefaultUserAgent,
		settings: Settings{
			Timeout: constants.DefaultHTTPTimeout,
			BaseURL: strings.TrimSuffix(baseURL, "/"),
		},
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.tracing {
		transport := client.httpClient.HTTPClient.Transport
		if transport == nil {
			transport = http.DefaultTransport
		}

		client.httpClient.HTTPClient.Transport = otelhttp.NewTransport(transport)
	}

	return client
}

// Settings returns a snapshot of the current settings.
func (c *Client) Settings() Settings {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.settings
}

// SetTimeout changes the timeout of calls dispatched from now on. Zero disables it.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.settings.Timeout = timeout
}

// SetBaseURL changes the base URL of calls dispatched from now on.
func (c *Client) SetBaseURL(baseURL string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.settings.BaseURL = strings.TrimSuffix(baseURL, "/")
}

// Catalog returns the operation catalog, loading the embedded one on first use.
func (c *Client) Catalog() (*spec.Catalog, error) {
	if c.catalog != nil {
		return c.catalog, nil
	}

	return spec.Load()
}

// Fetch resolves call against the catalog and dispatches it.
func (c *Client) Fetch(ctx context.Context, call *Call) (*Response, error) {
	path, err := ResolveTemplate(call.Template, call.Params)
	if err != nil {
		return nil, err
	}

	catalog, err := c.Catalog()
	if err != nil {
		return nil, fmt.Errorf("loading operation catalog: %w", err)
	}

	op, err := catalog.Lookup(call.Method, call.Template)
	if err != nil {
		return nil, err
	}

	return c.Do(ctx, &Request{
		Method:    op.Method,
		Path:      path,
		Query:     call.Query,
		Body:      call.Body,
		Headers:   call.Headers,
		operation: op,
	})
}

// Do executes req. On a non-2xx status it returns the response together with
// a *fastspring.ResponseError.
//
//nolint:funlen,cyclop
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	settings := c.Settings()

	fullURL, err := buildURL(settings.BaseURL, req.Path, req.Query)
	if err != nil {
		return nil, err
	}

	var bodyBytes []byte

	if req.Body != nil {
		bodyBytes, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
	}

	intercepted := &fastspring.Request{
		Method:  req.Method,
		Path:    req.Path,
		Headers: make(http.Header),
		Body:    bodyBytes,
	}

	if req.operation != nil {
		intercepted.Operation = req.operation.ID
	}

	for key, value := range req.Headers {
		intercepted.Headers.Set(key, value)
	}

	err = c.interceptors.ExecuteRequestInterceptors(ctx, intercepted)
	if err != nil {
		return nil, err
	}

	if settings.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, settings.Timeout)
		defer cancel()
	}

	var body interface{}
	if intercepted.Body != nil {
		body = intercepted.Body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if intercepted.Body != nil {
		contentType := "application/json"
		if req.operation != nil && req.operation.ContentType != "" {
			contentType = req.operation.ContentType
		}

		httpReq.Header.Set("Content-Type", contentType)
	}

	for key, values := range intercepted.Headers {
		httpReq.Header[key] = values
	}

	if c.authenticator != nil {
		err = c.authenticator.Authenticate(httpReq.Request, c.securitySchemes(req.operation))
		if err != nil {
			return nil, fmt.Errorf("authenticating request: %w", err)
		}
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method":    req.Method,
			"url":       httpReq.URL.Redacted(),
			"operation": intercepted.Operation,
		})
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		err = fmt.Errorf("executing request: %w", err)
		_ = c.interceptors.ExecuteResponseInterceptors(ctx, intercepted, &fastspring.Response{Error: err})

		return nil, err
	}

	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status": resp.StatusCode,
			"body":   truncate(respBody),
		})
	}

	response := &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
	}

	var respErr error
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		respErr = newResponseError(req, resp.StatusCode, respBody)
	}

	err = c.interceptors.ExecuteResponseInterceptors(ctx, intercepted, &fastspring.Response{
		StatusCode: response.StatusCode,
		Headers:    response.Headers,
		Body:       response.Body,
		Error:      respErr,
	})
	if err != nil {
		return response, err
	}

	return response, respErr
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

func (c *Client) securitySchemes(op *spec.Operation) []spec.SecurityScheme {
	if op == nil {
		return nil
	}

	catalog, err := c.Catalog()
	if err != nil {
		return nil
	}

	return catalog.SecuritySchemes(op)
}

func newResponseError(req *Request, status int, body []byte) *fastspring.ResponseError {
	respErr := &fastspring.ResponseError{
		StatusCode: status,
		Method:     req.Method,
		Path:       req.Path,
		Body:       body,
	}

	if req.operation == nil {
		return respErr
	}

	respErr.Operation = req.operation.ID
	respErr.Documented = req.operation.Documents(status)

	if respErr.Documented {
		payload, err := fastspring.ParseErrorPayload(body)
		if err == nil {
			respErr.Payload = payload
		}
	}

	return respErr
}

func buildURL(baseURL, path string, query url.Values) (string, error) {
	parsed, err := url.Parse(baseURL + path)
	if err != nil {
		return "", fmt.Errorf("parsing request URL: %w", err)
	}

	if len(query) > 0 {
		merged := parsed.Query()

		for key, values := range query {
			for _, value := range values {
				merged.Add(key, value)
			}
		}

		parsed.RawQuery = merged.Encode()
	}

	return parsed.String(), nil
}

func truncate(body []byte) string {
	const limit = 1024
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}

	return string(bytes.TrimSpace(body))
}
