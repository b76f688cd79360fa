package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/fastspring-client/internal/auth"
	"github.com/fivetwenty-io/fastspring-client/internal/http"
	"github.com/fivetwenty-io/fastspring-client/internal/spec"
	"github.com/fivetwenty-io/fastspring-client/pkg/fastspring"
	"github.com/gorilla/schema"
)

// Static errors for err113 compliance.
var (
	ErrAPIEndpointRequired = errors.New("API endpoint is required")
)

var queryEncoder = schema.NewEncoder()

// Client implements the fastspring.Client interface.
type Client struct {
	httpClient  *http.Client
	credentials *auth.Store
	logger      fastspring.Logger

	accounts      fastspring.AccountsClient
	coupons       fastspring.CouponsClient
	events        fastspring.EventsClient
	orders        fastspring.OrdersClient
	products      fastspring.ProductsClient
	quotes        fastspring.QuotesClient
	returns       fastspring.ReturnsClient
	sessions      fastspring.SessionsClient
	subscriptions fastspring.SubscriptionsClient
	webhooks      fastspring.WebhooksClient
	reports       fastspring.ReportsClient
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *fastspring.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.Timeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.Timeout))
	}

	if config.RetryMax > 0 {
		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, config.RetryWaitMin, config.RetryWaitMax))
	}

	if config.Interceptors != nil {
		httpOpts = append(httpOpts, http.WithInterceptors(config.Interceptors))
	}

	if config.Tracing {
		httpOpts = append(httpOpts, http.WithTracing(true))
	}

	return httpOpts
}

// New creates a new FastSpring API client from a normalized config.
func New(config *fastspring.Config, opts ...http.Option) (*Client, error) {
	if config.BaseURL == "" {
		return nil, ErrAPIEndpointRequired
	}

	credentials := auth.NewStore()

	if values := config.Credentials(); len(values) > 0 {
		err := credentials.Set(values...)
		if err != nil {
			return nil, fmt.Errorf("storing credentials: %w", err)
		}
	}

	httpOpts := append(createHTTPClientOptions(config), opts...)

	return NewWithHTTPClient(http.NewClient(config.BaseURL, credentials, httpOpts...), credentials, config.Logger), nil
}

// NewWithHTTPClient wires the resource clients around an existing request core.
func NewWithHTTPClient(httpClient *http.Client, credentials *auth.Store, logger fastspring.Logger) *Client {
	client := &Client{
		httpClient:  httpClient,
		credentials: credentials,
		logger:      logger,
	}

	client.initializeResourceClients()

	return client
}

func (c *Client) initializeResourceClients() {
	c.accounts = NewAccountsClient(c.httpClient)
	c.coupons = NewCouponsClient(c.httpClient)
	c.events = NewEventsClient(c.httpClient)
	c.orders = NewOrdersClient(c.httpClient)
	c.products = NewProductsClient(c.httpClient)
	c.quotes = NewQuotesClient(c.httpClient)
	c.returns = NewReturnsClient(c.httpClient)
	c.sessions = NewSessionsClient(c.httpClient)
	c.subscriptions = NewSubscriptionsClient(c.httpClient)
	c.webhooks = NewWebhooksClient(c.httpClient)
	c.reports = NewReportsClient(c.httpClient)
}

// Configure implements fastspring.Client.Configure.
func (c *Client) Configure(opts fastspring.Options) {
	if opts.Timeout > 0 {
		c.httpClient.SetTimeout(opts.Timeout)
	}
}

// Auth implements fastspring.Client.Auth.
func (c *Client) Auth(values ...string) error {
	if c.credentials == nil {
		return fmt.Errorf("%w: client has no credential store", fastspring.ErrInvalidCredentials)
	}

	err := c.credentials.Set(values...)
	if err != nil {
		return fmt.Errorf("setting credentials: %w", err)
	}

	return nil
}

// Server implements fastspring.Client.Server.
func (c *Client) Server(serverURL string, variables map[string]string) error {
	catalog, err := c.httpClient.Catalog()
	if err != nil {
		return fmt.Errorf("loading operation catalog: %w", err)
	}

	var server spec.Server

	if serverURL == "" {
		server, err = catalog.DefaultServer()
		if err != nil {
			return fmt.Errorf("selecting server: %w", err)
		}
	} else {
		declared, ok := catalog.ServerFor(serverURL)
		if ok {
			server = declared
		} else {
			server = spec.Server{URL: serverURL}
		}
	}

	resolved, err := server.Resolve(variables)
	if err != nil {
		return fmt.Errorf("resolving server %s: %w", server.URL, err)
	}

	parsed, err := url.Parse(resolved)
	if err != nil {
		return fmt.Errorf("parsing server URL: %w", err)
	}

	if parsed.Host == "" {
		return fmt.Errorf("%w: %s", fastspring.ErrNoHostInURL, resolved)
	}

	c.httpClient.SetBaseURL(resolved)

	if c.logger != nil {
		c.logger.Debug("Server selected", map[string]interface{}{"url": resolved})
	}

	return nil
}

// BaseURL returns the base URL calls are currently sent to.
func (c *Client) BaseURL() string {
	return c.httpClient.Settings().BaseURL
}

// HTTPClient returns the shared request core.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// Resource client accessors

// Accounts implements fastspring.Client.Accounts.
func (c *Client) Accounts() fastspring.AccountsClient {
	return c.accounts
}

// Coupons implements fastspring.Client.Coupons.
func (c *Client) Coupons() fastspring.CouponsClient {
	return c.coupons
}

// Events implements fastspring.Client.Events.
func (c *Client) Events() fastspring.EventsClient {
	return c.events
}

// Orders implements fastspring.Client.Orders.
func (c *Client) Orders() fastspring.OrdersClient {
	return c.orders
}

// Products implements fastspring.Client.Products.
func (c *Client) Products() fastspring.ProductsClient {
	return c.products
}

// Quotes implements fastspring.Client.Quotes.
func (c *Client) Quotes() fastspring.QuotesClient {
	return c.quotes
}

// Returns implements fastspring.Client.Returns.
func (c *Client) Returns() fastspring.ReturnsClient {
	return c.returns
}

// Sessions implements fastspring.Client.Sessions.
func (c *Client) Sessions() fastspring.SessionsClient {
	return c.sessions
}

// Subscriptions implements fastspring.Client.Subscriptions.
func (c *Client) Subscriptions() fastspring.SubscriptionsClient {
	return c.subscriptions
}

// Webhooks implements fastspring.Client.Webhooks.
func (c *Client) Webhooks() fastspring.WebhooksClient {
	return c.webhooks
}

// Reports implements fastspring.Client.Reports.
func (c *Client) Reports() fastspring.ReportsClient {
	return c.reports
}

// encodeQuery turns a schema-tagged filter struct into query values.
func encodeQuery(params interface{}) (url.Values, error) {
	values := url.Values{}

	err := queryEncoder.Encode(params, values)
	if err != nil {
		return nil, fmt.Errorf("encoding query parameters: %w", err)
	}

	return values, nil
}

// optionalQuery encodes params unless it is nil.
func optionalQuery[T any](params *T) (url.Values, error) {
	if params == nil {
		return nil, nil
	}

	return encodeQuery(params)
}

// optionalBody keeps a nil request out of the dispatched call.
func optionalBody[T any](request *T) interface{} {
	if request == nil {
		return nil
	}

	return request
}

// validated runs the request's validation tags before it is sent.
func validated[T any](request *T) (interface{}, error) {
	if request == nil {
		return nil, nil
	}

	err := fastspring.ValidateRequest(request)
	if err != nil {
		return nil, err
	}

	return request, nil
}

// decode parses a JSON response body. An empty body yields the zero value.
func decode[T any](resp *http.Response, what string) (*T, error) {
	var out T

	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return &out, nil
	}

	err := json.Unmarshal(resp.Body, &out)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", what, err)
	}

	return &out, nil
}
