package fastspring

import (
	"context"
	"time"
)

// AccountsClient manages customer accounts.
type AccountsClient interface {
	List(ctx context.Context, params *AccountListParams) (*AccountList, error)
	Create(ctx context.Context, request *AccountCreateRequest) (*AccountResult, error)
	Get(ctx context.Context, accountID string) (*Account, error)
	Update(ctx context.Context, accountID string, request *AccountUpdateRequest) (*AccountResult, error)
	ManagementURL(ctx context.Context, accountID string) (*AccountManagementURL, error)
}

// CouponsClient manages coupons and their codes.
type CouponsClient interface {
	Upsert(ctx context.Context, request *CouponRequest) (*Coupon, error)
	List(ctx context.Context) (*CouponList, error)
	Get(ctx context.Context, couponID string) (*Coupon, error)
	Delete(ctx context.Context, couponID string) (*CouponDeleteResult, error)
	AddCodes(ctx context.Context, couponID string, request *CouponCodesRequest) (*CouponCodes, error)
	LookupCodes(ctx context.Context, couponID string, lookup *CouponCodesLookup) (*CouponCodes, error)
	DeleteCodes(ctx context.Context, couponID string) (*CouponCodes, error)
}

// EventsClient reads and acknowledges events.
type EventsClient interface {
	ListProcessed(ctx context.Context, params *EventListParams) (*EventList, error)
	ListUnprocessed(ctx context.Context, params *EventListParams) (*EventList, error)
	Update(ctx context.Context, eventID string, request *EventUpdateRequest) (*ActionResult, error)
}

// OrdersClient reads and tags orders.
type OrdersClient interface {
	List(ctx context.Context, params *OrderListParams) (*OrderList, error)
	ListByProduct(ctx context.Context, productPath string) (*OrderList, error)
	Get(ctx context.Context, orderID string) (*Order, error)
	Update(ctx context.Context, request *OrderUpdateRequest) (*OrderUpdateResult, error)
}

// ProductsClient manages the product catalog and its prices.
type ProductsClient interface {
	List(ctx context.Context) (*ProductIDs, error)
	Upsert(ctx context.Context, request *ProductsRequest) (*ProductsResult, error)
	Get(ctx context.Context, productPath string) (*ProductList, error)
	Delete(ctx context.Context, productPath string) (*ProductsResult, error)
	Offers(ctx context.Context, productPath string) (*ProductOffers, error)
	UpdateOffers(ctx context.Context, productPath string, request *ProductOffersRequest) (*ProductOffers, error)
	Prices(ctx context.Context, params *PriceParams) (*ProductPriceList, error)
	Price(ctx context.Context, productPath string, params *PriceParams) (*ProductPriceList, error)
	Locales(ctx context.Context, productPath string) (*ProductLocaleList, error)
}

// QuotesClient manages sales quotes.
type QuotesClient interface {
	List(ctx context.Context, params *QuoteListParams) (*QuoteList, error)
	Create(ctx context.Context, request *QuoteRequest) (*Quote, error)
	Get(ctx context.Context, quoteID string) (*Quote, error)
	Update(ctx context.Context, quoteID string, request *QuoteRequest) (*Quote, error)
	Cancel(ctx context.Context, quoteID string, request *QuoteCancelRequest) (*Quote, error)
}

// ReturnsClient creates and reads returns.
type ReturnsClient interface {
	Create(ctx context.Context, request *ReturnRequest) (*ReturnList, error)
	Get(ctx context.Context, returnID string) (*ReturnList, error)
}

// SessionsClient creates checkout sessions.
type SessionsClient interface {
	Create(ctx context.Context, request *SessionRequest) (*Session, error)
}

// SubscriptionsClient manages subscriptions.
type SubscriptionsClient interface {
	List(ctx context.Context, params *SubscriptionListParams) (*SubscriptionList, error)
	Update(ctx context.Context, request *SubscriptionsUpdateRequest) (*SubscriptionsResult, error)
	Get(ctx context.Context, subscriptionID string) (*Subscription, error)
	Cancel(ctx context.Context, subscriptionID string, params *SubscriptionCancelParams) (*SubscriptionsResult, error)
	Entries(ctx context.Context, subscriptionID string) ([]SubscriptionEntry, error)
	History(ctx context.Context, subscriptionID string, params *SubscriptionHistoryParams) (*SubscriptionHistory, error)
	Pause(ctx context.Context, subscriptionID string, request *SubscriptionPauseRequest) (*SubscriptionStatus, error)
	Resume(ctx context.Context, subscriptionID string) (*SubscriptionStatus, error)
	ConvertTrial(ctx context.Context, subscriptionID string) (*SubscriptionStatus, error)
	EstimateProration(ctx context.Context, request *ProrationEstimateRequest) (*ProrationEstimate, error)
	Charge(ctx context.Context, request *SubscriptionChargeRequest) (*SubscriptionsResult, error)
}

// WebhooksClient manages webhook endpoints.
type WebhooksClient interface {
	List(ctx context.Context) (*WebhookList, error)
	Upsert(ctx context.Context, request *WebhookRequest) (*WebhookList, error)
	Get(ctx context.Context, webhookID string) (*Webhook, error)
	Delete(ctx context.Context, webhookID string) (*ActionResult, error)
}

// ReportsClient drives the data API's report jobs.
type ReportsClient interface {
	Revenue(ctx context.Context, request *ReportRequest) (*ReportJob, error)
	Subscription(ctx context.Context, request *ReportRequest) (*ReportJob, error)
	ListJobs(ctx context.Context) (*ReportJobList, error)
	GetJob(ctx context.Context, jobID string) (*ReportJob, error)
	Download(ctx context.Context, jobID string) ([]byte, error)
	PollUntilComplete(ctx context.Context, jobID string) (*ReportJob, error)
}

// ResourceClients provides access to all resource-specific clients.
type ResourceClients interface {
	Accounts() AccountsClient
	Coupons() CouponsClient
	Events() EventsClient
	Orders() OrdersClient
	Products() ProductsClient
	Quotes() QuotesClient
	Returns() ReturnsClient
	Sessions() SessionsClient
	Subscriptions() SubscriptionsClient
	Webhooks() WebhooksClient
	Reports() ReportsClient
}

// Settings changes the request settings of a live client. Changes apply to
// calls dispatched afterwards, never to calls already in flight.
type Settings interface {
	// Configure merges the non-zero fields of opts into the settings.
	Configure(opts Options)
	// Auth replaces the stored credentials. Two values are sent as HTTP basic
	// auth, one value as the operation's single-value scheme.
	Auth(values ...string) error
	// Server selects the base URL. An empty url selects the first declared
	// server. {name} placeholders are filled from variables, then from the
	// declared defaults.
	Server(url string, variables map[string]string) error
}

// Client is a FastSpring API client.
type Client interface {
	ResourceClients
	Settings
}

// Options are the runtime settings accepted by Configure.
type Options struct {
	Timeout time.Duration
}

// Config represents client configuration for building a fastspring.Client.
//
// # Credentials
//
// Username and Password are sent as HTTP basic auth, which is what the
// FastSpring API uses. AccessToken or APIKey supply a single credential for
// operations that declare a bearer or API key scheme. Credentials can be
// replaced later with Client.Auth.
//
// # Timeouts and retries
//
// Timeout bounds every call and can be changed later with Client.Configure.
// Retries are off unless RetryMax is set; only 5xx, 429 and connection
// failures are retried.
type Config struct {
	// BaseURL overrides the first server declared by the API description.
	BaseURL string `envconfig:"BASE_URL" validate:"omitempty,url"`

	Username    string `envconfig:"USERNAME"     validate:"required_with=Password"`
	Password    string `envconfig:"PASSWORD"     validate:"required_with=Username"`
	AccessToken string `envconfig:"ACCESS_TOKEN" validate:"excluded_with=Username"`
	APIKey      string `envconfig:"API_KEY"      validate:"excluded_with=Username AccessToken"`

	Timeout      time.Duration `envconfig:"TIMEOUT"        validate:"min=0"`
	RetryMax     int           `envconfig:"RETRY_MAX"      validate:"min=0,max=10"`
	RetryWaitMin time.Duration `envconfig:"RETRY_WAIT_MIN" validate:"min=0"`
	RetryWaitMax time.Duration `envconfig:"RETRY_WAIT_MAX" validate:"min=0"`

	Debug     bool   `envconfig:"DEBUG"`
	Tracing   bool   `envconfig:"TRACING"`
	UserAgent string `envconfig:"USER_AGENT"`

	// Logger receives request core debug output when Debug is set.
	Logger Logger `ignored:"true" validate:"-"`
	// Interceptors run around every dispatched request.
	Interceptors *InterceptorChain `ignored:"true" validate:"-"`
}

// Credentials returns the credential values implied by the config.
func (c *Config) Credentials() []string {
	switch {
	case c.Username != "" && c.Password != "":
		return []string{c.Username, c.Password}
	case c.AccessToken != "":
		return []string{c.AccessToken}
	case c.APIKey != "":
		return []string{c.APIKey}
	default:
		return nil
	}
}
