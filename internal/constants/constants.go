package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// API endpoint defaults.
const (
	// DefaultBaseURL is the production FastSpring API endpoint.
	DefaultBaseURL = "https://api.fastspring.com"

	// DefaultUserAgent is sent when the caller does not provide one.
	DefaultUserAgent = "fastspring-client/1.0.0"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations.
	ShortHTTPTimeout = 10 * time.Second

	// ServerReadHeaderTimeout bounds header reads on the webhook receiver.
	ServerReadHeaderTimeout = 10 * time.Second
)

// Retry limits. Retries are opt-in, the zero value disables them.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 0

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Concurrency and batching limits.
const (
	// DefaultConcurrencyLimit limits concurrent operations.
	DefaultConcurrencyLimit = 3
)

// Time intervals and delays.
const (
	// DefaultEventPollInterval is how often the relay polls unprocessed events.
	DefaultEventPollInterval = 30 * time.Second

	// DefaultJobPollTimeout is the default timeout for report job polling.
	DefaultJobPollTimeout = 5 * time.Minute

	// DefaultJobPollInterval is the default interval for report job polling.
	DefaultJobPollInterval = 5 * time.Second
)

// Pagination limits.
const (
	// DefaultPageSize is the default number of items per page.
	DefaultPageSize = 50

	// MaxPageSize is the largest page FastSpring accepts.
	MaxPageSize = 250
)

// Report job states.
const (
	// JobStateCompleted indicates a finished report job.
	JobStateCompleted = "COMPLETED"

	// JobStateFailed indicates a failed report job.
	JobStateFailed = "FAILED"

	// JobStateCanceled indicates a canceled report job.
	JobStateCanceled = "CANCELED"
)

// Relay defaults.
const (
	// DefaultSubjectPrefix prefixes every NATS subject the relay publishes to.
	DefaultSubjectPrefix = "fastspring.events"

	// DefaultWebhookPath is where the webhook receiver listens.
	DefaultWebhookPath = "/webhooks/fastspring"

	// SignatureHeader carries the HMAC signature of webhook payloads.
	SignatureHeader = "X-FS-Signature"

	// MaxWebhookBodySize caps webhook payloads (1MB).
	MaxWebhookBodySize = 1024 * 1024

	// DefaultFlushTimeout bounds the server round trip after a publish when the caller set no deadline.
	DefaultFlushTimeout = 5 * time.Second
)

// UI and display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"

	// DescriptionDisplayLength is the default length for displaying descriptions.
	DescriptionDisplayLength = 60
)

// Format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatTable for table output format.
	FormatTable = "table"

	// JSONIndentSize is the number of spaces for JSON indentation.
	JSONIndentSize = 2
)

// Confirmation constants.
const (
	// ConfirmationYes for positive confirmations.
	ConfirmationYes = "yes"
)

// Credential value counts accepted by Auth.
const (
	// SingleCredential selects bearer or API key authentication.
	SingleCredential = 1

	// CredentialPair selects HTTP basic authentication.
	CredentialPair = 2
)
