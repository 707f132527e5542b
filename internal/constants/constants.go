package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// API endpoint and versioning.
const (
	// DefaultBaseURL is the production API endpoint.
	DefaultBaseURL = "https://api.stripe.com"

	// DefaultAPIVersion is the version the models are written against.
	DefaultAPIVersion = "2019-05-16"

	// APIPathPrefix is prepended to every resource path.
	APIPathPrefix = "/v1"

	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "stripekit/1.0.0"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second
)

// Retry limits. Retries are off unless RetryMax is set.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 0

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 500 * time.Millisecond

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 5 * time.Second
)

// Concurrency limits.
const (
	// DefaultBatchConcurrency limits concurrent batch operations.
	DefaultBatchConcurrency = 5
)

// Events.
const (
	// DefaultEventsSubject is the NATS subject call events go to.
	DefaultEventsSubject = "stripekit.calls"
)

// Pagination and display limits.
const (
	// DefaultPageSize is the default number of items per page.
	DefaultPageSize = 10

	// MaxPageSize is the largest page the API returns.
	MaxPageSize = 100
)

// UI and display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// None is used when no value is present.
	None = "none"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"

	// VisibleKeySuffix is how many trailing characters of a key are shown.
	VisibleKeySuffix = 4
)

// Format constants.
const (
	// FormatTable for table output format.
	FormatTable = "table"

	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"
)

// Key value parsing.
const (
	// KeyValueParts is the number of parts in a key=value flag.
	KeyValueParts = 2
)
