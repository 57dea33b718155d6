package netsuite

import (
	"context"
	"net/http"
	"time"

	"github.com/dghubble/oauth1"

	"nsquery/internal/buildinfo"
	"nsquery/internal/config"
	"nsquery/internal/logging"
)

// SuiteQLPath is appended to the REST base URL to reach the query service.
const SuiteQLPath = "/services/rest/query/v1/suiteql"

// maxErrorBody caps how much of a failed response is kept for diagnostics.
const maxErrorBody = 64 << 10

// Client executes SuiteQL queries for one account. It holds only immutable
// values and is safe for concurrent use.
type Client struct {
	endpoint   string
	userAgent  string
	httpClient *http.Client
	logger     *logging.Logger
}

// Ensure Client implements QueryExecutor
var _ QueryExecutor = (*Client)(nil)

type options struct {
	timeout    time.Duration
	baseClient *http.Client
	noncer     oauth1.Noncer
	logger     *logging.Logger
	userAgent  string
}

// Option customizes a Client.
type Option func(*options)

// WithTimeout bounds each request. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithBaseClient sends signed requests through base's transport.
func WithBaseClient(base *http.Client) Option {
	return func(o *options) { o.baseClient = base }
}

// WithNoncer replaces the per-request nonce source.
func WithNoncer(n oauth1.Noncer) Option {
	return func(o *options) {
		if n != nil {
			o.noncer = n
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewClient creates a SuiteQL client for the given credentials. Credential
// and signing problems are reported here, before any network activity.
func NewClient(creds config.Credentials, opts ...Option) (*Client, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	if err := validateSigningMaterial(creds); err != nil {
		return nil, err
	}

	o := options{
		timeout:   config.DefaultTimeout,
		noncer:    uuidNoncer{},
		userAgent: buildinfo.UserAgent(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.NewDefaultLogger("netsuite")
	}

	oauthCfg, token := newOAuthConfig(creds, o.noncer)

	ctx := context.Background()
	if o.baseClient != nil {
		ctx = context.WithValue(ctx, oauth1.HTTPClient, o.baseClient)
	}
	httpClient := oauthCfg.Client(ctx, token)
	httpClient.Timeout = o.timeout

	return &Client{
		endpoint:   creds.RESTBaseURL + SuiteQLPath,
		userAgent:  o.userAgent,
		httpClient: httpClient,
		logger:     o.logger,
	}, nil
}

// Endpoint returns the URL queries are posted to
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Timeout returns the per-request bound
func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}
