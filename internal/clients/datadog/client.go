package datadog

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	datadogapi "github.com/DataDog/datadog-api-client-go/v2/api/datadog"
	"github.com/DataDog/datadog-api-client-go/v2/api/datadogV2"

	"nsquery/internal/errors"
	"nsquery/internal/logging"
)

const serviceName = "nsquery"

type DatadogClient struct {
	config  DatadogConfig
	logsAPI *datadogV2.LogsApi
	apiKeys map[string]datadogapi.APIKey
	logger  *logging.Logger
}

// Ensure DatadogClient implements RunReporter
var _ RunReporter = (*DatadogClient)(nil)

type DatadogConfig struct {
	BaseURL string
	APIKey  string
	Tags    []string
	Timeout time.Duration
}

// NewDatadogClient creates a log-intake client. It fails when no API key
// is configured so callers can decide to skip reporting.
func NewDatadogClient(cfg DatadogConfig, logger *logging.Logger) (*DatadogClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.Configuration("DD_API_KEY is required to report runs to Datadog")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://http-intake.logs.datadoghq.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.NewDefaultLogger("datadog")
	}

	apiCfg := datadogapi.NewConfiguration()
	apiCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	apiCfg.Servers = datadogapi.ServerConfigurations{{URL: cfg.BaseURL}}
	apiCfg.OperationServers = map[string]datadogapi.ServerConfigurations{
		"LogsApi.SubmitLog": {{URL: cfg.BaseURL}},
	}

	apiClient := datadogapi.NewAPIClient(apiCfg)

	return &DatadogClient{
		config:  cfg,
		logsAPI: datadogV2.NewLogsApi(apiClient),
		apiKeys: map[string]datadogapi.APIKey{
			"apiKeyAuth": {Key: cfg.APIKey},
		},
		logger: logger,
	}, nil
}

// ReportRun submits one log event describing a finished run.
func (c *DatadogClient) ReportRun(ctx context.Context, summary RunSummary) error {
	item := buildLogItem(summary, c.config.Tags)

	_, httpResp, err := c.SubmitLogs(ctx, []datadogV2.HTTPLogItem{*item})
	if err != nil {
		status := 0
		if httpResp != nil {
			status = httpResp.StatusCode
		}
		return errors.Wrap(err, errors.ErrorTypeTransport, "failed to submit run summary to Datadog").
			WithContext("status_code", status)
	}

	c.logger.Debug("Reported run outcome=%s rows=%d to Datadog", summary.Outcome(), summary.Rows)
	return nil
}

func (c *DatadogClient) SubmitLogs(ctx context.Context, body []datadogV2.HTTPLogItem) (any, *http.Response, error) {
	resp, httpResp, err := c.logsAPI.SubmitLog(c.authContext(ctx), body)
	if httpResp != nil && httpResp.Body != nil {
		defer func() { _ = httpResp.Body.Close() }()
	}
	return resp, httpResp, err
}

// authContext attaches the API key to the caller's context.
func (c *DatadogClient) authContext(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = datadogapi.NewDefaultContext(ctx)
	return context.WithValue(ctx, datadogapi.ContextAPIKeys, c.apiKeys)
}

// buildLogItem turns a summary into a log event. The query text and row
// data are never included.
func buildLogItem(summary RunSummary, extraTags []string) *datadogV2.HTTPLogItem {
	item := datadogV2.NewHTTPLogItem(summary.Message())
	item.SetService(serviceName)
	item.SetDdsource(serviceName)

	if host, err := os.Hostname(); err == nil && host != "" {
		item.SetHostname(host)
	}

	tags := append(summary.Tags(), extraTags...)
	sort.Strings(tags)
	item.SetDdtags(strings.Join(tags, ","))
	return item
}

// RunSummary is what gets reported about one execution.
type RunSummary struct {
	QueryName string
	AccountID string
	Rows      int
	HasMore   bool
	Duration  time.Duration
	Err       error
}

// Outcome is "success" or "error"
func (s RunSummary) Outcome() string {
	if s.Err != nil {
		return "error"
	}
	return "success"
}

// Message renders the human readable log line
func (s RunSummary) Message() string {
	name := s.QueryName
	if name == "" {
		name = "adhoc"
	}
	if s.Err != nil {
		return fmt.Sprintf("SuiteQL run %q failed after %s: %s", name, s.Duration.Round(time.Millisecond), errors.TypeOf(s.Err))
	}
	msg := fmt.Sprintf("SuiteQL run %q returned %d rows in %s", name, s.Rows, s.Duration.Round(time.Millisecond))
	if s.HasMore {
		msg += " (first page only)"
	}
	return msg
}

// Tags returns the Datadog tags for the summary
func (s RunSummary) Tags() []string {
	tags := []string{"outcome:" + s.Outcome()}
	if s.QueryName != "" {
		tags = append(tags, "query:"+s.QueryName)
	}
	if s.AccountID != "" {
		tags = append(tags, "account:"+strings.ToLower(s.AccountID))
	}
	if s.Err != nil {
		tags = append(tags, "error_type:"+string(errors.TypeOf(s.Err)))
		if e, ok := errors.As(s.Err); ok && e.StatusCode != 0 {
			tags = append(tags, fmt.Sprintf("http_status:%d", e.StatusCode))
		}
	}
	return tags
}
