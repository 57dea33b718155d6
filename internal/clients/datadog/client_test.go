package datadog

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nsquery/internal/errors"
	"nsquery/internal/logging"
)

func TestRunSummaryMessageAndTags(t *testing.T) {
	tests := []struct {
		name        string
		summary     RunSummary
		wantMessage string
		wantTags    []string
	}{
		{
			name: "success",
			summary: RunSummary{
				QueryName: "open_po_lines",
				AccountID: "1234567_SB1",
				Rows:      42,
				Duration:  1500 * time.Millisecond,
			},
			wantMessage: `SuiteQL run "open_po_lines" returned 42 rows in 1.5s`,
			wantTags:    []string{"outcome:success", "query:open_po_lines", "account:1234567_sb1"},
		},
		{
			name:        "first page only",
			summary:     RunSummary{Rows: 1000, HasMore: true, Duration: time.Second},
			wantMessage: `SuiteQL run "adhoc" returned 1000 rows in 1s (first page only)`,
			wantTags:    []string{"outcome:success"},
		},
		{
			name: "request failure",
			summary: RunSummary{
				QueryName: "open_po_lines",
				Duration:  250 * time.Millisecond,
				Err:       errors.RequestFailure(500, "Internal Error"),
			},
			wantMessage: `SuiteQL run "open_po_lines" failed after 250ms: request`,
			wantTags:    []string{"outcome:error", "query:open_po_lines", "error_type:request", "http_status:500"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.summary.Message())
			assert.Equal(t, tt.wantTags, tt.summary.Tags())
		})
	}
}

func TestBuildLogItem(t *testing.T) {
	item := buildLogItem(RunSummary{QueryName: "q", Rows: 3}, []string{"env:prod"})

	assert.Equal(t, `SuiteQL run "q" returned 3 rows in 0s`, item.GetMessage())
	assert.Equal(t, "nsquery", item.GetService())
	assert.Equal(t, "nsquery", item.GetDdsource())
	assert.Equal(t, "env:prod,outcome:success,query:q", item.GetDdtags())
}

func TestNewDatadogClientRequiresAPIKey(t *testing.T) {
	_, err := NewDatadogClient(DatadogConfig{}, logging.Discard())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfiguration))
}

func TestReportRunSubmitsToLogIntake(t *testing.T) {
	var (
		mu     sync.Mutex
		path   string
		apiKey string
		body   string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		path = r.URL.Path
		apiKey = r.Header.Get("DD-API-KEY")
		if r.Header.Get("Content-Encoding") == "" {
			body = string(data)
		}
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_, _ = io.WriteString(w, `{}`)
	}))
	defer server.Close()

	client, err := NewDatadogClient(DatadogConfig{BaseURL: server.URL, APIKey: "dd-key"}, logging.Discard())
	require.NoError(t, err)

	err = client.ReportRun(context.Background(), RunSummary{QueryName: "open_po_lines", Rows: 7})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "/api/v2/logs", path)
	assert.Equal(t, "dd-key", apiKey)
	if body != "" {
		assert.Contains(t, body, `returned 7 rows`)
		assert.False(t, strings.Contains(body, "SELECT"), "query text must not be shipped")
	}
}

func TestReportRunFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"errors":["Forbidden"]}`)
	}))
	defer server.Close()

	client, err := NewDatadogClient(DatadogConfig{BaseURL: server.URL, APIKey: "bad"}, logging.Discard())
	require.NoError(t, err)

	err = client.ReportRun(context.Background(), RunSummary{})
	require.Error(t, err)
	e, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorTypeTransport, e.Type)
	assert.Equal(t, http.StatusForbidden, e.Context["status_code"])
}

func TestReportRunStopsWhenContextCancelled(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client, err := NewDatadogClient(DatadogConfig{BaseURL: server.URL, APIKey: "dd-key"}, logging.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = client.ReportRun(ctx, RunSummary{QueryName: "open_po_lines"})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, context.Canceled), err.Error())
	assert.Zero(t, hits.Load())
}

func TestNopReporter(t *testing.T) {
	assert.NoError(t, NopReporter{}.ReportRun(context.Background(), RunSummary{}))
}
