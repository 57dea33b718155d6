package netsuite

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"nsquery/internal/config"
	"nsquery/internal/errors"
	"nsquery/internal/suiteql"
)

type queryRequest struct {
	Q string `json:"q"`
}

// Execute runs query against the account described by creds. It is a
// shorthand for NewClient followed by ExecuteSuiteQL.
func Execute(ctx context.Context, query string, creds config.Credentials, opts ...Option) (*suiteql.Result, error) {
	client, err := NewClient(creds, opts...)
	if err != nil {
		return nil, err
	}
	return client.ExecuteSuiteQL(ctx, query)
}

// ExecuteSuiteQL posts query to the SuiteQL endpoint and parses the first
// page of rows. There are no retries: a call either returns every row of
// the page or an error.
func (c *Client) ExecuteSuiteQL(ctx context.Context, query string) (*suiteql.Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.Validation("query must not be empty")
	}

	req, err := c.newQueryRequest(ctx, query)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("signing and sending SuiteQL request to %s", c.endpoint)
	started := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Transport(err).WithContext("endpoint", c.endpoint)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleAPIError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Transport(err).WithContext("endpoint", c.endpoint)
	}

	result, err := suiteql.ParseResult(body)
	if err != nil {
		c.logger.Debug("SuiteQL response could not be parsed after %s", time.Since(started))
		return nil, err
	}

	c.logger.Debug("SuiteQL returned %d rows in %s (hasMore=%t)", result.Len(), time.Since(started), result.HasMore)
	return result, nil
}

// newQueryRequest builds the unsigned request; signing happens in the transport.
func (c *Client) newQueryRequest(ctx context.Context, query string) (*http.Request, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(queryRequest{Q: query}); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to marshal SuiteQL payload")
	}
	payload := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfiguration, "failed to create SuiteQL request")
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	// The query service rejects requests without this header.
	req.Header.Set("Prefer", "transient")
	req.Header.Set("User-Agent", c.userAgent)

	return req, nil
}

// handleAPIError turns a non-200 response into a request failure carrying
// the status and as much of the body as fits.
func (c *Client) handleAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	c.logger.Debug("SuiteQL request failed with HTTP %d", resp.StatusCode)
	return errors.RequestFailure(resp.StatusCode, string(body))
}
