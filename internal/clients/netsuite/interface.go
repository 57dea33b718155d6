package netsuite

import (
	"context"

	"nsquery/internal/suiteql"
)

// QueryExecutor runs one SuiteQL query and returns its first result page.
type QueryExecutor interface {
	ExecuteSuiteQL(ctx context.Context, query string) (*suiteql.Result, error)
}
