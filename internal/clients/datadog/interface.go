package datadog

import "context"

// RunReporter receives one summary per finished run.
type RunReporter interface {
	ReportRun(ctx context.Context, summary RunSummary) error
}

// NopReporter drops every summary. Used when reporting is switched off.
type NopReporter struct{}

func (NopReporter) ReportRun(context.Context, RunSummary) error { return nil }
