package di

import (
	"sync"

	"nsquery/internal/clients/datadog"
	"nsquery/internal/clients/netsuite"
	"nsquery/internal/config"
	"nsquery/internal/logging"
)

// ExecutorFactory builds the query executor for one set of credentials
type ExecutorFactory func(creds config.Credentials, settings config.Settings, logger *logging.Logger) (netsuite.QueryExecutor, error)

// ReporterFactory builds the run-summary sink
type ReporterFactory func(settings config.Settings, logger *logging.Logger) (datadog.RunReporter, error)

// Container holds the application's client dependencies. Clients are built
// on first use so commands that never touch the network need no credentials.
type Container struct {
	newExecutor ExecutorFactory
	newReporter ReporterFactory

	executor netsuite.QueryExecutor
	reporter datadog.RunReporter
	mu       sync.RWMutex
}

// NewContainer creates a container wired to the real NetSuite and Datadog clients
func NewContainer() *Container {
	return NewContainerWith(NewNetSuiteExecutor, NewDatadogReporter)
}

// NewContainerWith creates a container using the given factories
func NewContainerWith(newExecutor ExecutorFactory, newReporter ReporterFactory) *Container {
	return &Container{
		newExecutor: newExecutor,
		newReporter: newReporter,
	}
}

// NewNetSuiteExecutor is the default ExecutorFactory
func NewNetSuiteExecutor(creds config.Credentials, settings config.Settings, logger *logging.Logger) (netsuite.QueryExecutor, error) {
	return netsuite.NewClient(creds,
		netsuite.WithTimeout(settings.Timeout),
		netsuite.WithLogger(logger),
	)
}

// NewDatadogReporter is the default ReporterFactory
func NewDatadogReporter(settings config.Settings, logger *logging.Logger) (datadog.RunReporter, error) {
	return datadog.NewDatadogClient(datadog.DatadogConfig{
		BaseURL: settings.DatadogURL,
		APIKey:  settings.DatadogAPIKey,
	}, logger)
}

// Executor returns the query executor, building it on first call
func (c *Container) Executor(creds config.Credentials, settings config.Settings, logger *logging.Logger) (netsuite.QueryExecutor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.executor != nil {
		return c.executor, nil
	}
	executor, err := c.newExecutor(creds, settings, logger)
	if err != nil {
		return nil, err
	}
	c.executor = executor
	return executor, nil
}

// Reporter returns the run-summary sink. When the sink cannot be built the
// problem is logged and a no-op reporter is returned, since reporting never
// decides the outcome of a run.
func (c *Container) Reporter(settings config.Settings, logger *logging.Logger) datadog.RunReporter {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.reporter != nil {
		return c.reporter
	}
	reporter, err := c.newReporter(settings, logger)
	if err != nil {
		logger.Warn("Datadog reporting disabled: %v", err)
		reporter = datadog.NopReporter{}
	}
	c.reporter = reporter
	return reporter
}
