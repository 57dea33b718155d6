package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"nsquery/internal/app"
	"nsquery/internal/clients/datadog"
	"nsquery/internal/config"
	"nsquery/internal/di"
	"nsquery/internal/errors"
	"nsquery/internal/output"
	"nsquery/internal/suiteql"
	"nsquery/internal/ui"
)

const reportTimeout = 10 * time.Second

type runOptions struct {
	queryFile   string
	saved       string
	queriesFile string
	format      string
	nullText    string
	nullReport  []string
	groupBy     string
	groupHeader []string
	timeout     time.Duration
	datadog     bool
}

// querySource is the resolved query text plus a name for logs and reports
type querySource struct {
	name  string
	query string
}

func NewRunCmd(appCtx *app.Context, container *di.Container) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run [query]",
		Short: "Execute a SuiteQL query and print the rows",
		Long: `Execute one SuiteQL query and print the returned rows.

The query is taken from the argument, --query-file or --saved. Use "-" to read
it from stdin. Without any of these an interactive picker over the saved
queries is shown when running in a terminal.

Only the first page of results is fetched. A warning is printed when the
server reports more rows.`,
		Example: `  nsquery run "SELECT id, entityid FROM vendor"
  nsquery run --saved open_po_lines --format csv > po_lines.csv
  nsquery run --query-file po.sql --null-report custcol1,memo
  nsquery run --saved open_po_lines --group-by po_id --group-header po_number,vendor -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd.Context(), appCtx, container, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.queryFile, "query-file", "f", "", "Read the query from a file (\"-\" for stdin)")
	cmd.Flags().StringVarP(&opts.saved, "saved", "s", "", "Run a saved query by name")
	cmd.Flags().StringVar(&opts.queriesFile, "queries-file", "", "YAML file of saved queries to use instead of the built-in ones")
	cmd.Flags().StringVarP(&opts.format, "format", "o", string(output.FormatTable), "Output format: table, json, yaml or csv")
	cmd.Flags().StringVar(&opts.nullText, "null-text", "", "Text printed for null cells (default NULL for table, empty for csv)")
	cmd.Flags().StringSliceVar(&opts.nullReport, "null-report", nil, "Report how many rows have a null or empty value in these columns")
	cmd.Flags().StringVar(&opts.groupBy, "group-by", "", "Nest rows under one record per value of this column (json and yaml only)")
	cmd.Flags().StringSliceVar(&opts.groupHeader, "group-header", nil, "Columns kept on the grouped record instead of on each line")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Request timeout (default NS_HTTP_TIMEOUT or 30s)")
	cmd.Flags().BoolVar(&opts.datadog, "datadog", false, "Send a run summary to Datadog (needs DD_API_KEY)")

	return cmd
}

func runQuery(ctx context.Context, appCtx *app.Context, container *di.Container, opts *runOptions, args []string) error {
	format, err := output.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	if opts.timeout < 0 {
		return errors.Validation("--timeout must be positive")
	}
	if err := validateGrouping(opts, format); err != nil {
		return err
	}

	source, err := resolveQuery(appCtx, opts, args)
	if err != nil {
		return err
	}

	settings := appCtx.Settings
	if opts.timeout > 0 {
		settings.Timeout = opts.timeout
	}

	creds, err := appCtx.Credentials()
	if err != nil {
		return err
	}

	executor, err := container.Executor(creds, settings, appCtx.Logger.WithPrefix("netsuite"))
	if err != nil {
		return err
	}

	appCtx.Logger.Debug("Running %s", displayName(source.name))
	start := time.Now()
	result, err := executor.ExecuteSuiteQL(ctx, source.query)
	elapsed := time.Since(start)

	if opts.datadog || settings.ReportRuns {
		summary := datadog.RunSummary{
			QueryName: source.name,
			AccountID: creds.AccountID,
			Duration:  elapsed,
			Err:       err,
		}
		if result != nil {
			summary.Rows = result.Len()
			summary.HasMore = result.HasMore
		}
		reportRun(ctx, appCtx, container.Reporter(settings, appCtx.Logger.WithPrefix("datadog")), summary)
	}

	if err != nil {
		return err
	}

	if result.HasMore {
		appCtx.Logger.Warn("Only the first page of results was retrieved (%d rows); the server has more", result.Len())
	}

	rows := result.Rows
	var groups []suiteql.Group
	if opts.groupBy != "" {
		groups = suiteql.GroupBy(rows, opts.groupBy, nonEmpty(opts.groupHeader)...)
		if rows, err = suiteql.GroupRows(groups); err != nil {
			return errors.Wrap(err, errors.ErrorTypeInternal, "failed to build grouped rows")
		}
	}

	if err := output.NewRowWriter(format, opts.nullText).Write(appCtx.Stdout, rows); err != nil {
		return err
	}

	if columns := nonEmpty(opts.nullReport); len(columns) > 0 {
		summary := suiteql.Summarize(result.Rows, columns...)
		summary.Groups = len(groups)
		printNullReport(appCtx.Stderr, summary, opts.groupBy)
	}
	return nil
}

func validateGrouping(opts *runOptions, format output.Format) error {
	groupBy := strings.TrimSpace(opts.groupBy)
	if groupBy == "" {
		if len(nonEmpty(opts.groupHeader)) > 0 {
			return errors.Validation("--group-header needs --group-by")
		}
		return nil
	}
	if format != output.FormatJSON && format != output.FormatYAML {
		return errors.Validation(fmt.Sprintf("--group-by needs json or yaml output, not %s", format))
	}
	opts.groupBy = groupBy
	return nil
}

func reportRun(ctx context.Context, appCtx *app.Context, reporter datadog.RunReporter, summary datadog.RunSummary) {
	ctx, cancel := context.WithTimeout(ctx, reportTimeout)
	defer cancel()

	if err := reporter.ReportRun(ctx, summary); err != nil {
		appCtx.Logger.Warn("Failed to report run to Datadog: %v", err)
	}
}

func resolveQuery(appCtx *app.Context, opts *runOptions, args []string) (querySource, error) {
	given := 0
	for _, set := range []bool{len(args) > 0, opts.queryFile != "", opts.saved != ""} {
		if set {
			given++
		}
	}
	if given > 1 {
		return querySource{}, errors.Validation("give the query as an argument, with --query-file or with --saved, not more than one")
	}

	var (
		source querySource
		err    error
	)
	switch {
	case len(args) > 0:
		source.query = args[0]
		if source.query == "-" {
			source.query, err = readQuery(appCtx.Stdin, "stdin")
		}
	case opts.queryFile == "-":
		source.query, err = readQuery(appCtx.Stdin, "stdin")
	case opts.queryFile != "":
		source.name = strings.TrimSuffix(filepath.Base(opts.queryFile), filepath.Ext(opts.queryFile))
		source.query, err = readQueryFile(opts.queryFile)
	case opts.saved != "":
		source, err = savedQuery(opts.queriesFile, opts.saved)
	case appCtx.Interactive():
		source, err = pickQuery(opts.queriesFile)
	default:
		return querySource{}, errors.Validation("no query given: pass it as an argument, with --query-file or with --saved")
	}
	if err != nil {
		return querySource{}, err
	}

	if strings.TrimSpace(source.query) == "" {
		return querySource{}, errors.Validation("query is empty")
	}
	return source, nil
}

func readQuery(r io.Reader, what string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeValidation, "failed to read query from "+what)
	}
	return string(data), nil
}

func readQueryFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeValidation, fmt.Sprintf("failed to read query file %s", path))
	}
	return string(data), nil
}

func loadCatalog(queriesFile string) (*config.QueryCatalog, error) {
	loader := config.NewConfigLoader()
	if queriesFile != "" {
		return loader.LoadSavedQueriesFile(queriesFile)
	}
	return loader.LoadSavedQueries()
}

func savedQuery(queriesFile, name string) (querySource, error) {
	catalog, err := loadCatalog(queriesFile)
	if err != nil {
		return querySource{}, err
	}
	q, err := catalog.Get(name)
	if err != nil {
		return querySource{}, err
	}
	return querySource{name: q.Name, query: q.Query}, nil
}

func pickQuery(queriesFile string) (querySource, error) {
	catalog, err := loadCatalog(queriesFile)
	if err != nil {
		return querySource{}, err
	}
	q, err := ui.PickSavedQuery(catalog.All(), ui.QueryPickerConfig{
		MaxDescriptionLen: 60,
		PreviewLines:      12,
	})
	if err != nil {
		return querySource{}, err
	}
	return querySource{name: q.Name, query: q.Query}, nil
}

func printNullReport(w io.Writer, summary suiteql.Summary, groupBy string) {
	fmt.Fprintf(w, "Rows: %d\n", summary.Rows)
	if groupBy != "" {
		fmt.Fprintf(w, "Groups (by %s): %d\n", groupBy, summary.Groups)
	}
	for _, col := range summary.Columns {
		fmt.Fprintf(w, "  %s: %d null or empty\n", col.Column, col.Missing)
	}
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func displayName(name string) string {
	if name == "" {
		return "ad-hoc query"
	}
	return fmt.Sprintf("query %q", name)
}
