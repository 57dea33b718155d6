package cli

import (
	"fmt"
	"strings"

	"nsquery/internal/app"
	"nsquery/internal/errors"
	"nsquery/internal/ui"
)

// ReportError prints a failed command's error on stderr
func ReportError(appCtx *app.Context, err error) {
	if err == nil {
		return
	}

	e, ok := errors.As(err)
	if !ok {
		fmt.Fprintf(appCtx.Stderr, "Error: %v\n", err)
		return
	}
	if e == ui.ErrPickerAborted {
		fmt.Fprintln(appCtx.Stderr, "No query selected.")
		return
	}

	fmt.Fprintf(appCtx.Stderr, "Error (%s): %s\n", e.Type, e.Message)
	if missing, ok := e.Context["missing"].([]string); ok && len(missing) > 0 {
		fmt.Fprintf(appCtx.Stderr, "Set these variables in the environment or in .env: %s\n", strings.Join(missing, ", "))
	}
	if e.Cause != nil {
		appCtx.Logger.Debug("Caused by: %v", e.Cause)
	}
	if len(e.Context) > 0 {
		appCtx.Logger.Debug("Error context: %+v", e.Context)
	}
}
