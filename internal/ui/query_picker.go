package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"

	"nsquery/internal/config"
	"nsquery/internal/errors"
)

const (
	actionRun  = "Run this query"
	actionBack = "Back to list"
	actionQuit = "Quit"
)

// QueryPickerConfig configures the interactive saved-query picker
type QueryPickerConfig struct {
	Stdin  io.ReadCloser
	Stdout io.WriteCloser

	// MaxDescriptionLen truncates descriptions in the list. 0 = no limit.
	MaxDescriptionLen int
	// PreviewLines limits how much of the query text is shown before
	// confirming. 0 = whole query.
	PreviewLines int
}

// ErrPickerAborted is returned when the user leaves the picker without
// choosing a query.
var ErrPickerAborted = errors.Validation("no saved query selected")

// PickSavedQuery lets the user choose one of queries. It loops between the
// list and a details view until a query is confirmed or the user quits.
func PickSavedQuery(queries []config.SavedQuery, cfg QueryPickerConfig) (config.SavedQuery, error) {
	if len(queries) == 0 {
		return config.SavedQuery{}, errors.Configuration("no saved queries available")
	}
	out := cfg.Stdout
	if out == nil {
		out = os.Stdout
	}

	for {
		query, err := selectQuery(queries, cfg)
		if err != nil {
			return config.SavedQuery{}, pickerError(err)
		}

		printDetails(out, *query, cfg.PreviewLines)

		action, err := selectAction(cfg)
		if err != nil {
			return config.SavedQuery{}, pickerError(err)
		}

		switch action {
		case actionRun:
			return *query, nil
		case actionQuit:
			return config.SavedQuery{}, ErrPickerAborted
		}
	}
}

func pickerError(err error) error {
	if err == promptui.ErrEOF || err == promptui.ErrInterrupt || err == promptui.ErrAbort {
		return ErrPickerAborted
	}
	return errors.Wrap(err, errors.ErrorTypeInternal, "query picker failed")
}

func queryLabel(i int, q config.SavedQuery, maxDesc int) string {
	label := fmt.Sprintf("[%d] %s", i+1, q.Name)
	if q.Description == "" {
		return label
	}
	desc := q.Description
	if maxDesc > 0 {
		desc = TruncateText(desc, maxDesc)
	}
	return label + " - " + desc
}

// searchQueries matches the typed filter against name and description
func searchQueries(queries []config.SavedQuery) func(string, int) bool {
	return func(input string, index int) bool {
		input = strings.ToLower(strings.TrimSpace(input))
		if input == "" {
			return true
		}
		q := queries[index]
		return strings.Contains(strings.ToLower(q.Name), input) ||
			strings.Contains(strings.ToLower(q.Description), input)
	}
}

func selectQuery(queries []config.SavedQuery, cfg QueryPickerConfig) (*config.SavedQuery, error) {
	items := make([]string, len(queries))
	for i, q := range queries {
		items[i] = queryLabel(i, q, cfg.MaxDescriptionLen)
	}

	prompt := promptui.Select{
		Label:             "Select a saved query",
		Items:             items,
		Size:              min(12, len(queries)),
		Searcher:          searchQueries(queries),
		StartInSearchMode: true,
		Stdin:             cfg.Stdin,
		Stdout:            cfg.Stdout,
		Templates:         selectTemplates,
	}

	index, _, err := prompt.Run()
	if err != nil {
		return nil, err
	}
	return &queries[index], nil
}

func printDetails(out io.Writer, q config.SavedQuery, previewLines int) {
	fmt.Fprintf(out, "\n[saved query]\n")
	fmt.Fprintf(out, "name: %s\n", q.Name)

	for i, line := range WordWrap(q.Description, 80) {
		if i == 0 {
			fmt.Fprintf(out, "description: %s\n", line)
		} else {
			fmt.Fprintf(out, "             %s\n", line)
		}
	}

	lines := strings.Split(q.Query, "\n")
	fmt.Fprintln(out, "query:")
	for i, line := range lines {
		if previewLines > 0 && i == previewLines {
			fmt.Fprintf(out, "  ... (%d more lines)\n", len(lines)-previewLines)
			break
		}
		fmt.Fprintf(out, "  %s\n", strings.TrimRight(line, " \t"))
	}
	fmt.Fprintln(out)
}

func selectAction(cfg QueryPickerConfig) (string, error) {
	actions := []string{actionRun, actionBack, actionQuit}

	prompt := promptui.Select{
		Label:     "Select action",
		Items:     actions,
		Size:      len(actions),
		Stdin:     cfg.Stdin,
		Stdout:    cfg.Stdout,
		Templates: selectTemplates,
	}

	_, action, err := prompt.Run()
	return action, err
}

var selectTemplates = &promptui.SelectTemplates{
	Label:    "{{ . }}?",
	Active:   `{{ "✔" | cyan }} {{ . | cyan }}`,
	Inactive: `  {{ . }}`,
	Selected: `{{ "✔" | green }} {{ . | green }}`,
}
