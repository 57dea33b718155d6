package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"nsquery/internal/errors"
	"nsquery/internal/suiteql"
)

// Format selects how rows are rendered
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatCSV   Format = "csv"
)

// Formats lists the supported formats, for flag help
var Formats = []Format{FormatTable, FormatJSON, FormatYAML, FormatCSV}

// ParseFormat validates a format name
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.Validation(fmt.Sprintf("unknown output format %q (use table, json, yaml or csv)", name))
}

// defaultNullText is what a null or absent cell prints as in each format.
// json and yaml always emit a real null.
var defaultNullText = map[Format]string{
	FormatTable: "NULL",
	FormatCSV:   "",
}

// RowWriter renders query rows to an io.Writer
type RowWriter struct {
	format   Format
	nullText string
}

// NewRowWriter creates a writer for format. An empty nullText uses the format default.
func NewRowWriter(format Format, nullText string) *RowWriter {
	if nullText == "" {
		nullText = defaultNullText[format]
	}
	return &RowWriter{format: format, nullText: nullText}
}

// Write renders rows. Every cell is read through Row.Get, so a column a
// row does not carry prints exactly like a null.
func (w *RowWriter) Write(out io.Writer, rows []suiteql.Row) error {
	switch w.format {
	case FormatJSON:
		return writeJSON(out, rows)
	case FormatYAML:
		return writeYAML(out, rows)
	case FormatCSV:
		return w.writeCSV(out, rows)
	case FormatTable:
		return w.writeTable(out, rows)
	default:
		return errors.Validation(fmt.Sprintf("unknown output format %q", w.format))
	}
}

func writeJSON(out io.Writer, rows []suiteql.Row) error {
	if rows == nil {
		rows = []suiteql.Row{}
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to render rows as JSON")
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func writeYAML(out io.Writer, rows []suiteql.Row) error {
	doc := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, row := range rows {
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range row.Keys() {
			value, err := yamlValue(row.Get(key))
			if err != nil {
				return errors.Wrap(err, errors.ErrorTypeInternal, "failed to render rows as YAML")
			}
			m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, value)
		}
		doc.Content = append(doc.Content, m)
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to render rows as YAML")
	}
	return enc.Close()
}

func yamlValue(v suiteql.Value) (*yaml.Node, error) {
	switch v.Kind() {
	case suiteql.KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case suiteql.KindString:
		s, _ := v.Str()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}, nil
	case suiteql.KindNumber:
		n, _ := v.Number()
		// Left untagged so the number is emitted plain with its exact digits.
		return &yaml.Node{Kind: yaml.ScalarNode, Value: n.String()}, nil
	case suiteql.KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: v.String()}, nil
	default:
		// JSON is valid YAML, so decoding the raw text keeps nested key order.
		var doc yaml.Node
		if err := yaml.Unmarshal([]byte(v.Text("null")), &doc); err != nil {
			return nil, err
		}
		if len(doc.Content) == 0 {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
		}
		node := doc.Content[0]
		blockStyle(node)
		return node, nil
	}
}

// blockStyle renders nested collections as block YAML instead of the flow
// style they were parsed with.
func blockStyle(n *yaml.Node) {
	if n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode {
		n.Style &^= yaml.FlowStyle
	}
	for _, c := range n.Content {
		blockStyle(c)
	}
}

func (w *RowWriter) writeCSV(out io.Writer, rows []suiteql.Row) error {
	columns := suiteql.Columns(rows)
	if len(columns) == 0 {
		return nil
	}
	cw := csv.NewWriter(out)

	if err := cw.Write(columns); err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to write CSV header")
	}
	for _, row := range rows {
		if err := cw.Write(w.cells(row, columns)); err != nil {
			return errors.Wrap(err, errors.ErrorTypeInternal, "failed to write CSV row")
		}
	}

	cw.Flush()
	return cw.Error()
}

func (w *RowWriter) writeTable(out io.Writer, rows []suiteql.Row) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(out, "(0 rows)")
		return err
	}

	columns := suiteql.Columns(rows)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(columns...)
	for _, row := range rows {
		t.Row(w.cells(row, columns)...)
	}

	_, err := fmt.Fprintf(out, "%s\n(%d rows)\n", t.Render(), len(rows))
	return err
}

func (w *RowWriter) cells(row suiteql.Row, columns []string) []string {
	cells := make([]string, len(columns))
	for i, col := range columns {
		cells[i] = w.text(row.Get(col))
	}
	return cells
}

func (w *RowWriter) text(v suiteql.Value) string {
	return v.Text(w.nullText)
}
