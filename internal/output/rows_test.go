package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"nsquery/internal/errors"
	"nsquery/internal/suiteql"
)

func sampleRows(t *testing.T) []suiteql.Row {
	t.Helper()
	result, err := suiteql.ParseResult([]byte(`{"items":[
		{"po_number":"PO100","line_no":1,"custcol1":"2025-01-31","memo":"a, \"b\""},
		{"po_number":"PO101","line_no":2,"memo":null}
	]}`))
	require.NoError(t, err)
	return result.Rows
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"table", "JSON", " yaml ", "csv"} {
		_, err := ParseFormat(name)
		assert.NoError(t, err, name)
	}

	_, err := ParseFormat("xml")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRowWriter(FormatCSV, "").Write(&buf, sampleRows(t)))

	assert.Equal(t,
		"po_number,line_no,custcol1,memo\n"+
			"PO100,1,2025-01-31,\"a, \"\"b\"\"\"\n"+
			"PO101,2,,\n",
		buf.String())
}

func TestWriteCSVCustomPlaceholder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRowWriter(FormatCSV, "<null>").Write(&buf, sampleRows(t)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "PO101,2,<null>,<null>", lines[2])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRowWriter(FormatJSON, "").Write(&buf, sampleRows(t)))

	out := buf.String()
	assert.Less(t, strings.Index(out, `"po_number"`), strings.Index(out, `"line_no"`), "column order is kept")

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "PO100", decoded[0]["po_number"])
	assert.Nil(t, decoded[1]["memo"])
	assert.NotContains(t, decoded[1], "custcol1", "absent columns stay absent in JSON")

	buf.Reset()
	require.NoError(t, NewRowWriter(FormatJSON, "").Write(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteYAML(t *testing.T) {
	result, err := suiteql.ParseResult([]byte(`{"items":[{"id":"007","n":1.50,"ok":true,"z":null,"links":[{"rel":"self"}]}]}`))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewRowWriter(FormatYAML, "").Write(&buf, result.Rows))

	var decoded []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "007", decoded[0]["id"], "numeric-looking strings stay strings")
	assert.Equal(t, 1.5, decoded[0]["n"])
	assert.Equal(t, true, decoded[0]["ok"])
	assert.Nil(t, decoded[0]["z"])
	assert.Equal(t, []any{map[string]any{"rel": "self"}}, decoded[0]["links"])

	out := buf.String()
	assert.Less(t, strings.Index(out, "id:"), strings.Index(out, "links:"))
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRowWriter(FormatTable, "").Write(&buf, sampleRows(t)))

	out := buf.String()
	assert.Contains(t, out, "po_number")
	assert.Contains(t, out, "PO101")
	assert.Contains(t, out, "NULL")
	assert.True(t, strings.HasSuffix(out, "(2 rows)\n"))

	buf.Reset()
	require.NoError(t, NewRowWriter(FormatTable, "").Write(&buf, nil))
	assert.Equal(t, "(0 rows)\n", buf.String())
}

func TestWriteYAMLGroupedKeepsNestedOrder(t *testing.T) {
	result, err := suiteql.ParseResult([]byte(`{"items":[
		{"po_id":"7","zeta":"z","alpha":"a","code":"007"},
		{"po_id":"7","zeta":"y","alpha":"b"}
	]}`))
	require.NoError(t, err)
	rows, err := suiteql.GroupRows(suiteql.GroupBy(result.Rows, "po_id"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewRowWriter(FormatYAML, "").Write(&buf, rows))

	out := buf.String()
	assert.Less(t, strings.Index(out, "zeta:"), strings.Index(out, "alpha:"), "line columns keep server order")
	assert.NotContains(t, out, "{", "nested rows render as block YAML")

	var decoded []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	lines, ok := decoded[0]["lines"].([]any)
	require.True(t, ok)
	require.Len(t, lines, 2)
	assert.Equal(t, "007", lines[0].(map[string]any)["code"])
	assert.Equal(t, "b", lines[1].(map[string]any)["alpha"])
}
