package suiteql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	result, err := ParseResult([]byte(`{"items":[
		{"po_id":"1","line_due_date":"2025-01-01","vendor_email":"a@example.com"},
		{"po_id":"1","line_due_date":"","vendor_email":null},
		{"po_id":"2"}
	]}`))
	require.NoError(t, err)

	s := Summarize(result.Rows, "line_due_date", "vendor_email", "po_id")
	assert.Equal(t, 3, s.Rows)
	assert.Equal(t, []ColumnStats{
		{Column: "line_due_date", Missing: 2},
		{Column: "vendor_email", Missing: 2},
		{Column: "po_id", Missing: 0},
	}, s.Columns)
}

func TestColumnsFirstSeenOrder(t *testing.T) {
	result, err := ParseResult([]byte(`{"items":[{"b":1,"a":2},{"c":3,"a":4},{}]}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a", "c"}, Columns(result.Rows))
	assert.Empty(t, Columns(nil))
}
