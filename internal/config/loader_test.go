package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nsquery/internal/errors"
)

func TestLoadSavedQueriesEmbedded(t *testing.T) {
	catalog, err := NewConfigLoader().LoadSavedQueries()
	require.NoError(t, err)

	assert.Contains(t, catalog.Names(), "open_po_lines")

	q, err := catalog.Get("open_po_lines")
	require.NoError(t, err)
	assert.Equal(t, "open_po_lines", q.Name)
	assert.NotEmpty(t, q.Description)
	assert.Contains(t, q.Query, "tl.custcol1 AS line_due_date")
	assert.Contains(t, q.Query, "(SYSDATE - 30)")
}

func TestLoadSavedQueriesFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte(`queries:
  b_query:
    description: second
    query: SELECT 2
  a_query:
    query: |
      SELECT 1
`), 0o600))

	catalog, err := NewConfigLoader().LoadSavedQueriesFile(good)
	require.NoError(t, err)
	assert.Equal(t, []string{"a_query", "b_query"}, catalog.Names())

	all := catalog.All()
	require.Len(t, all, 2)
	assert.Equal(t, "SELECT 1", all[0].Query)

	_, err = catalog.Get("nope")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	assert.Contains(t, err.Error(), "a_query, b_query")

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("queries:\n  blank:\n    query: \"  \"\n"), 0o600))
	_, err = NewConfigLoader().LoadSavedQueriesFile(empty)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfiguration))

	_, err = NewConfigLoader().LoadSavedQueriesFile(filepath.Join(dir, "missing.yaml"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfiguration))

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("queries: [unclosed"), 0o600))
	_, err = NewConfigLoader().LoadSavedQueriesFile(broken)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfiguration))
}
