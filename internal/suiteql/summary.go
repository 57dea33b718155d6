package suiteql

// ColumnStats counts how many rows have no usable value for a column.
type ColumnStats struct {
	Column  string `json:"column" yaml:"column"`
	Missing int    `json:"missing" yaml:"missing"`
}

// Summary describes a row set without changing it.
type Summary struct {
	Rows    int           `json:"rows" yaml:"rows"`
	Groups  int           `json:"groups,omitempty" yaml:"groups,omitempty"`
	Columns []ColumnStats `json:"columns,omitempty" yaml:"columns,omitempty"`
}

// Summarize counts rows and, for each requested column, the rows where the
// column is null, absent or an empty string.
func Summarize(rows []Row, columns ...string) Summary {
	s := Summary{Rows: len(rows)}
	for _, col := range columns {
		stats := ColumnStats{Column: col}
		for _, r := range rows {
			if r.Get(col).IsBlank() {
				stats.Missing++
			}
		}
		s.Columns = append(s.Columns, stats)
	}
	return s
}

// Columns returns the union of column aliases across rows, in first-seen order.
func Columns(rows []Row) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range rows {
		for _, k := range r.keys {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	return out
}
