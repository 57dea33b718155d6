package suiteql

import "encoding/json"

// LinesKey is the column that holds a group's member rows in Group.Row.
const LinesKey = "lines"

// Group is every row sharing one value of the grouping column.
type Group struct {
	Key    Value
	Header Row
	Lines  []Row
}

type groupID struct {
	null bool
	text string
}

func groupIDOf(v Value) groupID {
	if v.IsNull() {
		return groupID{null: true}
	}
	return groupID{text: v.Text("")}
}

// GroupBy folds rows into one Group per distinct value of column key, in
// first-seen order. The header holds key followed by the header columns,
// read from the group's first row; absent header columns are null. Each
// line keeps the row's remaining columns in server order. Rows without the
// key column share a single group with a null key, and values compare by
// their text, so the number 7 and the string "7" land in the same group.
func GroupBy(rows []Row, key string, header ...string) []Group {
	headerCols := []string{key}
	inHeader := map[string]bool{key: true}
	for _, col := range header {
		if !inHeader[col] {
			inHeader[col] = true
			headerCols = append(headerCols, col)
		}
	}

	index := make(map[groupID]int)
	var groups []Group
	for _, r := range rows {
		k := r.Get(key)
		id := groupIDOf(k)

		i, ok := index[id]
		if !ok {
			h := Row{values: make(map[string]Value, len(headerCols))}
			for _, col := range headerCols {
				h.set(col, r.Get(col))
			}
			i = len(groups)
			index[id] = i
			groups = append(groups, Group{Key: k, Header: h})
		}

		line := Row{values: make(map[string]Value)}
		for _, col := range r.keys {
			if !inHeader[col] {
				line.set(col, r.values[col])
			}
		}
		groups[i].Lines = append(groups[i].Lines, line)
	}
	return groups
}

// Row flattens the group into its header columns plus a LinesKey column
// holding the lines as a nested array.
func (g Group) Row() (Row, error) {
	lines := g.Lines
	if lines == nil {
		lines = []Row{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return Row{}, err
	}

	out := Row{values: make(map[string]Value, g.Header.Len()+1)}
	for _, col := range g.Header.keys {
		out.set(col, g.Header.values[col])
	}
	out.set(LinesKey, RawValue(data))
	return out, nil
}

// GroupRows flattens groups with Group.Row.
func GroupRows(groups []Group) ([]Row, error) {
	out := make([]Row, 0, len(groups))
	for _, g := range groups {
		r, err := g.Row()
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
