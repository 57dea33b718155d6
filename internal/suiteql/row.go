package suiteql

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Row is one record of a query result: column alias to value, in the order
// the server sent the columns. The server omits columns whose value is
// NULL, so Get treats an absent key exactly like an explicit null.
type Row struct {
	keys   []string
	values map[string]Value
}

// ParseRow decodes a single JSON object into a Row.
func ParseRow(data []byte) (Row, error) {
	var r Row
	if err := r.UnmarshalJSON(data); err != nil {
		return Row{}, err
	}
	return r, nil
}

// Get returns the value for key, or the null Value when the row has no such column.
func (r Row) Get(key string) Value {
	return r.values[key]
}

// Has reports whether the server sent the column at all. Callers should not
// branch on this for data purposes; use Get(key).IsNull().
func (r Row) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Keys returns the column aliases in server order
func (r Row) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of columns present in the row
func (r Row) Len() int {
	return len(r.keys)
}

// Map returns a plain map copy of the row, for callers that do not care about order.
func (r Row) Map() map[string]any {
	out := make(map[string]any, len(r.keys))
	for _, k := range r.keys {
		out[k] = r.values[k].Interface()
	}
	return out
}

// set appends key, or replaces its value in place when already present.
func (r *Row) set(key string, v Value) {
	if _, seen := r.values[key]; !seen {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

// UnmarshalJSON reads a JSON object, preserving key order. A repeated key
// keeps its first position and its last value.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("row is not valid JSON: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("row must be a JSON object, got %v", tok)
	}

	keys := make([]string, 0)
	values := make(map[string]Value)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("row is not valid JSON: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("row has a non-string key %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("row column %q: %w", key, err)
		}
		v, err := parseValue(raw)
		if err != nil {
			return fmt.Errorf("row column %q: %w", key, err)
		}

		if _, seen := values[key]; !seen {
			keys = append(keys, key)
		}
		values[key] = v
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("row is not valid JSON: %w", err)
	}

	r.keys = keys
	r.values = values
	return nil
}

// MarshalJSON writes the row as a JSON object in server column order
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := r.values[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
