package suiteql

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"nsquery/internal/errors"
)

// Result is the first page of a SuiteQL response: its rows in server order.
// Only HasMore survives from the paging fields, so callers can tell the
// user that rows beyond the first page were not fetched.
type Result struct {
	Rows    []Row
	HasMore bool
}

// Len returns the number of rows
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// pagingFields must all be present and well typed for a body without items
// to count as an empty page rather than an unrecognized shape.
var pagingFields = []struct {
	name string
	kind Kind
}{
	{"hasMore", KindBool},
	{"count", KindNumber},
	{"offset", KindNumber},
	{"totalResults", KindNumber},
}

// ParseResult decodes a SuiteQL response body.
func ParseResult(body []byte) (*Result, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var envelope map[string]json.RawMessage
	if err := dec.Decode(&envelope); err != nil {
		return nil, errors.MalformedResponse("response body is not a JSON object", err)
	}
	if envelope == nil {
		return nil, errors.MalformedResponse("response body is not a JSON object", nil)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.MalformedResponse("response body has trailing data after the JSON object", nil)
	}

	result := &Result{}
	if raw, ok := envelope["hasMore"]; ok {
		if v, err := parseValue(raw); err == nil {
			result.HasMore, _ = v.Bool()
		}
	}

	rawItems, ok := envelope["items"]
	if !ok || bytes.Equal(bytes.TrimSpace(rawItems), []byte("null")) {
		if err := checkPagingShape(envelope); err != nil {
			return nil, err
		}
		result.Rows = []Row{}
		return result, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(rawItems, &items); err != nil {
		return nil, errors.MalformedResponse("\"items\" is not an array", err)
	}

	result.Rows = make([]Row, 0, len(items))
	for i, item := range items {
		row, err := ParseRow(item)
		if err != nil {
			return nil, errors.MalformedResponse(fmt.Sprintf("items[%d] is not a row object", i), err)
		}
		result.Rows = append(result.Rows, row)
	}

	return result, nil
}

func checkPagingShape(envelope map[string]json.RawMessage) error {
	for _, f := range pagingFields {
		raw, ok := envelope[f.name]
		if !ok {
			return errors.MalformedResponse(
				fmt.Sprintf("response has no \"items\" and no %q field; shape not recognized", f.name), nil)
		}
		v, err := parseValue(raw)
		if err != nil || v.Kind() != f.kind {
			return errors.MalformedResponse(
				fmt.Sprintf("response has no \"items\" and %q is not a %s", f.name, f.kind), err)
		}
	}
	return nil
}
