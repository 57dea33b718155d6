package suiteql

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Kind tags the JSON type a Value came from.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	// KindRaw holds a nested array or object, kept as JSON text.
	KindRaw
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// Value is one cell of a row. The zero Value is null, which is also what a
// lookup of an absent column yields.
type Value struct {
	kind Kind
	text string
	b    bool
}

// Null returns the null Value.
func Null() Value { return Value{} }

// StringValue wraps a JSON string.
func StringValue(s string) Value { return Value{kind: KindString, text: s} }

// NumberValue wraps a JSON number, keeping its exact text.
func NumberValue(n json.Number) Value { return Value{kind: KindNumber, text: n.String()} }

// BoolValue wraps a JSON boolean.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// RawValue wraps a nested JSON array or object.
func RawValue(raw json.RawMessage) Value {
	return Value{kind: KindRaw, text: string(raw)}
}

// parseValue converts one JSON literal into a Value.
func parseValue(raw json.RawMessage) (Value, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Null(), nil
	}

	switch raw[0] {
	case 'n':
		return Null(), nil
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Value{}, err
		}
		return StringValue(s), nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return Value{}, err
		}
		return BoolValue(b), nil
	case '{', '[':
		cp := make(json.RawMessage, len(raw))
		copy(cp, raw)
		return RawValue(cp), nil
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return Value{}, err
		}
		return NumberValue(n), nil
	}
}

// Kind reports the JSON type of the value
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null or was absent from the row
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the string payload if the value is a JSON string
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.text, true
}

// Number returns the number payload if the value is a JSON number
func (v Value) Number() (json.Number, bool) {
	if v.kind != KindNumber {
		return "", false
	}
	return json.Number(v.text), true
}

// Float64 converts numbers, and strings holding numbers, to float64.
// The server returns some numeric columns as strings.
func (v Value) Float64() (float64, bool) {
	switch v.kind {
	case KindNumber, KindString:
		f, err := strconv.ParseFloat(v.text, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Bool returns the boolean payload if the value is a JSON boolean
func (v Value) Bool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// Text renders the value for display, using placeholder for null.
func (v Value) Text(placeholder string) string {
	switch v.kind {
	case KindNull:
		return placeholder
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return v.text
	}
}

// IsBlank reports whether the value is null or an empty string.
func (v Value) IsBlank() bool {
	return v.kind == KindNull || (v.kind == KindString && v.text == "")
}

// String implements fmt.Stringer; null prints as "null".
func (v Value) String() string {
	return v.Text("null")
}

// Interface returns the plain Go form: nil, string, json.Number, bool, or
// the decoded nested value.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.text
	case KindNumber:
		return json.Number(v.text)
	case KindBool:
		return v.b
	case KindRaw:
		var out any
		dec := json.NewDecoder(bytes.NewReader([]byte(v.text)))
		dec.UseNumber()
		if err := dec.Decode(&out); err != nil {
			return v.text
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON writes the value back in its original JSON form
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.text)
	case KindNumber, KindRaw:
		return []byte(v.text), nil
	case KindBool:
		return []byte(strconv.FormatBool(v.b)), nil
	default:
		return []byte("null"), nil
	}
}

// Equal reports whether two values have the same kind and payload
func (v Value) Equal(other Value) bool {
	return v.kind == other.kind && v.text == other.text && v.b == other.b
}
