// Package records defines the loosely-typed item model returned by the
// Stack Exchange API. Field sets are not uniform across items of the same
// resource, so a Record is an ordered mapping from field name to a tagged
// value rather than a fixed struct.
package records

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind identifies the variant stored in a Value.
type Kind int

const (
	// KindNull marks an explicit JSON null.
	KindNull Kind = iota
	// KindInt holds an integer (the API encodes dates and counts as integers).
	KindInt
	// KindText holds a string, or the raw JSON of a nested object/array.
	KindText
	// KindBool holds a boolean.
	KindBool
)

// Value is a tagged variant of the types the API returns for item fields.
type Value struct {
	Kind Kind
	Int  int64
	Text string
	Bool bool
}

// NullValue returns the null variant.
func NullValue() Value { return Value{Kind: KindNull} }

// IntValue returns an integer variant.
func IntValue(n int64) Value { return Value{Kind: KindInt, Int: n} }

// TextValue returns a text variant.
func TextValue(s string) Value { return Value{Kind: KindText, Text: s} }

// BoolValue returns a boolean variant.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// String renders the value in its locale-independent text form.
// Null renders as the empty string.
func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindText:
		return v.Text
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return ""
	}
}

// Record is one decoded API item: field values keyed by name, with the
// original JSON key order preserved. Key order matters because the CSV
// column set is derived from the first record of a collection.
type Record struct {
	keys   []string
	values map[string]Value
}

// New returns an empty record.
func New() Record {
	return Record{values: make(map[string]Value)}
}

// Keys returns the field names in their original order.
func (r Record) Keys() []string {
	return r.keys
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r.keys)
}

// Get returns the value stored under key and whether the key is present.
func (r Record) Get(key string) (Value, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Set replaces the value at key, appending the key when it is new.
func (r *Record) Set(key string, v Value) {
	if r.values == nil {
		r.values = make(map[string]Value)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

// Clone returns an independent copy of the record.
func (r Record) Clone() Record {
	out := Record{
		keys:   make([]string, len(r.keys)),
		values: make(map[string]Value, len(r.values)),
	}
	copy(out.keys, r.keys)
	for k, v := range r.values {
		out.values[k] = v
	}
	return out
}

// UnmarshalJSON decodes a JSON object into a record, preserving key order.
// The standard map decode cannot be used here since Go maps are unordered.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to decode record: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("record must be a JSON object, got %v", tok)
	}

	*r = New()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to decode record key: %w", err)
		}
		key := keyTok.(string)

		val, err := decodeValue(dec)
		if err != nil {
			return fmt.Errorf("failed to decode field %q: %w", key, err)
		}
		r.Set(key, val)
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("failed to decode record: %w", err)
	}
	return nil
}

// decodeValue reads the next JSON value from dec and maps it onto the
// Value variants. Nested objects and arrays are kept as compact raw JSON
// text so the writer can stringify them like any other field.
func decodeValue(dec *json.Decoder) (Value, error) {
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return Value{}, err
	}
	if len(raw) == 0 {
		return Value{}, fmt.Errorf("empty JSON value")
	}

	switch raw[0] {
	case 'n':
		return NullValue(), nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return Value{}, err
		}
		return BoolValue(b), nil
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Value{}, err
		}
		return TextValue(s), nil
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return Value{}, err
		}
		return TextValue(buf.String()), nil
	default:
		var num json.Number
		if err := json.Unmarshal(raw, &num); err != nil {
			return Value{}, err
		}
		if n, err := num.Int64(); err == nil {
			return IntValue(n), nil
		}
		// Non-integral numbers keep their exact JSON text.
		return TextValue(num.String()), nil
	}
}
