package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// marshalDeterministic serializes a value tree (map[string]any, []any,
// string, int/int64, bool) to deterministic JSON:
//
//   - object keys sorted by UTF-16 code units
//   - strings NFC-normalized at the serialization boundary
//   - no HTML escaping (< > & emitted literally)
//   - floats and nulls rejected
//
// The output is stable: encoding equal trees always yields identical bytes.
// Standard encoding/json parses the result, so decoding stays ordinary.
func marshalDeterministic(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := appendDeterministic(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func appendDeterministic(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case string:
		return appendString(buf, val)
	case int:
		fmt.Fprintf(buf, "%d", val)
		return nil
	case int64:
		fmt.Fprintf(buf, "%d", val)
		return nil
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := appendDeterministic(buf, elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
		return nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return lessUTF16(keys[i], keys[j]) })
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := appendString(buf, k); err != nil {
				return fmt.Errorf("object key %q: %w", k, err)
			}
			buf.WriteByte(':')
			if err := appendDeterministic(buf, val[k]); err != nil {
				return fmt.Errorf("object[%q]: %w", k, err)
			}
		}
		buf.WriteByte('}')
		return nil
	case nil:
		return fmt.Errorf("null is forbidden in snapshot encoding")
	case float32, float64:
		return fmt.Errorf("floats are forbidden in snapshot encoding: %v", val)
	default:
		return fmt.Errorf("unsupported type for snapshot encoding: %T", v)
	}
}

// appendString writes an NFC-normalized JSON string without HTML escaping.
func appendString(buf *bytes.Buffer, s string) error {
	normalized := norm.NFC.String(s)

	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return err
	}
	out := tmp.Bytes()
	// json.Encoder appends a newline.
	if n := len(out); n > 0 && out[n-1] == '\n' {
		out = out[:n-1]
	}
	buf.Write(out)
	return nil
}

// lessUTF16 compares strings by UTF-16 code units, the sort order canonical
// JSON mandates for object keys. It differs from byte order only for keys
// containing supplementary-plane characters.
func lessUTF16(a, b string) bool {
	ua := utf16.Encode([]rune(norm.NFC.String(a)))
	ub := utf16.Encode([]rune(norm.NFC.String(b)))
	for i := 0; i < len(ua) && i < len(ub); i++ {
		if ua[i] != ub[i] {
			return ua[i] < ub[i]
		}
	}
	return len(ua) < len(ub)
}
