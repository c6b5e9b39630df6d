package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// ErrInvalidUTF8 is returned when a field key or string value is not valid
// UTF-8. JSON would otherwise replace the bad bytes with U+FFFD.
var ErrInvalidUTF8 = errors.New("document: invalid UTF-8 in fields")

// EncodeFields encodes a field map into the JSON text stored in the fields
// column. Text is stored exactly as given. A nil map encodes as an empty
// object.
func EncodeFields(fields map[string]any) ([]byte, error) {
	if len(fields) == 0 {
		return []byte("{}"), nil
	}
	if err := CheckUTF8(fields); err != nil {
		return nil, err
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("document: encode fields: %w", err)
	}
	return b, nil
}

// DecodeFields decodes JSON text produced by EncodeFields back into a field
// map. Empty input decodes to an empty map. Numbers decode as float64.
func DecodeFields(b []byte) (map[string]any, error) {
	out := map[string]any{}
	if len(bytes.TrimSpace(b)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("document: decode fields: %w", err)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

// CheckUTF8 reports ErrInvalidUTF8 for the first key or string value, at any
// depth, that is not valid UTF-8.
func CheckUTF8(fields map[string]any) error {
	for k, v := range fields {
		if !utf8.ValidString(k) {
			return fmt.Errorf("%w: key %q", ErrInvalidUTF8, k)
		}
		if err := checkValue(k, v); err != nil {
			return err
		}
	}
	return nil
}

func checkValue(key string, v any) error {
	switch actual := v.(type) {
	case string:
		if !utf8.ValidString(actual) {
			return fmt.Errorf("%w: value of %q", ErrInvalidUTF8, key)
		}
	case map[string]any:
		return CheckUTF8(actual)
	case []any:
		for _, item := range actual {
			if err := checkValue(key, item); err != nil {
				return err
			}
		}
	}
	return nil
}

// NormalizeFields returns a copy of fields with every key and string value
// converted to the given Unicode normalization form.
func NormalizeFields(form norm.Form, fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[form.String(k)] = normalizeValue(form, v)
	}
	return out
}

func normalizeValue(form norm.Form, v any) any {
	switch actual := v.(type) {
	case string:
		return form.String(actual)
	case map[string]any:
		return NormalizeFields(form, actual)
	case []any:
		items := make([]any, len(actual))
		for i, item := range actual {
			items[i] = normalizeValue(form, item)
		}
		return items
	default:
		return v
	}
}
