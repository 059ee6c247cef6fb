package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNotScalar is returned when a column expected to hold a scalar holds an object or array.
var ErrNotScalar = errors.New("value is not a scalar")

// copyEscaper escapes the characters that would break a tab-separated row.
// Backslashes are left alone so a plain tab-delimited reader sees them as-is.
var copyEscaper = strings.NewReplacer(
	"\t", `\t`,
	"\n", `\n`,
	"\r", `\r`,
)

// FormatScalar renders a decoded JSON value as a single TSV field.
// JSON null renders as the empty string.
func FormatScalar(val interface{}) (string, error) {
	switch v := val.(type) {
	case nil:
		return "", nil
	case string:
		return EscapeField(v), nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case map[string]interface{}, []interface{}:
		return "", fmt.Errorf("%w: got %T", ErrNotScalar, val)
	default:
		return EscapeField(fmt.Sprintf("%v", v)), nil
	}
}

// EscapeField leaves ordinary text untouched.
func EscapeField(s string) string {
	if !strings.ContainsAny(s, "\\\t\n\r") {
		return s
	}
	return copyEscaper.Replace(s)
}
