package sqlutil

import (
	"fmt"
	"unicode/utf8"
)

// MaxPreviewLength caps a single value in a row preview.
const MaxPreviewLength = 64

// Preview renders at most n values for log output, truncating long ones.
func Preview(values []any, n int) []string {
	if n > len(values) {
		n = len(values)
	}
	if n < 0 {
		n = 0
	}

	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = previewValue(values[i])
	}
	return out
}

func previewValue(v any) string {
	var s string
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		s = string(x)
	case string:
		s = x
	default:
		s = fmt.Sprintf("%v", x)
	}

	if utf8.RuneCountInString(s) <= MaxPreviewLength {
		return s
	}
	runes := []rune(s)
	return string(runes[:MaxPreviewLength]) + "..."
}
