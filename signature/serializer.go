package signature

import (
	"sort"
	"strings"
)

// SortedValues concatenates the values of params in ascending byte order,
// without keys or separators.
func SortedValues(params map[string]string) string {
	values := make([]string, 0, len(params))
	for _, value := range params {
		values = append(values, value)
	}
	return SortedJoin(values...)
}

// SortedJoin applies the SortedValues rule to a positional list.
func SortedJoin(values ...string) string {
	sorted := append([]string(nil), values...)
	sort.Strings(sorted)
	return strings.Join(sorted, "")
}

// CanonicalQuery renders params as key=value pairs sorted by key and joined
// with "&". Values are not escaped.
func CanonicalQuery(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(params[key])
	}
	return b.String()
}
