package signature

import "strings"

// NormalizeURL trims whitespace and drops everything from the first "#".
// The platform signs the page URL without its fragment.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if index := strings.IndexByte(raw, '#'); index >= 0 {
		raw = raw[:index]
	}
	return raw
}
