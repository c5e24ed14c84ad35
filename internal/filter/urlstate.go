package filter

import (
	"net/url"
	"strings"
)

// EncodeExcluded serializes a muted-name list for a shareable URL
// query parameter: names percent-encoded and comma-joined. Used both
// for muted candidates and for muted sub-offices in aggregate views.
func EncodeExcluded(names []string) string {
	if len(names) == 0 {
		return ""
	}
	parts := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		parts = append(parts, url.QueryEscape(n))
	}
	return strings.Join(parts, ",")
}

// DecodeExcluded reverses EncodeExcluded. Undecodable or empty pieces
// are skipped; a bookmarked URL should degrade, not fail.
func DecodeExcluded(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		name, err := url.QueryUnescape(part)
		if err != nil {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		out = append(out, name)
	}
	return out
}
