package utils

import (
	"net/url"
	"strings"
)

// TruncateURL shortens a URL for display, keeping the first max runes and
// appending "...". URLs at or under the limit are returned unchanged.
func TruncateURL(rawURL string, max int) string {
	r := []rune(rawURL)
	if max <= 0 || len(r) <= max {
		return rawURL
	}
	return string(r[:max]) + "..."
}

// JoinURL resolves path segments against a base URL, keeping any path prefix
// the base already carries (e.g. a reverse-proxy mount point).
func JoinURL(base *url.URL, segments ...string) *url.URL {
	u := *base
	u.Path = strings.TrimRight(u.Path, "/")
	for _, s := range segments {
		u.Path += "/" + strings.Trim(s, "/")
	}
	u.RawPath = ""
	return &u
}
