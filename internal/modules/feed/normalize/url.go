package normalize

import (
	"net/url"
	"strings"
)

var trackingParams = map[string]struct{}{
	"fbclid": {},
	"gclid":  {},
	"si":     {},
	"pp":     {},
}

// URL canonicalizes an absolute link so equivalent links compare equal.
// Tracking parameters and the fragment are removed, the host is lowercased
// and an empty http(s) path becomes "/". Anything that does not parse as an
// absolute URL is returned unchanged.
func URL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw
	}

	u.Host = strings.ToLower(u.Host)
	if u.Path == "" && (u.Scheme == "http" || u.Scheme == "https") {
		u.Path = "/"
		u.RawPath = ""
	}
	u.RawQuery = stripTracking(u.RawQuery)
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""

	return u.String()
}

// stripTracking drops tracking pairs from a raw query string, leaving the
// remaining pairs in their original order and encoding.
func stripTracking(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}

	kept := make([]string, 0, strings.Count(rawQuery, "&")+1)
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key, _, _ := strings.Cut(pair, "=")
		if name, err := url.QueryUnescape(key); err == nil {
			key = name
		}
		if isTracking(key) {
			continue
		}
		kept = append(kept, pair)
	}

	return strings.Join(kept, "&")
}

func isTracking(key string) bool {
	if strings.HasPrefix(key, "utm_") {
		return true
	}
	_, ok := trackingParams[key]
	return ok
}
