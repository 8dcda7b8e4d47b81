package funnel

import (
	"net/url"
	"strings"
)

// trackingParams are query parameters stripped before a URL is used as a
// dedup key.
var trackingParams = map[string]struct{}{
	"utm_source":   {},
	"utm_medium":   {},
	"utm_campaign": {},
	"utm_term":     {},
	"utm_content":  {},
	"ref":          {},
	"ref_src":      {},
	"ref_url":      {},
	"source":       {},
	"spm":          {},
}

// NormalizeURL canonicalizes a URL for deduplication: lower-cases scheme and
// host, strips tracking query parameters, trims the trailing slash from the
// path and drops the fragment. Unparseable input is returned unchanged.
func NormalizeURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	var query []string
	for _, pair := range strings.Split(u.RawQuery, "&") {
		if pair == "" {
			continue
		}
		key := pair
		if idx := strings.Index(pair, "="); idx >= 0 {
			key = pair[:idx]
		}
		if _, tracked := trackingParams[strings.ToLower(key)]; tracked {
			continue
		}
		query = append(query, pair)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = strings.Join(query, "&")
	u.Fragment = ""
	return u.String()
}
