// internal/platform/urlfilter/normalizer.go
package urlfilter

import (
	"net/url"
	"path"
	"sort"
	"strings"

	"golang.org/x/net/idna"

	"oppsync/internal/platform/errors"
	"oppsync/internal/platform/validator"
)

// Normalizer reduces listing URLs to one canonical spelling so that the same
// page reached through different links dedups to one stored record.
type Normalizer struct {
	// ignoredParams are tracking parameters removed from the query.
	ignoredParams map[string]bool

	// ignoredPrefixes removes whole parameter families (utm_*).
	ignoredPrefixes []string
}

// NewNormalizer creates a normalizer with the default tracking-parameter list.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		ignoredParams: map[string]bool{
			// Ads and analytics
			"gclid": true, "gclsrc": true, "dclid": true, "_ga": true, "_gl": true,
			"fbclid": true, "msclkid": true, "yclid": true, "mc_cid": true, "mc_eid": true,

			// Sessions
			"sessionid": true, "session_id": true, "sid": true,
			"phpsessid": true, "jsessionid": true,
		},
		ignoredPrefixes: []string{"utm_"},
	}
}

// Normalize returns the canonical form of rawURL:
//   - scheme and host lower-cased, default ports and fragment removed
//   - path cleaned, trailing slash dropped (except the root)
//   - tracking parameters removed, remaining parameters sorted
//
// Only absolute http(s) URLs are accepted.
func (n *Normalizer) Normalize(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if !validator.IsHTTPURL(rawURL) {
		return "", errors.Wrapf(errors.ErrInvalidInput, "not an absolute http(s) URL: %q", rawURL)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Wrap(errors.ErrInvalidInput, err.Error())
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = canonicalHost(parsed.Scheme, parsed.Hostname(), parsed.Port())
	parsed.Fragment = ""
	parsed.RawFragment = ""
	parsed.User = nil

	// path.Clean, not filepath.Clean: URL separators are always "/".
	if parsed.Path != "" && parsed.Path != "/" {
		parsed.Path = path.Clean(parsed.Path)
		parsed.RawPath = ""
	}
	if parsed.Path == "/" {
		parsed.Path = ""
	}

	parsed.RawQuery = n.cleanQuery(parsed.Query())
	return parsed.String(), nil
}

// canonicalHost lower-cases host, converts internationalized names to
// punycode and drops the scheme's default port.
func canonicalHost(scheme, host, port string) string {
	host = strings.ToLower(host)
	if ascii, err := idna.Lookup.ToASCII(host); err == nil {
		host = ascii
	}
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		port = ""
	}
	if port != "" {
		host += ":" + port
	}
	return host
}

func (n *Normalizer) cleanQuery(query url.Values) string {
	if len(query) == 0 {
		return ""
	}

	keys := make([]string, 0, len(query))
	for key := range query {
		if n.isTracking(key) {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		values := append([]string(nil), query[key]...)
		sort.Strings(values)
		for _, v := range values {
			parts = append(parts, url.QueryEscape(key)+"="+url.QueryEscape(v))
		}
	}
	return strings.Join(parts, "&")
}

func (n *Normalizer) isTracking(key string) bool {
	key = strings.ToLower(key)
	if n.ignoredParams[key] {
		return true
	}
	for _, prefix := range n.ignoredPrefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}
