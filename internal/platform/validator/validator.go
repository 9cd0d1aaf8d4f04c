// internal/platform/validator/validator.go
package validator

import (
	"net"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

var domainRegex = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?\.)*[a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?$`)

// hostRegex es domainRegex admitiendo guiones bajos.
var hostRegex = regexp.MustCompile(`^([a-zA-Z0-9_]([a-zA-Z0-9\-_]{0,61}[a-zA-Z0-9_])?\.)*[a-zA-Z0-9_]([a-zA-Z0-9\-_]{0,61}[a-zA-Z0-9_])?$`)

// Validadores de dominio

// IsDomain verifica si un string es un nombre de host válido (no una IP).
func IsDomain(s string) bool {
	if len(s) == 0 || len(s) > 253 {
		return false
	}
	if !domainRegex.MatchString(s) {
		return false
	}
	return net.ParseIP(s) == nil
}

// Validadores de URL

// IsURL verifica si s es una URL absoluta con esquema y host.
func IsURL(s string) bool {
	if len(s) == 0 {
		return false
	}
	parsed, err := url.Parse(s)
	if err != nil {
		return false
	}
	return parsed.Scheme != "" && parsed.Host != ""
}

// IsHTTPURL verifica si s es una URL http(s) absoluta con un host utilizable.
func IsHTTPURL(s string) bool {
	s = strings.TrimSpace(s)
	if !IsURL(s) {
		return false
	}
	parsed, _ := url.Parse(s)
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
	default:
		return false
	}
	host := parsed.Hostname()
	if host == "" {
		return false
	}
	if net.ParseIP(host) != nil {
		return true
	}
	return IsHost(host)
}

// IsHost verifica si s es un nombre de host utilizable.
// Soporta dominios internacionales (IDN), validados en punycode, y guiones bajos.
func IsHost(s string) bool {
	ascii, err := idna.Lookup.ToASCII(s)
	if err != nil {
		// Lookup aplica reglas STD3 y rechaza guiones bajos.
		if ascii, err = idna.Punycode.ToASCII(s); err != nil {
			return false
		}
	}
	if len(ascii) == 0 || len(ascii) > 253 {
		return false
	}
	return hostRegex.MatchString(ascii) && net.ParseIP(ascii) == nil
}

// Validadores genéricos

// Truncate corta s a n runas como máximo.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
