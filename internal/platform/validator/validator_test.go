// internal/platform/validator/validator_test.go
package validator

import (
	"testing"

	"oppsync/internal/testutil"
)

func TestIsDomain(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"valid domain", "example.com", true},
		{"valid subdomain", "test.example.com", true},
		{"empty string", "", false},
		{"ip address", "192.168.1.1", false},
		{"invalid chars", "exam ple.com", false},
		{"starts with hyphen", "-example.com", false},
		{"single label", "localhost", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertEqual(t, IsDomain(tt.input), tt.expected, "domain validation")
		})
	}
}

func TestIsHTTPURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"https", "https://example.org/feed.xml", true},
		{"http with port", "http://127.0.0.1:8080/x", true},
		{"padded", "  https://example.org  ", true},
		{"ftp", "ftp://example.org/file.csv", false},
		{"relative", "/opportunities", false},
		{"no scheme", "example.org", false},
		{"garbage", "not a url", false},
		{"empty", "", false},
		{"bad host", "https://exa mple.org", false},
		{"internationalized host", "https://bücher.de/x", true},
		{"punycode host", "https://xn--bcher-kva.de/x", true},
		{"underscore host", "https://my_board.example.org/a", true},
		{"leading hyphen host", "https://-bad.org/a", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertEqual(t, IsHTTPURL(tt.input), tt.expected, "http url validation")
		})
	}
}

func TestIsHost(t *testing.T) {
	testutil.AssertTrue(t, IsHost("bücher.de"), "idn")
	testutil.AssertTrue(t, IsHost("a_b.example.org"), "underscore")
	testutil.AssertFalse(t, IsHost("exa mple.org"), "space")
	testutil.AssertFalse(t, IsHost(""), "empty")
}

func TestTruncate(t *testing.T) {
	testutil.AssertEqual(t, Truncate("héllo world", 5), "héllo", "rune aware")
	testutil.AssertEqual(t, Truncate("short", 50), "short", "no-op")
	testutil.AssertEqual(t, Truncate("x", 0), "", "zero")
}
