// Package crawler implements a polite breadth-first crawler for a single
// institutional website. It fetches pages over HTTP, extracts their main
// text content and in-domain links, and persists the results as JSON for
// the preprocessing step.
package crawler

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// NormalizeURL canonicalizes a URL so the frontier and visited set agree on
// a single spelling: the scheme defaults to https, the fragment is dropped,
// tracking query parameters are removed, and the path loses its trailing
// slash (the root stays "/").
func NormalizeURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if parsed.Scheme == "" {
		parsed.Scheme = "https"
	}
	parsed.Fragment = ""

	query := parsed.Query()
	for key := range query {
		lower := strings.ToLower(key)
		if strings.HasPrefix(lower, "utm_") || lower == "fbclid" || lower == "gclid" || lower == "trk" {
			query.Del(key)
		}
	}
	parsed.RawQuery = query.Encode()

	if parsed.Path != "/" {
		parsed.Path = strings.TrimRight(parsed.Path, "/")
	}
	if parsed.Path == "" {
		parsed.Path = "/"
	}
	return parsed.String()
}

// SameDomain reports whether rawURL belongs to base's host or one of its
// subdomains.
func SameDomain(rawURL, base string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	b, err := url.Parse(base)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	baseHost := strings.ToLower(b.Hostname())
	if host == "" || baseHost == "" {
		return false
	}
	return host == baseHost || strings.HasSuffix(host, "."+baseHost)
}

// ContentHash returns a short stable fingerprint of page text, used to skip
// URL aliases that serve identical bodies.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])[:16]
}

// skipPath reports whether a link points at CMS plumbing that should never
// enter the frontier.
func skipPath(link string) bool {
	lower := strings.ToLower(link)
	for _, fragment := range []string{"/wp-admin", "/wp-content/", "/feed", "/?s="} {
		if strings.Contains(lower, fragment) {
			return true
		}
	}
	return false
}
