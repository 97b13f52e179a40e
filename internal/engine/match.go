package engine

import (
	"strings"
)

// MatchesPrefix reports whether an IP address matches the wildcard prefix
// pattern. A trailing "*" matches any suffix ("10.0.1.*" matches
// "10.0.1.5"); a pattern without a wildcard must match exactly.
func MatchesPrefix(pattern, ip string) bool {
	if pattern == "" {
		return false
	}

	star := strings.IndexByte(pattern, '*')
	if star < 0 {
		return ip == pattern
	}
	return strings.HasPrefix(ip, pattern[:star])
}

// InScope reports whether any of the interface's bound addresses matches the
// prefix pattern.
func InScope(pattern string, addresses []string) bool {
	for _, addr := range addresses {
		if MatchesPrefix(pattern, addr) {
			return true
		}
	}
	return false
}
