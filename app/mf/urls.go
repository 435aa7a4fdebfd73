package mf

import (
	"net/url"
	"strings"
)

// URLsEqual compares two addresses by scheme, host and path only.
func URLsEqual(u1, u2 string) bool {
	p1, err := url.Parse(u1)
	if err != nil {
		return false
	}
	p2, err := url.Parse(u2)
	if err != nil {
		return false
	}

	return strings.EqualFold(p1.Scheme, p2.Scheme) &&
		strings.EqualFold(p1.Host, p2.Host) &&
		normalizePath(p1.Path) == normalizePath(p2.Path)
}

func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}
