package mf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCard(t *testing.T) {
	tests := []struct {
		input    string
		expected Card
	}{
		{"http://testsite", Card{URL: "http://testsite"}},
		{"https://testsite/me", Card{URL: "https://testsite/me"}},
		{"Test User", Card{Name: "Test User"}},
		{"ftp://testsite", Card{Name: "ftp://testsite"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, *NewCard(tt.input))
		})
	}
}

func TestURLsEqual(t *testing.T) {
	tests := []struct {
		name     string
		u1, u2   string
		expected bool
	}{
		{"identical", "http://somesite/post", "http://somesite/post", true},
		{"query differs", "http://somesite/post?a=1", "http://somesite/post?b=2", true},
		{"fragment differs", "http://somesite/post#top", "http://somesite/post", true},
		{"empty path is root", "http://somesite", "http://somesite/", true},
		{"host case", "http://SomeSite/", "http://somesite/", true},
		{"scheme differs", "https://somesite/", "http://somesite/", false},
		{"host differs", "http://othersite/", "http://somesite/", false},
		{"path differs", "http://somesite/a", "http://somesite/b", false},
		{"port differs", "http://somesite:8080/", "http://somesite/", false},
		{"unparseable", "http://[::1", "http://somesite/", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, URLsEqual(tt.u1, tt.u2))
			assert.Equal(t, tt.expected, URLsEqual(tt.u2, tt.u1))
		})
	}
}
