// Package mf holds the typed content objects built from microformats data:
// cards, events, entries and feeds, together with their builders and the
// canonical JSON codec for entries.
package mf

import (
	"strings"
)

// Card is a person or organization reference. Empty fields are absent.
type Card struct {
	Name  string
	Photo string
	URL   string
	UID   string
}

// NewCard builds a card from a bare string: addresses become the card URL,
// anything else is taken as a display name.
func NewCard(urlOrName string) *Card {
	if strings.HasPrefix(urlOrName, "http://") || strings.HasPrefix(urlOrName, "https://") {
		return &Card{URL: urlOrName}
	}
	return &Card{Name: urlOrName}
}

// Content is a markup fragment paired with its plain text projection.
type Content struct {
	Value string `json:"value"`
	HTML  string `json:"html"`
}
