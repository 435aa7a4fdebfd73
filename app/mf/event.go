package mf

import (
	"time"
)

// Event is an h-event with an optional venue card.
type Event struct {
	Name     string
	URL      string
	Start    *time.Time
	End      *time.Time
	Location *Card
}

// NewEvent returns an empty event for url.
func NewEvent(url string) *Event {
	return &Event{URL: url}
}
