package resolve

import (
	"errors"
	"strings"
)

var (
	ErrNoEntry         = errors.New("no h-entry found")
	ErrMultipleEntries = errors.New("multiple h-entries found")
	ErrNoEvent         = errors.New("no h-event found")
	ErrMultipleEvents  = errors.New("multiple h-events found")
	ErrNoFeed          = errors.New("no h-feed found")
	ErrMultipleFeeds   = errors.New("multiple h-feeds found")
	ErrNoEntries       = errors.New("no h-entries found")
	ErrNoOembedLink    = errors.New("no oembed link found")
	ErrNoOpengraphData = errors.New("no opengraph data found")
	ErrNoArticle       = errors.New("no readable article found")
	ErrNoSyndication   = errors.New("no syndication feed found")
)

// StrategiesError is returned when every strategy of a chain has failed.
// Errs holds the individual failures in the order the strategies were tried.
type StrategiesError struct {
	Errs []error
}

func (e *StrategiesError) Error() string {
	msgs := make([]string, 0, len(e.Errs))
	for _, err := range e.Errs {
		msgs = append(msgs, err.Error())
	}
	return "all strategies failed: " + strings.Join(msgs, ", ")
}

func (e *StrategiesError) Unwrap() []error {
	return e.Errs
}
