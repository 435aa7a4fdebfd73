package mf

import (
	"errors"
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var ErrMissingURL = errors.New("url must be set")

// childSet keeps entries in insertion order, keyed by address. Adding an
// address already present replaces the entry and keeps its position.
type childSet struct {
	entries *orderedmap.OrderedMap[string, *Entry]
}

func (c *childSet) add(entry *Entry) error {
	if entry == nil || entry.URL == "" {
		return ErrMissingURL
	}
	if c.entries == nil {
		c.entries = orderedmap.New[string, *Entry]()
	}
	c.entries.Set(entry.URL, entry)
	return nil
}

func (c *childSet) delete(url string) bool {
	if c.entries == nil {
		return false
	}
	_, present := c.entries.Delete(url)
	return present
}

func (c *childSet) get(url string) (*Entry, bool) {
	if c.entries == nil {
		return nil, false
	}
	return c.entries.Get(url)
}

func (c *childSet) len() int {
	if c.entries == nil {
		return 0
	}
	return c.entries.Len()
}

func (c *childSet) list() []*Entry {
	values := make([]*Entry, 0, c.len())
	if c.entries == nil {
		return values
	}
	for pair := c.entries.Oldest(); pair != nil; pair = pair.Next() {
		values = append(values, pair.Value)
	}
	return values
}

func (c *childSet) sorted(cmp func(a, b *Entry) int) []*Entry {
	values := c.list()
	slices.SortStableFunc(values, cmp)
	return values
}

func (c *childSet) urls() []string {
	urls := make([]string, 0, c.len())
	if c.entries == nil {
		return urls
	}
	for pair := c.entries.Oldest(); pair != nil; pair = pair.Next() {
		urls = append(urls, pair.Key)
	}
	return urls
}
