package mf

// Feed is a page of entries with pagination links.
type Feed struct {
	Name   string
	URL    string
	Author *Card
	Prev   string
	Next   string

	children childSet
}

// NewFeed returns an empty feed for url.
func NewFeed(url string) *Feed {
	return &Feed{URL: url}
}

// AddChild adds an entry to the feed, replacing any entry with the same URL.
func (f *Feed) AddChild(child *Entry) error {
	return f.children.add(child)
}

// DeleteChild removes the entry with url and reports whether it was present.
func (f *Feed) DeleteChild(url string) bool {
	return f.children.delete(url)
}

// Child looks up an entry by URL.
func (f *Feed) Child(url string) (*Entry, bool) {
	return f.children.get(url)
}

// Children returns the entries in insertion order.
func (f *Feed) Children() []*Entry {
	return f.children.list()
}

// SortedChildren returns the entries stably sorted by cmp.
func (f *Feed) SortedChildren(cmp func(a, b *Entry) int) []*Entry {
	return f.children.sorted(cmp)
}

// ChildCount returns the number of entries in the feed.
func (f *Feed) ChildCount() int {
	return f.children.len()
}
