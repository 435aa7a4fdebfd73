// Package resolve turns fetched pages into typed content objects. It runs the
// entry and feed strategy chains, confirms authorship against author pages and
// walks reply threads across sites.
package resolve

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/mf-obj/app/fetch"
	"github.com/lysyi3m/mf-obj/app/mf"
	"github.com/lysyi3m/mf-obj/app/parser"
)

// Resolver is the engine entry point. It holds no state between calls apart
// from its collaborators.
type Resolver struct {
	fetcher     fetch.Fetcher
	parser      parser.Parser
	threadLimit int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithParser replaces the default microformats parser.
func WithParser(p parser.Parser) Option {
	return func(r *Resolver) {
		r.parser = p
	}
}

// WithThreadLimit caps the number of entries GetThread collects. Zero means no limit.
func WithThreadLimit(limit int) Option {
	return func(r *Resolver) {
		r.threadLimit = limit
	}
}

// New returns a Resolver that loads pages through fetcher.
func New(fetcher fetch.Fetcher, opts ...Option) *Resolver {
	r := &Resolver{
		fetcher: fetcher,
		parser:  parser.NewParser(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// page is one fetched document. Its microformats are parsed on first use and
// shared by every strategy that needs them.
type page struct {
	url    string
	markup string
	doc    *parser.Document
}

func (r *Resolver) fetchPage(ctx context.Context, url string) (*page, error) {
	slog.Debug("Fetching", "url", url)

	body, err := fetch.Get(ctx, r.fetcher, url)
	if err != nil {
		return nil, err
	}

	return &page{url: url, markup: string(body)}, nil
}

func (r *Resolver) document(p *page) (*parser.Document, error) {
	if p.doc != nil {
		return p.doc, nil
	}

	doc, err := r.parser.Parse(p.markup, p.url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse microformats: %w", err)
	}

	p.doc = doc
	return doc, nil
}

// GetEntry fetches url and resolves it with the given entry strategies,
// defaulting to the structured h-entry strategy.
func (r *Resolver) GetEntry(ctx context.Context, url string, strategies ...Strategy) (*mf.Entry, error) {
	p, err := r.fetchPage(ctx, url)
	if err != nil {
		return nil, err
	}
	return r.resolveEntry(ctx, p, strategies)
}

// ResolveEntry runs the entry strategy chain over markup already fetched from url.
func (r *Resolver) ResolveEntry(ctx context.Context, markup, url string, strategies ...Strategy) (*mf.Entry, error) {
	return r.resolveEntry(ctx, &page{url: url, markup: markup}, strategies)
}

// GetEvent fetches url and builds its single h-event.
func (r *Resolver) GetEvent(ctx context.Context, url string) (*mf.Event, error) {
	p, err := r.fetchPage(ctx, url)
	if err != nil {
		return nil, err
	}
	return r.eventFromPage(p)
}

// GetFeed fetches url and resolves it with the given feed strategies,
// defaulting to an h-feed followed by an implied feed of top-level entries.
func (r *Resolver) GetFeed(ctx context.Context, url string, strategies ...FeedStrategy) (*mf.Feed, error) {
	p, err := r.fetchPage(ctx, url)
	if err != nil {
		return nil, err
	}
	return r.resolveFeed(ctx, p, strategies)
}

// ResolveFeed runs the feed strategy chain over markup already fetched from url.
// The implied feed author is chosen from markup; url is not fetched again.
func (r *Resolver) ResolveFeed(ctx context.Context, markup, url string, strategies ...FeedStrategy) (*mf.Feed, error) {
	return r.resolveFeed(ctx, &page{url: url, markup: markup}, strategies)
}

func (r *Resolver) eventFromPage(p *page) (*mf.Event, error) {
	doc, err := r.document(p)
	if err != nil {
		return nil, err
	}

	events := doc.ItemsOfType(mf.TypeEvent)
	switch {
	case len(events) == 0:
		return nil, ErrNoEvent
	case len(events) > 1:
		return nil, ErrMultipleEvents
	}

	event, err := mf.BuildEvent(events[0])
	if err != nil {
		return nil, err
	}
	if event.URL == "" {
		event.URL = p.url
	}
	return event, nil
}
