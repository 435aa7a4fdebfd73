package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lysyi3m/mf-obj/app/mf"
)

// Strategy names one way of recovering an entry from a page.
type Strategy int

const (
	// StrategyEntry builds the page's single h-entry.
	StrategyEntry Strategy = iota
	// StrategyEvent wraps the page's single h-event as an entry.
	StrategyEvent
	// StrategyOembed follows the page's oEmbed discovery link.
	StrategyOembed
	// StrategyOpengraph reads og: meta tags.
	StrategyOpengraph
	// StrategyHTML uses the page title and body text. It never fails.
	StrategyHTML
	// StrategyReadability extracts the main article of the page.
	StrategyReadability
)

var DefaultEntryStrategies = []Strategy{StrategyEntry}

var strategyNames = []string{
	StrategyEntry:       "entry",
	StrategyEvent:       "event",
	StrategyOembed:      "oembed",
	StrategyOpengraph:   "opengraph",
	StrategyHTML:        "html",
	StrategyReadability: "readability",
}

func (s Strategy) String() string {
	if s < 0 || int(s) >= len(strategyNames) {
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
	return strategyNames[s]
}

// ParseStrategy looks up an entry strategy by name.
func ParseStrategy(name string) (Strategy, error) {
	for i, n := range strategyNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Strategy(i), nil
		}
	}
	return 0, fmt.Errorf("unknown entry strategy %q", name)
}

// ParseStrategies looks up every name in order.
func ParseStrategies(names []string) ([]Strategy, error) {
	strategies := make([]Strategy, 0, len(names))
	for _, name := range names {
		s, err := ParseStrategy(name)
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, s)
	}
	return strategies, nil
}

// FeedStrategy names one way of recovering a feed from a page.
type FeedStrategy int

const (
	// FeedHFeed builds the page's single h-feed.
	FeedHFeed FeedStrategy = iota
	// FeedImplied collects the page's top-level h-entries.
	FeedImplied
	// FeedSyndication reads an RSS, Atom or JSON feed, discovering it from HTML if needed.
	FeedSyndication
)

var DefaultFeedStrategies = []FeedStrategy{FeedHFeed, FeedImplied}

var feedStrategyNames = []string{
	FeedHFeed:       "hfeed",
	FeedImplied:     "implied",
	FeedSyndication: "syndication",
}

func (s FeedStrategy) String() string {
	if s < 0 || int(s) >= len(feedStrategyNames) {
		return fmt.Sprintf("FeedStrategy(%d)", int(s))
	}
	return feedStrategyNames[s]
}

// ParseFeedStrategy looks up a feed strategy by name.
func ParseFeedStrategy(name string) (FeedStrategy, error) {
	for i, n := range feedStrategyNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return FeedStrategy(i), nil
		}
	}
	return 0, fmt.Errorf("unknown feed strategy %q", name)
}

func ParseFeedStrategies(names []string) ([]FeedStrategy, error) {
	strategies := make([]FeedStrategy, 0, len(names))
	for _, name := range names {
		s, err := ParseFeedStrategy(name)
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, s)
	}
	return strategies, nil
}

func (r *Resolver) resolveEntry(ctx context.Context, p *page, strategies []Strategy) (*mf.Entry, error) {
	if len(strategies) == 0 {
		strategies = DefaultEntryStrategies
	}

	var errs []error
	for _, s := range strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entry, err := r.attemptEntry(ctx, p, s)
		if err == nil {
			slog.Debug("Entry resolved", "url", p.url, "strategy", s)
			return entry, nil
		}

		slog.Debug("Entry strategy failed", "url", p.url, "strategy", s, "error", err)
		errs = append(errs, err)
	}

	return nil, &StrategiesError{Errs: errs}
}

func (r *Resolver) attemptEntry(ctx context.Context, p *page, s Strategy) (*mf.Entry, error) {
	switch s {
	case StrategyEntry:
		return r.structuredEntry(ctx, p)
	case StrategyEvent:
		return r.eventEntry(p)
	case StrategyOembed:
		return r.oembedEntry(ctx, p)
	case StrategyOpengraph:
		return opengraphEntry(p)
	case StrategyHTML:
		return htmlEntry(p), nil
	case StrategyReadability:
		return readabilityEntry(p)
	default:
		return nil, fmt.Errorf("unknown entry strategy %s", s)
	}
}

func (r *Resolver) resolveFeed(ctx context.Context, p *page, strategies []FeedStrategy) (*mf.Feed, error) {
	if len(strategies) == 0 {
		strategies = DefaultFeedStrategies
	}

	var errs []error
	for _, s := range strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		feed, err := r.attemptFeed(ctx, p, s)
		if err == nil {
			slog.Debug("Feed resolved", "url", p.url, "strategy", s, "entries", feed.ChildCount())
			return feed, nil
		}

		slog.Debug("Feed strategy failed", "url", p.url, "strategy", s, "error", err)
		errs = append(errs, err)
	}

	return nil, &StrategiesError{Errs: errs}
}

func (r *Resolver) attemptFeed(ctx context.Context, p *page, s FeedStrategy) (*mf.Feed, error) {
	switch s {
	case FeedHFeed:
		return r.hFeed(ctx, p)
	case FeedImplied:
		return r.impliedFeed(p)
	case FeedSyndication:
		return r.syndicationFeed(ctx, p)
	default:
		return nil, fmt.Errorf("unknown feed strategy %s", s)
	}
}
