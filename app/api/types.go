package api

import (
	"context"

	"github.com/lysyi3m/mf-obj/app/mf"
	"github.com/lysyi3m/mf-obj/app/resolve"
	"github.com/lysyi3m/mf-obj/app/sites"
)

type ResolverInterface interface {
	GetEntry(ctx context.Context, url string, strategies ...resolve.Strategy) (*mf.Entry, error)
	GetEvent(ctx context.Context, url string) (*mf.Event, error)
	GetCard(ctx context.Context, url string) (*mf.Card, error)
	GetFeed(ctx context.Context, url string, strategies ...resolve.FeedStrategy) (*mf.Feed, error)
	GetThread(ctx context.Context, url string) ([]*mf.Entry, error)
}

var _ ResolverInterface = (*resolve.Resolver)(nil)

type SiteRulesInterface interface {
	EntryStrategies(url string) []resolve.Strategy
	FeedStrategies(url string) []resolve.FeedStrategy
	GetConfigCount() int
}

var _ SiteRulesInterface = (*sites.Cache)(nil)

type Handler struct {
	resolver ResolverInterface
	sites    SiteRulesInterface
	version  string
}
