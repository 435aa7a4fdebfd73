package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmcdole/gofeed"
	"github.com/samber/lo"

	"github.com/lysyi3m/mf-obj/app/fetch"
	"github.com/lysyi3m/mf-obj/app/htmlquery"
	"github.com/lysyi3m/mf-obj/app/mf"
	"github.com/lysyi3m/mf-obj/app/parser"
)

const syndicationSelector = "link[rel='alternate'][type='application/rss+xml']," +
	"link[rel='alternate'][type='application/atom+xml']," +
	"link[rel='alternate'][type='application/feed+json']"

func (r *Resolver) hFeed(ctx context.Context, p *page) (*mf.Feed, error) {
	doc, err := r.document(p)
	if err != nil {
		return nil, err
	}

	feeds := doc.ItemsOfType(mf.TypeFeed)
	switch {
	case len(feeds) == 0:
		return nil, ErrNoFeed
	case len(feeds) > 1:
		return nil, ErrMultipleFeeds
	}

	feed, err := mf.BuildFeed(feeds[0])
	if err != nil {
		return nil, err
	}
	if feed.URL == "" {
		feed.URL = p.url
	}

	r.confirmAuthor(ctx, feed.Author)
	paginate(feed, doc)
	return feed, nil
}

func (r *Resolver) impliedFeed(p *page) (*mf.Feed, error) {
	doc, err := r.document(p)
	if err != nil {
		return nil, err
	}

	items := doc.ItemsOfType(mf.TypeEntry)
	if len(items) == 0 {
		return nil, ErrNoEntries
	}

	feed := mf.NewFeed(p.url)
	feed.Name = htmlquery.Text(p.markup, "title")
	if feed.Author, err = cardFromDocument(doc, p.url); err != nil {
		return nil, err
	}

	for _, item := range items {
		entry, err := mf.BuildEntry(item, feed.Author)
		if err != nil {
			return nil, err
		}
		if entry.URL == "" {
			slog.Debug("Skipping entry without url", "feed", p.url)
			continue
		}
		if err := feed.AddChild(entry); err != nil {
			return nil, err
		}
	}

	paginate(feed, doc)
	return feed, nil
}

func (r *Resolver) syndicationFeed(ctx context.Context, p *page) (*mf.Feed, error) {
	fp := gofeed.NewParser()

	parsed, err := fp.ParseString(p.markup)
	if errors.Is(err, gofeed.ErrFeedTypeNotDetected) {
		link, ok := htmlquery.Attr(p.markup, syndicationSelector, "href")
		if !ok || link == "" {
			return nil, ErrNoSyndication
		}
		link = absoluteURL(p.url, link)

		slog.Debug("Fetching", "url", link)
		body, fetchErr := fetch.Get(ctx, r.fetcher, link)
		if fetchErr != nil {
			return nil, fetchErr
		}
		parsed, err = fp.ParseString(string(body))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	feed := mf.NewFeed(p.url)
	feed.Name = parsed.Title
	feed.Author = feedAuthor(parsed.Authors)

	entries := lo.FilterMap(parsed.Items, func(item *gofeed.Item, _ int) (*mf.Entry, bool) {
		return entryFromFeedItem(item, feed.Author), item.Link != ""
	})
	for _, entry := range entries {
		if err := feed.AddChild(entry); err != nil {
			return nil, err
		}
	}

	if doc, err := r.document(p); err == nil {
		paginate(feed, doc)
	}
	return feed, nil
}

func entryFromFeedItem(item *gofeed.Item, defaultAuthor *mf.Card) *mf.Entry {
	entry := mf.NewEntry(item.Link)
	entry.Name = item.Title
	entry.Category = item.Categories
	entry.Author = defaultAuthor

	if item.PublishedParsed != nil {
		published := item.PublishedParsed.UTC()
		entry.Published = &published
	}

	if item.Content != "" {
		entry.Content = &mf.Content{HTML: item.Content, Value: htmlquery.FragmentText(item.Content)}
		entry.Summary = htmlquery.FragmentText(item.Description)
	} else if item.Description != "" {
		entry.Content = &mf.Content{HTML: item.Description, Value: htmlquery.FragmentText(item.Description)}
	}

	if author := feedAuthor(item.Authors); author != nil {
		entry.Author = author
	}
	return entry
}

func feedAuthor(people []*gofeed.Person) *mf.Card {
	person, ok := lo.Find(people, func(p *gofeed.Person) bool {
		return p != nil && p.Name != ""
	})
	if !ok {
		return nil
	}
	return mf.NewCard(person.Name)
}

func paginate(feed *mf.Feed, doc *parser.Document) {
	if prev, ok := doc.Rel("prev"); ok {
		feed.Prev = prev
	} else if prev, ok := doc.Rel("previous"); ok {
		feed.Prev = prev
	}
	if next, ok := doc.Rel("next"); ok {
		feed.Next = next
	}
}
