package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"

	"github.com/lysyi3m/mf-obj/app/fetch"
	"github.com/lysyi3m/mf-obj/app/htmlquery"
	"github.com/lysyi3m/mf-obj/app/mf"
)

const oembedSelector = "link[rel='alternate'][type='application/json+oembed']," +
	"link[rel='alternate'][type='text/json+oembed']"

type oembed struct {
	Title      string `json:"title"`
	HTML       string `json:"html"`
	AuthorName string `json:"author_name"`
	AuthorURL  string `json:"author_url"`
}

func (r *Resolver) structuredEntry(ctx context.Context, p *page) (*mf.Entry, error) {
	doc, err := r.document(p)
	if err != nil {
		return nil, err
	}

	entries := doc.ItemsOfType(mf.TypeEntry)
	switch {
	case len(entries) == 0:
		return nil, ErrNoEntry
	case len(entries) > 1:
		return nil, ErrMultipleEntries
	}

	var relAuthor *mf.Card
	if author, ok := doc.Rel("author"); ok {
		relAuthor = mf.NewCard(author)
	}

	entry, err := mf.BuildEntry(entries[0], relAuthor)
	if err != nil {
		return nil, err
	}

	r.confirmAuthor(ctx, entry.Author)
	return entry, nil
}

// confirmAuthor replaces a card that only carries an address with the card
// found on that address. The card is updated in place so every entry sharing
// it sees the result. Failures leave the card untouched.
func (r *Resolver) confirmAuthor(ctx context.Context, card *mf.Card) {
	if card == nil || card.URL == "" || card.Name != "" {
		return
	}

	resolved, err := r.GetCard(ctx, card.URL)
	if err != nil {
		slog.Warn("Failed to fetch author page", "url", card.URL, "error", err)
		return
	}
	if resolved == nil {
		slog.Debug("Author not confirmed", "url", card.URL)
		return
	}

	*card = *resolved
}

func (r *Resolver) eventEntry(p *page) (*mf.Entry, error) {
	event, err := r.eventFromPage(p)
	if err != nil {
		return nil, err
	}

	entry := mf.NewEntry(p.url)
	entry.Name = event.Name
	entry.Content = &mf.Content{HTML: htmlquery.Escape(event.Name), Value: event.Name}
	return entry, nil
}

func (r *Resolver) oembedEntry(ctx context.Context, p *page) (*mf.Entry, error) {
	link, ok := htmlquery.Attr(p.markup, oembedSelector, "href")
	if !ok || link == "" {
		return nil, ErrNoOembedLink
	}
	link = absoluteURL(p.url, link)

	slog.Debug("Fetching", "url", link)
	body, err := fetch.Get(ctx, r.fetcher, link)
	if err != nil {
		return nil, err
	}

	var embed oembed
	if err := json.Unmarshal(body, &embed); err != nil {
		return nil, fmt.Errorf("failed to decode oembed response: %w", err)
	}

	entry := mf.NewEntry(p.url)
	entry.Name = embed.Title
	if embed.HTML != "" {
		entry.Content = &mf.Content{HTML: embed.HTML, Value: htmlquery.FragmentText(embed.HTML)}
	}
	if embed.AuthorURL != "" && embed.AuthorName != "" {
		entry.Author = &mf.Card{Name: embed.AuthorName, URL: embed.AuthorURL}
	}
	return entry, nil
}

func opengraphEntry(p *page) (*mf.Entry, error) {
	title, hasTitle := htmlquery.Attr(p.markup, "meta[property='og:title']", "content")
	_, hasURL := htmlquery.Attr(p.markup, "meta[property='og:url']", "content")
	if !hasTitle || !hasURL {
		return nil, ErrNoOpengraphData
	}

	entry := mf.NewEntry(p.url)
	if description, ok := htmlquery.Attr(p.markup, "meta[property='og:description']", "content"); ok {
		entry.Name = title
		entry.Content = &mf.Content{HTML: htmlquery.Escape(description), Value: description}
	} else {
		entry.Content = &mf.Content{HTML: htmlquery.Escape(title), Value: title}
	}
	if image, ok := htmlquery.Attr(p.markup, "meta[property='og:image']", "content"); ok && image != "" {
		entry.Photo = []string{image}
	}
	return entry, nil
}

func htmlEntry(p *page) *mf.Entry {
	entry := mf.NewEntry(p.url)
	entry.Name = htmlquery.Text(p.markup, "title")
	entry.Content = &mf.Content{HTML: p.markup, Value: htmlquery.Text(p.markup, "body")}
	return entry
}

func readabilityEntry(p *page) (*mf.Entry, error) {
	pageURL, err := url.Parse(p.url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page URL: %w", err)
	}

	article, err := readability.FromReader(strings.NewReader(p.markup), pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to extract content: %w", err)
	}
	if article.Content == "" {
		return nil, ErrNoArticle
	}

	slog.Debug("Content extracted successfully",
		"title", article.Title,
		"content_length", len(article.Content))

	entry := mf.NewEntry(p.url)
	entry.Name = article.Title
	entry.Content = &mf.Content{HTML: article.Content, Value: strings.TrimSpace(article.TextContent)}
	entry.Summary = article.Excerpt
	if article.Byline != "" {
		entry.Author = mf.NewCard(article.Byline)
	}
	if article.Image != "" {
		entry.Photo = []string{article.Image}
	}
	return entry, nil
}

// absoluteURL resolves ref against base, returning ref unchanged if either is malformed.
func absoluteURL(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
