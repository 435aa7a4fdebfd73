package mf

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/samber/lo"

	"github.com/lysyi3m/mf-obj/app/htmlquery"
	"github.com/lysyi3m/mf-obj/app/parser"
)

const (
	TypeCard  = "h-card"
	TypeEvent = "h-event"
	TypeEntry = "h-entry"
	TypeCite  = "h-cite"
	TypeFeed  = "h-feed"
)

// TypeMismatchError is returned when an item is built as a type it does not carry.
type TypeMismatchError struct {
	Kind  string
	Types []string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("attempt to parse %s as %s", strings.Join(e.Types, ","), e.Kind)
}

// BuildCard builds a Card from an h-card item.
func BuildCard(item *parser.Item) (*Card, error) {
	if !item.HasType(TypeCard) {
		return nil, &TypeMismatchError{Kind: "Card", Types: item.Type}
	}

	return &Card{
		Name:  firstString(item, "name"),
		Photo: firstString(item, "photo"),
		URL:   firstString(item, "url"),
		UID:   firstString(item, "uid"),
	}, nil
}

// BuildEvent builds an Event from an h-event item, including its location card.
func BuildEvent(item *parser.Item) (*Event, error) {
	if !item.HasType(TypeEvent) {
		return nil, &TypeMismatchError{Kind: "Event", Types: item.Type}
	}

	location, err := firstCard(item, "location")
	if err != nil {
		return nil, err
	}

	return &Event{
		Name:     firstString(item, "name"),
		URL:      firstString(item, "url"),
		Start:    firstTime(item, "start"),
		End:      firstTime(item, "end"),
		Location: location,
	}, nil
}

// BuildEntry builds an entry from an h-entry or h-cite item. When the item names
// no author, defaultAuthor is used. Nested citations never inherit it.
func BuildEntry(item *parser.Item, defaultAuthor *Card) (*Entry, error) {
	if !item.HasType(TypeEntry, TypeCite) {
		return nil, &TypeMismatchError{Kind: "Entry", Types: item.Type}
	}

	author, err := firstCard(item, "author")
	if err != nil {
		return nil, err
	}
	if author == nil {
		author = defaultAuthor
	}

	entry := &Entry{
		Name:        firstString(item, "name"),
		Published:   firstTime(item, "published"),
		Content:     firstContent(item, "content"),
		Summary:     firstString(item, "summary"),
		URL:         firstString(item, "url"),
		Author:      author,
		Category:    allStrings(item, "category"),
		Syndication: allStrings(item, "syndication"),
		SyndicateTo: allStrings(item, "syndicate-to"),
		Photo:       allStrings(item, "photo"),
		Audio:       allStrings(item, "audio"),
		Video:       allStrings(item, "video"),
		Embed:       firstContent(item, "x-embed"),
	}

	if entry.ReplyTo, err = references(item, "in-reply-to"); err != nil {
		return nil, err
	}
	if entry.LikeOf, err = references(item, "like-of"); err != nil {
		return nil, err
	}
	if entry.RepostOf, err = references(item, "repost-of"); err != nil {
		return nil, err
	}

	nested := append([]*parser.Item{}, item.Children...)
	for _, v := range item.Property("comment") {
		if v.IsItem() {
			nested = append(nested, v.Item)
		}
	}

	if err := addEntryChildren(entry.AddChild, nested, nil); err != nil {
		return nil, err
	}

	return entry, nil
}

// BuildFeed builds a feed from an h-feed item. Child entries default to the
// feed's author and share its Card.
func BuildFeed(item *parser.Item) (*Feed, error) {
	if !item.HasType(TypeFeed) {
		return nil, &TypeMismatchError{Kind: "Feed", Types: item.Type}
	}

	author, err := firstCard(item, "author")
	if err != nil {
		return nil, err
	}

	feed := &Feed{
		Name:   firstString(item, "name"),
		URL:    firstString(item, "url"),
		Author: author,
	}

	if err := addEntryChildren(feed.AddChild, item.Children, feed.Author); err != nil {
		return nil, err
	}

	return feed, nil
}

func addEntryChildren(add func(*Entry) error, items []*parser.Item, defaultAuthor *Card) error {
	for _, child := range items {
		if !child.HasType(TypeEntry, TypeCite) {
			continue
		}

		entry, err := BuildEntry(child, defaultAuthor)
		if err != nil {
			return err
		}
		if entry.URL == "" {
			continue
		}

		if err := add(entry); err != nil {
			return err
		}
	}
	return nil
}

func cardFromValue(v parser.Value) (*Card, error) {
	if v.IsItem() {
		return BuildCard(v.Item)
	}
	return NewCard(v.String()), nil
}

func entryFromValue(v parser.Value) (*Entry, error) {
	if v.IsItem() {
		return BuildEntry(v.Item, nil)
	}
	return NewEntry(v.String()), nil
}

func firstValue(item *parser.Item, name string) (parser.Value, bool) {
	for _, v := range item.Property(name) {
		if !v.Empty() {
			return v, true
		}
	}
	return parser.Value{}, false
}

func firstString(item *parser.Item, name string) string {
	for _, v := range item.Property(name) {
		if s := v.String(); s != "" {
			return s
		}
	}
	return ""
}

func firstCard(item *parser.Item, name string) (*Card, error) {
	v, ok := firstValue(item, name)
	if !ok {
		return nil, nil
	}
	return cardFromValue(v)
}

func firstTime(item *parser.Item, name string) *time.Time {
	s := firstString(item, name)
	if s == "" {
		return nil
	}

	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		slog.Debug("Ignoring unparseable timestamp", "property", name, "value", s, "error", err)
		return nil
	}
	return &t
}

// firstContent reads an e-* property. Plain string values are escaped so the
// pair always holds markup and text.
func firstContent(item *parser.Item, name string) *Content {
	v, ok := firstValue(item, name)
	if !ok {
		return nil
	}

	if v.IsEmbed() {
		return &Content{HTML: v.HTML, Value: htmlquery.FragmentText(v.HTML)}
	}

	text := v.String()
	return &Content{HTML: htmlquery.Escape(text), Value: text}
}

// allStrings collects every non-empty value of a list property.
func allStrings(item *parser.Item, name string) []string {
	values := lo.FilterMap(item.Property(name), func(v parser.Value, _ int) (string, bool) {
		s := v.String()
		return s, s != ""
	})
	if len(values) == 0 {
		return nil
	}
	return values
}

func references(item *parser.Item, name string) ([]*Entry, error) {
	values := lo.Filter(item.Property(name), func(v parser.Value, _ int) bool {
		return !v.Empty()
	})
	if len(values) == 0 {
		return nil, nil
	}

	refs := make([]*Entry, 0, len(values))
	for _, v := range values {
		ref, err := entryFromValue(v)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}
