package mf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/araddon/dateparse"
)

// timeLayout matches ISO-8601 timestamps with millisecond precision in UTC.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// entryJSON is the canonical wire shape of an entry. References and children
// are flattened to addresses, so nested detail does not survive a round trip.
type entryJSON struct {
	Name        *string  `json:"name"`
	Published   *string  `json:"published"`
	Content     *Content `json:"content"`
	Summary     *string  `json:"summary"`
	URL         *string  `json:"url"`
	Author      *Card    `json:"author"`
	Category    []string `json:"category"`
	Syndication []string `json:"syndication"`
	SyndicateTo []string `json:"syndicateTo"`
	Photo       []string `json:"photo"`
	Audio       []string `json:"audio"`
	Video       []string `json:"video"`
	ReplyTo     *string  `json:"replyTo"`
	LikeOf      *string  `json:"likeOf"`
	RepostOf    *string  `json:"repostOf"`
	Embed       *Content `json:"embed"`
	Children    []string `json:"children"`
}

type cardJSON struct {
	Name  *string `json:"name"`
	Photo *string `json:"photo"`
	URL   *string `json:"url"`
	UID   *string `json:"uid"`
}

type eventJSON struct {
	Name     *string `json:"name"`
	URL      *string `json:"url"`
	Start    *string `json:"start"`
	End      *string `json:"end"`
	Location *Card   `json:"location"`
}

type feedJSON struct {
	Name     *string  `json:"name"`
	URL      *string  `json:"url"`
	Author   *Card    `json:"author"`
	Prev     *string  `json:"prev"`
	Next     *string  `json:"next"`
	Children []*Entry `json:"children"`
}

// Serialize encodes the entry in its canonical JSON form.
func (e *Entry) Serialize() ([]byte, error) {
	return encode(e)
}

// Deserialize decodes an entry from its canonical JSON form. References and
// children come back as address-only entries.
func Deserialize(data []byte) (*Entry, error) {
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to deserialize entry: %w", err)
	}
	return &entry, nil
}

func (e *Entry) MarshalJSON() ([]byte, error) {
	return encode(entryJSON{
		Name:        nullable(e.Name),
		Published:   formatTime(e.Published),
		Content:     e.Content,
		Summary:     nullable(e.Summary),
		URL:         nullable(e.URL),
		Author:      e.Author,
		Category:    nonNil(e.Category),
		Syndication: nonNil(e.Syndication),
		SyndicateTo: nonNil(e.SyndicateTo),
		Photo:       nonNil(e.Photo),
		Audio:       nonNil(e.Audio),
		Video:       nonNil(e.Video),
		ReplyTo:     firstURL(e.ReplyTo),
		LikeOf:      firstURL(e.LikeOf),
		RepostOf:    firstURL(e.RepostOf),
		Embed:       e.Embed,
		Children:    e.children.urls(),
	})
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw entryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	published, err := parseTime(raw.Published)
	if err != nil {
		return err
	}

	*e = Entry{
		Name:        deref(raw.Name),
		Published:   published,
		Content:     raw.Content,
		Summary:     deref(raw.Summary),
		URL:         deref(raw.URL),
		Author:      raw.Author,
		Category:    nilIfEmpty(raw.Category),
		Syndication: nilIfEmpty(raw.Syndication),
		SyndicateTo: nilIfEmpty(raw.SyndicateTo),
		Photo:       nilIfEmpty(raw.Photo),
		Audio:       nilIfEmpty(raw.Audio),
		Video:       nilIfEmpty(raw.Video),
		ReplyTo:     stubs(raw.ReplyTo),
		LikeOf:      stubs(raw.LikeOf),
		RepostOf:    stubs(raw.RepostOf),
		Embed:       raw.Embed,
	}

	for _, url := range raw.Children {
		if err := e.AddChild(NewEntry(url)); err != nil {
			return fmt.Errorf("invalid child: %w", err)
		}
	}

	return nil
}

func (c *Card) MarshalJSON() ([]byte, error) {
	return encode(cardJSON{
		Name:  nullable(c.Name),
		Photo: nullable(c.Photo),
		URL:   nullable(c.URL),
		UID:   nullable(c.UID),
	})
}

func (c *Card) UnmarshalJSON(data []byte) error {
	var raw cardJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*c = Card{
		Name:  deref(raw.Name),
		Photo: deref(raw.Photo),
		URL:   deref(raw.URL),
		UID:   deref(raw.UID),
	}
	return nil
}

func (ev *Event) MarshalJSON() ([]byte, error) {
	return encode(eventJSON{
		Name:     nullable(ev.Name),
		URL:      nullable(ev.URL),
		Start:    formatTime(ev.Start),
		End:      formatTime(ev.End),
		Location: ev.Location,
	})
}

func (f *Feed) MarshalJSON() ([]byte, error) {
	return encode(feedJSON{
		Name:     nullable(f.Name),
		URL:      nullable(f.URL),
		Author:   f.Author,
		Prev:     nullable(f.Prev),
		Next:     nullable(f.Next),
		Children: f.Children(),
	})
}

// encode marshals without escaping markup characters, keeping content readable.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func nilIfEmpty(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	return values
}

func firstURL(refs []*Entry) *string {
	if len(refs) == 0 {
		return nil
	}
	return nullable(refs[0].URL)
}

func stubs(url *string) []*Entry {
	if url == nil {
		return nil
	}
	return []*Entry{NewEntry(*url)}
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(timeLayout)
	return &s
}

func parseTime(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := dateparse.ParseIn(*s, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid published timestamp: %w", err)
	}
	t = t.UTC()
	return &t, nil
}
