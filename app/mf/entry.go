package mf

import (
	"cmp"
	"net/url"
	"time"

	"github.com/lysyi3m/mf-obj/app/htmlquery"
)

// Entry is one authored post. ReplyTo, LikeOf and RepostOf are references to
// other entries; children are the comments and citations attached to it.
// The two relations are independent.
type Entry struct {
	Name        string
	Published   *time.Time
	Content     *Content
	Summary     string
	URL         string
	Author      *Card
	Category    []string
	Syndication []string
	SyndicateTo []string
	Photo       []string
	Audio       []string
	Video       []string
	ReplyTo     []*Entry
	LikeOf      []*Entry
	RepostOf    []*Entry
	Embed       *Content

	children childSet
}

func NewEntry(url string) *Entry {
	return &Entry{URL: url}
}

// AddChild attaches a child entry, replacing any child with the same URL.
func (e *Entry) AddChild(child *Entry) error {
	return e.children.add(child)
}

func (e *Entry) DeleteChild(url string) bool {
	return e.children.delete(url)
}

func (e *Entry) Child(url string) (*Entry, bool) {
	return e.children.get(url)
}

// Children returns the children in insertion order.
func (e *Entry) Children() []*Entry {
	return e.children.list()
}

// SortedChildren returns the children stably sorted by cmp.
func (e *Entry) SortedChildren(cmp func(a, b *Entry) int) []*Entry {
	return e.children.sorted(cmp)
}

func (e *Entry) ChildCount() int {
	return e.children.len()
}

// Domain returns the scheme and host of the entry URL.
func (e *Entry) Domain() string {
	u, err := url.Parse(e.URL)
	if err != nil {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// Path returns the path and query of the entry URL.
func (e *Entry) Path() string {
	u, err := url.Parse(e.URL)
	if err != nil {
		return ""
	}
	return u.RequestURI()
}

// References returns the addresses of every reply, like and repost target.
func (e *Entry) References() []string {
	refs := make([]string, 0, len(e.ReplyTo)+len(e.LikeOf)+len(e.RepostOf))
	for _, list := range [][]*Entry{e.ReplyTo, e.LikeOf, e.RepostOf} {
		for _, ref := range list {
			refs = append(refs, ref.URL)
		}
	}
	return refs
}

// Mentions returns the references followed by every link in the content.
func (e *Entry) Mentions() []string {
	mentions := e.References()
	if e.Content != nil {
		mentions = append(mentions, htmlquery.Links(e.Content.HTML)...)
	}
	return mentions
}

func (e *Entry) IsReply() bool {
	return len(e.ReplyTo) > 0
}

func (e *Entry) IsRepost() bool {
	return len(e.RepostOf) > 0
}

func (e *Entry) IsLike() bool {
	return len(e.LikeOf) > 0
}

// IsArticle reports whether the entry is a titled post rather than a note or a response.
func (e *Entry) IsArticle() bool {
	return !e.IsReply() &&
		!e.IsRepost() &&
		!e.IsLike() &&
		e.Name != "" &&
		e.Content != nil &&
		e.Content.Value != "" &&
		e.Name != e.Content.Value
}

func (e *Entry) publishedMillis() int64 {
	if e.Published == nil {
		return -1
	}
	return e.Published.UnixMilli()
}

func (e *Entry) kind() int {
	if e.IsLike() || e.IsRepost() {
		return 1
	}
	return 0
}

// ByDate orders entries oldest first; unpublished entries sort first.
func ByDate(a, b *Entry) int {
	return cmp.Compare(a.publishedMillis(), b.publishedMillis())
}

func ByDateDesc(a, b *Entry) int {
	return ByDate(b, a)
}

// ByType orders posts and replies before likes and reposts.
func ByType(a, b *Entry) int {
	return cmp.Compare(a.kind(), b.kind())
}

func ByTypeDesc(a, b *Entry) int {
	return ByType(b, a)
}
