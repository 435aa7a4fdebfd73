package resolve

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lysyi3m/mf-obj/app/fetch"
	"github.com/lysyi3m/mf-obj/app/mf"
)

// fakeWeb serves fixed pages and answers 404 for everything else.
type fakeWeb struct {
	pages   map[string]string
	fetched []string
}

func (w *fakeWeb) Fetch(_ context.Context, url string) (*fetch.Response, error) {
	w.fetched = append(w.fetched, url)
	body, ok := w.pages[url]
	if !ok {
		return &fetch.Response{StatusCode: 404}, nil
	}
	return &fetch.Response{StatusCode: 200, Body: []byte(body), ContentType: "text/html"}, nil
}

func newTestResolver(pages map[string]string, opts ...Option) (*Resolver, *fakeWeb) {
	web := &fakeWeb{pages: pages}
	return New(web, opts...), web
}

func TestGetEntryEndToEnd(t *testing.T) {
	r, _ := newTestResolver(map[string]string{
		"http://s/": `<div class="h-entry"><a class="u-url" href="/p1"></a>` +
			`<time class="dt-published" datetime="2020-01-01"></time>` +
			`<div class="e-content">Hi</div></div>`,
	})

	entry, err := r.GetEntry(context.Background(), "http://s/")
	require.NoError(t, err)

	assert.Equal(t, "http://s/p1", entry.URL)
	require.NotNil(t, entry.Published)
	assert.True(t, entry.Published.Equal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.NotNil(t, entry.Content)
	assert.Equal(t, "Hi", entry.Content.Value)
	assert.Nil(t, entry.Author)
}

func TestGetEntryStatusError(t *testing.T) {
	r, _ := newTestResolver(map[string]string{})

	_, err := r.GetEntry(context.Background(), "http://s/missing")

	var statusErr *fetch.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 404, statusErr.StatusCode)
	assert.EqualError(t, err, "server returned status 404")
}

func TestGetEntryTransportError(t *testing.T) {
	failure := errors.New("connection refused")
	r := New(fetch.FetcherFunc(func(context.Context, string) (*fetch.Response, error) {
		return nil, failure
	}))

	_, err := r.GetEntry(context.Background(), "http://s/")
	assert.ErrorIs(t, err, failure)
}

func TestResolveEntryCardinality(t *testing.T) {
	r, _ := newTestResolver(nil)
	ctx := context.Background()

	_, err := r.ResolveEntry(ctx, `<p>nothing here</p>`, "http://s/")
	assert.ErrorIs(t, err, ErrNoEntry)

	two := `<div class="h-entry"><a class="u-url" href="/1"></a></div>` +
		`<div class="h-entry"><a class="u-url" href="/2"></a></div>`
	_, err = r.ResolveEntry(ctx, two, "http://s/")
	assert.ErrorIs(t, err, ErrMultipleEntries)
}

func TestResolveEntryAllStrategiesFailed(t *testing.T) {
	r, _ := newTestResolver(nil)

	_, err := r.ResolveEntry(context.Background(), `<html><body>plain</body></html>`, "http://s/",
		StrategyEntry, StrategyOembed, StrategyOpengraph)
	require.Error(t, err)

	assert.EqualError(t, err,
		"all strategies failed: no h-entry found, no oembed link found, no opengraph data found")

	var strategiesErr *StrategiesError
	require.ErrorAs(t, err, &strategiesErr)
	assert.Len(t, strategiesErr.Errs, 3)
	assert.ErrorIs(t, err, ErrNoEntry)
	assert.ErrorIs(t, err, ErrNoOembedLink)
	assert.ErrorIs(t, err, ErrNoOpengraphData)
}

func TestResolveEntryStopsAtFirstSuccess(t *testing.T) {
	markup := `<html><head>
		<meta property="og:title" content="Title">
		<meta property="og:url" content="http://s/post">
		<link rel="alternate" type="application/json+oembed" href="http://s/oembed">
		</head><body></body></html>`
	r, web := newTestResolver(map[string]string{
		"http://s/oembed": `{"title":"From oembed"}`,
	})

	entry, err := r.ResolveEntry(context.Background(), markup, "http://s/post",
		StrategyEntry, StrategyOpengraph, StrategyOembed)
	require.NoError(t, err)

	require.NotNil(t, entry.Content)
	assert.Equal(t, "Title", entry.Content.Value)
	assert.Empty(t, web.fetched)

	entry, err = r.ResolveEntry(context.Background(), markup, "http://s/post",
		StrategyOembed, StrategyOpengraph)
	require.NoError(t, err)
	assert.Equal(t, "From oembed", entry.Name)
	assert.Equal(t, []string{"http://s/oembed"}, web.fetched)
}

func TestStructuredEntryConfirmsAuthor(t *testing.T) {
	r, _ := newTestResolver(map[string]string{
		"http://s/post": `<div class="h-entry"><a class="u-url" href="/post"></a>` +
			`<a class="u-author" href="/about"></a><div class="e-content">Post</div></div>`,
		"http://s/about": `<div class="h-card"><a class="p-name u-url" href="/about">Alice</a></div>`,
	})

	entry, err := r.GetEntry(context.Background(), "http://s/post")
	require.NoError(t, err)

	require.NotNil(t, entry.Author)
	assert.Equal(t, "Alice", entry.Author.Name)
	assert.Equal(t, "http://s/about", entry.Author.URL)
}

func TestStructuredEntryRelAuthor(t *testing.T) {
	r, _ := newTestResolver(map[string]string{
		"http://s/post": `<html><head><link rel="author" href="/about"></head><body>` +
			`<div class="h-entry"><a class="u-url" href="/post"></a><div class="e-content">Post</div></div>` +
			`</body></html>`,
		"http://s/about": `<div class="h-card"><a class="p-name u-url" href="/about">Alice</a></div>`,
	})

	entry, err := r.GetEntry(context.Background(), "http://s/post")
	require.NoError(t, err)

	require.NotNil(t, entry.Author)
	assert.Equal(t, "Alice", entry.Author.Name)
}

func TestStructuredEntrySwallowsAuthorFailure(t *testing.T) {
	r, web := newTestResolver(map[string]string{
		"http://s/post": `<div class="h-entry"><a class="u-url" href="/post"></a>` +
			`<a class="u-author" href="/missing"></a><div class="e-content">Post</div></div>`,
	})

	entry, err := r.GetEntry(context.Background(), "http://s/post")
	require.NoError(t, err)

	assert.Equal(t, &mf.Card{URL: "http://s/missing"}, entry.Author)
	assert.Equal(t, []string{"http://s/post", "http://s/missing"}, web.fetched)
}

func TestStructuredEntryFiltersChildren(t *testing.T) {
	markup := `<div class="h-entry"><a class="u-url" href="/post"></a><div class="e-content">Post</div>` +
		`<div class="h-card"><span class="p-name">Someone</span></div>` +
		`<div class="h-cite"><a class="u-url" href="http://other/reply"></a><span class="p-name">Reply</span></div>` +
		`</div>`
	r, _ := newTestResolver(nil)

	entry, err := r.ResolveEntry(context.Background(), markup, "http://s/post")
	require.NoError(t, err)

	require.Equal(t, 1, entry.ChildCount())
	child, ok := entry.Child("http://other/reply")
	require.True(t, ok)
	assert.Equal(t, "Reply", child.Name)
}

func TestStructuredEntryTypeMismatch(t *testing.T) {
	markup := `<div class="h-entry"><a class="u-url" href="/post"></a>` +
		`<div class="p-in-reply-to h-card"><span class="p-name">Not a post</span></div></div>`
	r, _ := newTestResolver(nil)

	_, err := r.ResolveEntry(context.Background(), markup, "http://s/post")

	var mismatch *mf.TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "Entry", mismatch.Kind)
}

func TestEventStrategy(t *testing.T) {
	markup := `<div class="h-event"><span class="p-name">Tom &amp; Jerry</span>` +
		`<time class="dt-start" datetime="2015-06-27T10:00:00Z"></time></div>`
	r, _ := newTestResolver(nil)

	entry, err := r.ResolveEntry(context.Background(), markup, "http://s/event", StrategyEvent)
	require.NoError(t, err)

	assert.Equal(t, "http://s/event", entry.URL)
	assert.Equal(t, "Tom & Jerry", entry.Name)
	assert.Equal(t, &mf.Content{HTML: "Tom &amp; Jerry", Value: "Tom & Jerry"}, entry.Content)

	_, err = r.ResolveEntry(context.Background(), markup+markup, "http://s/event", StrategyEvent)
	assert.ErrorIs(t, err, ErrMultipleEvents)
}

func TestGetEvent(t *testing.T) {
	r, _ := newTestResolver(map[string]string{
		"http://s/camp": `<div class="h-event"><span class="p-name">IndieWebCamp</span>` +
			`<time class="dt-start" datetime="2015-06-27T10:00:00Z"></time>` +
			`<div class="p-location h-card"><span class="p-name">Mozilla</span></div></div>`,
		"http://s/empty": `<p>nothing</p>`,
	})
	ctx := context.Background()

	event, err := r.GetEvent(ctx, "http://s/camp")
	require.NoError(t, err)
	assert.Equal(t, "IndieWebCamp", event.Name)
	assert.Equal(t, "http://s/camp", event.URL)
	require.NotNil(t, event.Start)
	assert.True(t, event.Start.Equal(time.Date(2015, 6, 27, 10, 0, 0, 0, time.UTC)))
	require.NotNil(t, event.Location)
	assert.Equal(t, "Mozilla", event.Location.Name)

	_, err = r.GetEvent(ctx, "http://s/empty")
	assert.ErrorIs(t, err, ErrNoEvent)
}

func TestOembedStrategy(t *testing.T) {
	markup := `<html><head><link rel="alternate" type="text/json+oembed" href="/oembed?url=post"></head></html>`
	r, _ := newTestResolver(map[string]string{
		"http://s/oembed?url=post": `{"title":"Embedded","html":"<p>Hello <b>there</b></p>",` +
			`"author_name":"Bob","author_url":"http://bob.example/"}`,
	})

	entry, err := r.ResolveEntry(context.Background(), markup, "http://s/post", StrategyOembed)
	require.NoError(t, err)

	assert.Equal(t, "http://s/post", entry.URL)
	assert.Equal(t, "Embedded", entry.Name)
	assert.Equal(t, &mf.Content{HTML: "<p>Hello <b>there</b></p>", Value: "Hello there"}, entry.Content)
	assert.Equal(t, &mf.Card{Name: "Bob", URL: "http://bob.example/"}, entry.Author)
}

func TestOembedStrategyStatusError(t *testing.T) {
	markup := `<link rel="alternate" type="application/json+oembed" href="http://s/gone">`
	r, _ := newTestResolver(nil)

	_, err := r.ResolveEntry(context.Background(), markup, "http://s/post", StrategyOembed)

	var statusErr *fetch.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.EqualError(t, err, "all strategies failed: server returned status 404")
}

func TestOpengraphStrategy(t *testing.T) {
	r, _ := newTestResolver(nil)
	ctx := context.Background()

	withDescription := `<meta property="og:title" content="Title">` +
		`<meta property="og:url" content="http://s/post">` +
		`<meta property="og:image" content="http://s/image.png">` +
		`<meta property="og:description" content="A <short> description">`
	entry, err := r.ResolveEntry(ctx, withDescription, "http://s/post", StrategyOpengraph)
	require.NoError(t, err)
	assert.Equal(t, "Title", entry.Name)
	assert.Equal(t, &mf.Content{HTML: "A &lt;short&gt; description", Value: "A <short> description"}, entry.Content)
	assert.Equal(t, []string{"http://s/image.png"}, entry.Photo)

	titleOnly := `<meta property="og:title" content="Title">` +
		`<meta property="og:url" content="http://s/post">`
	entry, err = r.ResolveEntry(ctx, titleOnly, "http://s/post", StrategyOpengraph)
	require.NoError(t, err)
	assert.Empty(t, entry.Name)
	assert.Equal(t, &mf.Content{HTML: "Title", Value: "Title"}, entry.Content)

	_, err = r.ResolveEntry(ctx, `<meta property="og:title" content="Title">`, "http://s/post", StrategyOpengraph)
	assert.ErrorIs(t, err, ErrNoOpengraphData)
}

func TestHTMLStrategy(t *testing.T) {
	markup := `<html><head><title>Page</title></head><body><p>Body text</p></body></html>`
	r, _ := newTestResolver(nil)

	entry, err := r.ResolveEntry(context.Background(), markup, "http://s/page", StrategyEntry, StrategyHTML)
	require.NoError(t, err)

	assert.Equal(t, "http://s/page", entry.URL)
	assert.Equal(t, "Page", entry.Name)
	assert.Equal(t, &mf.Content{HTML: markup, Value: "Body text"}, entry.Content)
}

func TestReadabilityStrategy(t *testing.T) {
	paragraph := `<p>Microformats are a simple way to mark up people, posts and events in ordinary ` +
		`HTML so that other sites can read them. Readers that understand them can show replies, ` +
		`likes and reposts next to the original post, wherever it was published.</p>`
	markup := `<html><head><title>A Long Article</title></head><body>` +
		`<nav><a href="/">Home</a></nav><article><h1>A Long Article</h1>` +
		paragraph + paragraph + paragraph + paragraph +
		`</article></body></html>`
	r, _ := newTestResolver(nil)

	entry, err := r.ResolveEntry(context.Background(), markup, "http://s/article", StrategyReadability)
	require.NoError(t, err)

	assert.Equal(t, "http://s/article", entry.URL)
	assert.Equal(t, "A Long Article", entry.Name)
	require.NotNil(t, entry.Content)
	assert.Contains(t, entry.Content.Value, "Microformats are a simple way")
}

func TestParseStrategy(t *testing.T) {
	for _, s := range []Strategy{StrategyEntry, StrategyEvent, StrategyOembed, StrategyOpengraph, StrategyHTML, StrategyReadability} {
		parsed, err := ParseStrategy(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	strategies, err := ParseStrategies([]string{"opengraph", " HTML "})
	require.NoError(t, err)
	assert.Equal(t, []Strategy{StrategyOpengraph, StrategyHTML}, strategies)

	_, err = ParseStrategy("microdata")
	assert.EqualError(t, err, `unknown entry strategy "microdata"`)

	feedStrategies, err := ParseFeedStrategies([]string{"hfeed", "syndication"})
	require.NoError(t, err)
	assert.Equal(t, []FeedStrategy{FeedHFeed, FeedSyndication}, feedStrategies)

	_, err = ParseFeedStrategy("entry")
	assert.Error(t, err)
}
