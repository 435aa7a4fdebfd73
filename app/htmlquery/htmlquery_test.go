package htmlquery

import (
	"strings"
	"testing"
)

const page = `<!DOCTYPE html>
<html>
<head>
	<title>Test Page</title>
	<meta property="og:title" content="OG Title">
	<link rel="alternate" type="application/json+oembed" href="http://testsite/oembed?url=1">
</head>
<body><p>Hello <b>World!</b></p><a href="http://othersite/1">one</a> <a href="/two">two</a><a name="anchor">x</a></body>
</html>`

func TestAttr(t *testing.T) {
	value, ok := Attr(page, "meta[property='og:title']", "content")
	if !ok {
		t.Fatal("Expected og:title attribute")
	}
	if value != "OG Title" {
		t.Errorf("Expected 'OG Title', got '%s'", value)
	}

	href, ok := Attr(page, "link[rel='alternate'][type='application/json+oembed'], link[rel='alternate'][type='text/json+oembed']", "href")
	if !ok || href != "http://testsite/oembed?url=1" {
		t.Errorf("Expected oembed href, got '%s'", href)
	}

	if _, ok := Attr(page, "meta[property='og:url']", "content"); ok {
		t.Error("Expected missing attribute to report false")
	}
}

func TestText(t *testing.T) {
	if title := Text(page, "title"); title != "Test Page" {
		t.Errorf("Expected title 'Test Page', got '%s'", title)
	}
	if body := strings.TrimSpace(Text(page, "body")); body != "Hello World!one twox" {
		t.Errorf("Expected body text 'Hello World!one twox', got '%s'", body)
	}
	if missing := Text("<p>x</p>", "title"); missing != "" {
		t.Errorf("Expected empty text, got '%s'", missing)
	}
}

func TestFragmentText(t *testing.T) {
	if text := FragmentText("Hello <b>World!</b>"); text != "Hello World!" {
		t.Errorf("Expected 'Hello World!', got '%s'", text)
	}
	if text := FragmentText("  <p>Hi</p>\n"); text != "Hi" {
		t.Errorf("Expected 'Hi', got '%s'", text)
	}
	if text := FragmentText(""); text != "" {
		t.Errorf("Expected empty text, got '%s'", text)
	}
}

func TestLinks(t *testing.T) {
	links := Links(page)
	if len(links) != 2 {
		t.Fatalf("Expected 2 links, got %d", len(links))
	}
	if links[0] != "http://othersite/1" || links[1] != "/two" {
		t.Errorf("Unexpected links: %v", links)
	}

	if links := Links("no anchors here"); len(links) != 0 {
		t.Errorf("Expected no links, got %v", links)
	}
}

func TestEscape(t *testing.T) {
	escaped := Escape(`Tom & "Jerry" <b>`)
	expected := `Tom &amp; "Jerry" &lt;b&gt;`
	if escaped != expected {
		t.Errorf("Expected '%s', got '%s'", expected, escaped)
	}
}
