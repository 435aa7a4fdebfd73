// Package htmlquery answers the handful of questions the resolver asks of raw markup:
// single attribute lookups, rendered element text and anchor targets.
package htmlquery

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Escape escapes the characters that would otherwise be read as markup.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Attr returns the attribute of the first element matching selector.
func Attr(markup, selector, attr string) (string, bool) {
	doc, err := load(markup)
	if err != nil {
		return "", false
	}
	return doc.Find(selector).First().Attr(attr)
}

// Text returns the combined text of every element matching selector.
func Text(markup, selector string) string {
	doc, err := load(markup)
	if err != nil {
		return ""
	}
	return doc.Find(selector).Text()
}

// FragmentText strips markup from a fragment and returns its trimmed text.
func FragmentText(fragment string) string {
	if fragment == "" {
		return ""
	}
	doc, err := load(fragment)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Text())
}

// Links returns the target of every anchor in the fragment, in document order.
func Links(fragment string) []string {
	doc, err := load(fragment)
	if err != nil {
		return nil
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			links = append(links, href)
		}
	})
	return links
}

func load(markup string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		slog.Debug("Failed to load markup", "error", err)
		return nil, err
	}
	return doc, nil
}
