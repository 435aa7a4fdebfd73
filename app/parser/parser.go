package parser

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"willnorris.com/go/microformats"
)

// Parser turns raw markup into a generic microformats document.
type Parser interface {
	Parse(markup, baseURL string) (*Document, error)
}

var _ Parser = (*MicroformatsParser)(nil)

// MicroformatsParser implements Parser with the microformats2 parsing rules,
// resolving relative addresses against the base URL.
type MicroformatsParser struct{}

func NewParser() *MicroformatsParser {
	return &MicroformatsParser{}
}

func (p *MicroformatsParser) Parse(markup, baseURL string) (*Document, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	data := microformats.Parse(strings.NewReader(markup), base)

	doc := &Document{
		Items: make([]*Item, 0, len(data.Items)),
		Rels:  data.Rels,
	}
	if doc.Rels == nil {
		doc.Rels = map[string][]string{}
	}

	for _, mf := range data.Items {
		doc.Items = append(doc.Items, p.convertItem(mf))
	}

	slog.Debug("Parsed microformats", "base", baseURL, "items", len(doc.Items), "rels", len(doc.Rels))
	return doc, nil
}

func (p *MicroformatsParser) convertItem(mf *microformats.Microformat) *Item {
	item := &Item{
		Type:       mf.Type,
		Properties: make(map[string][]Value, len(mf.Properties)),
		Value:      mf.Value,
	}

	for name, values := range mf.Properties {
		converted := make([]Value, 0, len(values))
		for _, raw := range values {
			if v, ok := p.convertValue(raw); ok {
				converted = append(converted, v)
			}
		}
		item.Properties[name] = converted
	}

	for _, child := range mf.Children {
		item.Children = append(item.Children, p.convertItem(child))
	}

	return item
}

// convertValue maps the parser's loosely typed property values onto Value.
// Embedded e-* values and u-* values with alt text arrive as maps.
func (p *MicroformatsParser) convertValue(raw interface{}) (Value, bool) {
	switch v := raw.(type) {
	case string:
		return Value{Text: v}, true
	case *microformats.Microformat:
		return Value{Item: p.convertItem(v)}, true
	case map[string]string:
		return Value{Text: v["value"], HTML: v["html"]}, true
	case map[string]interface{}:
		text, _ := v["value"].(string)
		markup, _ := v["html"].(string)
		return Value{Text: text, HTML: markup}, true
	default:
		slog.Debug("Skipping unsupported property value", "type", fmt.Sprintf("%T", raw))
		return Value{}, false
	}
}
