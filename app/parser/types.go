package parser

// Document is the generic result of parsing one page for microformats.
type Document struct {
	Items []*Item
	Rels  map[string][]string
}

// Item is one parsed microformat: its type set, property map and nested items.
type Item struct {
	Type       []string
	Properties map[string][]Value
	Children   []*Item

	// Value is the item's implied plain value when it appears as a property.
	Value string
}

// Value is a single property value: a string, an embedded markup fragment or a nested item.
type Value struct {
	Text string
	HTML string
	Item *Item
}

// HasType reports whether the item's type set contains any of the given types.
func (i *Item) HasType(types ...string) bool {
	for _, t := range i.Type {
		for _, want := range types {
			if t == want {
				return true
			}
		}
	}
	return false
}

// Property returns every value of the named property.
func (i *Item) Property(name string) []Value {
	if i.Properties == nil {
		return nil
	}
	return i.Properties[name]
}

// Rel returns the first address of the named page relation.
func (d *Document) Rel(name string) (string, bool) {
	if urls := d.Rels[name]; len(urls) > 0 {
		return urls[0], true
	}
	return "", false
}

// ItemsOfType returns the top-level items carrying any of the given types.
func (d *Document) ItemsOfType(types ...string) []*Item {
	var items []*Item
	for _, item := range d.Items {
		if item.HasType(types...) {
			items = append(items, item)
		}
	}
	return items
}

func (v Value) IsItem() bool {
	return v.Item != nil
}

func (v Value) IsEmbed() bool {
	return v.Item == nil && v.HTML != ""
}

// String returns the plain value; nested items yield their implied value.
func (v Value) String() string {
	if v.Item != nil {
		return v.Item.Value
	}
	return v.Text
}

// Empty reports whether the value is an empty string.
func (v Value) Empty() bool {
	return v.Item == nil && v.Text == "" && v.HTML == ""
}
