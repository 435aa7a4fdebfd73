package resolve

import (
	"context"

	"github.com/samber/lo"

	"github.com/lysyi3m/mf-obj/app/mf"
	"github.com/lysyi3m/mf-obj/app/parser"
)

// GetCard fetches a presumed author page and returns the card representing the
// page's owner, or nil when no card on the page can be confirmed.
func (r *Resolver) GetCard(ctx context.Context, url string) (*mf.Card, error) {
	p, err := r.fetchPage(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := r.document(p)
	if err != nil {
		return nil, err
	}

	return cardFromDocument(doc, url)
}

// cardFromDocument picks the owner card of the page at url. In order of
// preference: a card whose url and uid are both the page, a card linked by
// rel=me, a card whose url is the page.
func cardFromDocument(doc *parser.Document, url string) (*mf.Card, error) {
	items := doc.ItemsOfType(mf.TypeCard)
	cards := make([]*mf.Card, 0, len(items))
	for _, item := range items {
		card, err := mf.BuildCard(item)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}

	me := doc.Rels["me"]
	tiers := []func(*mf.Card) bool{
		func(c *mf.Card) bool {
			return c.URL != "" && c.UID != "" && mf.URLsEqual(c.URL, url) && mf.URLsEqual(c.UID, url)
		},
		func(c *mf.Card) bool {
			return c.URL != "" && lo.ContainsBy(me, func(rel string) bool {
				return mf.URLsEqual(c.URL, rel)
			})
		},
		func(c *mf.Card) bool {
			return c.URL != "" && mf.URLsEqual(c.URL, url)
		},
	}

	for _, tier := range tiers {
		if card, ok := lo.Find(cards, tier); ok {
			return card, nil
		}
	}
	return nil, nil
}
