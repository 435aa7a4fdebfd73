package sites

import (
	"github.com/lysyi3m/mf-obj/app/resolve"
)

// Config selects the strategy chains used for pages of one host.
type Config struct {
	Name            string   `yaml:"-"`
	Host            string   `yaml:"host"`
	EntryStrategies []string `yaml:"entry_strategies"`
	FeedStrategies  []string `yaml:"feed_strategies"`

	entry []resolve.Strategy
	feed  []resolve.FeedStrategy
}

// Entry returns the parsed entry chain, or nil to use the defaults.
func (c *Config) Entry() []resolve.Strategy {
	return c.entry
}

// Feed returns the parsed feed chain, or nil to use the defaults.
func (c *Config) Feed() []resolve.FeedStrategy {
	return c.feed
}
