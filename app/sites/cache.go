package sites

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/lysyi3m/mf-obj/app/resolve"
)

type Cache struct {
	sitesDir string
	byName   map[string]*Config
	byHost   map[string]*Config
	mu       sync.RWMutex
}

func NewCache(sitesDir string) *Cache {
	return &Cache{
		sitesDir: sitesDir,
		byName:   make(map[string]*Config),
		byHost:   make(map[string]*Config),
	}
}

// Run loads every *.yml file of the sites directory. A missing directory is not an error.
func (c *Cache) Run() error {
	if _, err := os.Stat(c.sitesDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(c.sitesDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		siteName := strings.TrimSuffix(filepath.Base(file), ".yml")

		config, err := c.LoadConfig(siteName)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Site rules loaded", "site", siteName, "host", config.Host,
			"entry_strategies", config.EntryStrategies, "feed_strategies", config.FeedStrategies)
	}

	return nil
}

func (c *Cache) LoadConfig(siteName string) (*Config, error) {
	configFile := c.getConfigFilePath(siteName)
	config, err := c.parseConfig(configFile)
	if err != nil {
		return nil, err
	}

	config.Name = siteName
	config.Host = strings.ToLower(strings.TrimSpace(config.Host))

	if err := c.validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configFile, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if previous, ok := c.byName[siteName]; ok {
		delete(c.byHost, previous.Host)
	}
	c.byName[siteName] = config
	c.byHost[config.Host] = config

	return config, nil
}

func (c *Cache) GetConfig(siteName string) (*Config, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	config, ok := c.byName[siteName]
	if !ok {
		return nil, fmt.Errorf("site config with name '%s' not found", siteName)
	}
	return config, nil
}

func (c *Cache) GetConfigCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byName)
}

// ForURL returns the rules for the host of rawURL.
func (c *Cache) ForURL(rawURL string) (*Config, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	config, ok := c.byHost[strings.ToLower(u.Hostname())]
	return config, ok
}

// EntryStrategies returns the entry chain configured for rawURL's host, or nil.
func (c *Cache) EntryStrategies(rawURL string) []resolve.Strategy {
	if config, ok := c.ForURL(rawURL); ok {
		return config.Entry()
	}
	return nil
}

// FeedStrategies returns the feed chain configured for rawURL's host, or nil.
func (c *Cache) FeedStrategies(rawURL string) []resolve.FeedStrategy {
	if config, ok := c.ForURL(rawURL); ok {
		return config.Feed()
	}
	return nil
}

func (c *Cache) parseConfig(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return &config, nil
}

func (c *Cache) validateConfig(config *Config) error {
	if config.Host == "" {
		return fmt.Errorf("host is required")
	}

	entry, err := resolve.ParseStrategies(config.EntryStrategies)
	if err != nil {
		return err
	}
	feed, err := resolve.ParseFeedStrategies(config.FeedStrategies)
	if err != nil {
		return err
	}

	if len(entry) > 0 {
		config.entry = entry
	}
	if len(feed) > 0 {
		config.feed = feed
	}
	return nil
}

func (c *Cache) getConfigFilePath(siteName string) string {
	return filepath.Join(c.sitesDir, siteName+".yml")
}
