package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Server configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Fetch configuration
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"mf-obj" description:"User agent string for HTTP requests"`
	Timeout   int    `long:"timeout" env:"FETCH_TIMEOUT" default:"30" description:"Fetch timeout in seconds"`
	RedisAddr string `long:"redis-addr" env:"REDIS_ADDR" description:"Redis address for the page cache (optional)"`
	CacheTTL  int    `long:"cache-ttl" env:"CACHE_TTL" default:"300" description:"Page cache TTL in seconds"`

	// Resolver configuration
	SitesDir    string `long:"sites-dir" env:"SITES_DIR" default:"./sites" description:"Directory containing per-site strategy rules"`
	ThreadLimit int    `long:"thread-limit" env:"THREAD_LIMIT" default:"100" description:"Maximum number of entries collected per thread (0 for no limit)"`

	Debug bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

// Load parses command line flags and environment variables. It returns nil
// without an error when help was requested.
func Load() (*Cfg, error) {
	return load(nil)
}

func load(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	var err error
	if args == nil {
		_, err = parser.Parse()
	} else {
		_, err = parser.ParseArgs(args)
	}
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := validate(&raw); err != nil {
		return nil, err
	}

	cfg := &Cfg{
		Port:         raw.Port,
		APIAccessKey: raw.APIAccessKey,
		UserAgent:    raw.UserAgent,
		Timeout:      time.Duration(raw.Timeout) * time.Second,
		RedisAddr:    raw.RedisAddr,
		CacheTTL:     time.Duration(raw.CacheTTL) * time.Second,
		SitesDir:     raw.SitesDir,
		ThreadLimit:  raw.ThreadLimit,
		Debug:        raw.Debug,
		Version:      GetVersion(),
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func validate(raw *rawCfg) error {
	nonNegativeFields := map[string]int{
		"timeout":      raw.Timeout,
		"cache TTL":    raw.CacheTTL,
		"thread limit": raw.ThreadLimit,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}
	return nil
}
