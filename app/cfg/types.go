package cfg

import "time"

type Cfg struct {
	// Server configuration
	Port         string
	APIAccessKey string

	// Fetch configuration
	UserAgent string
	Timeout   time.Duration
	RedisAddr string
	CacheTTL  time.Duration

	// Resolver configuration
	SitesDir    string
	ThreadLimit int

	// Application metadata
	Debug   bool
	Version string
}
