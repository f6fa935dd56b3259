package cfg

import "time"

type Cfg struct {
	// HTTP server
	Port    string
	BaseUrl string

	// Feed source
	ProxyURL     string
	PollInterval time.Duration
	FetchTimeout time.Duration
	RateLimit    float64
	UserAgent    string

	// Subscriptions and presentation
	FeedsFile string
	Locale    string

	// Application metadata
	Debug   bool
	Version string
}
