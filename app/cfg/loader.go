package cfg

import (
	"cmp"
	"errors"
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
	// HTTP server
	Port    string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://reader.example.com)"`

	// Feed source
	ProxyURL     string  `long:"proxy-url" env:"PROXY_URL" default:"https://allorigins.hexlet.app/get" description:"CORS proxy endpoint used to fetch feeds"`
	PollInterval int     `long:"poll-interval" env:"POLL_INTERVAL" default:"5000" description:"Delay between polling cycles of a feed in milliseconds"`
	FetchTimeout int     `long:"timeout" env:"FETCH_TIMEOUT" default:"10" description:"Fetch timeout in seconds"`
	RateLimit    float64 `long:"rate-limit" env:"RATE_LIMIT" default:"5" description:"Maximum proxy requests per second (0 disables the limit)"`
	UserAgent    string  `long:"user-agent" env:"USER_AGENT" default:"RSS Reader/1.0" description:"User agent string for HTTP requests"`

	// Subscriptions and presentation
	FeedsFile string `long:"feeds-file" env:"FEEDS_FILE" description:"YAML file with feed URLs to subscribe to at startup"`
	Locale    string `long:"locale" env:"LOCALE" default:"en" choice:"en" choice:"ru" description:"Language of feedback messages"`

	// Application metadata
	Debug bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

func Load() (*Cfg, error) {
	return LoadArgs(nil)
}

// LoadArgs parses args instead of os.Args when args is not nil.
// A help request returns a nil config and no error.
func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	var err error
	if args == nil {
		_, err = parser.Parse()
	} else {
		_, err = parser.ParseArgs(args)
	}
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if raw.PollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive, got %d", raw.PollInterval)
	}
	if raw.FetchTimeout <= 0 {
		return nil, fmt.Errorf("fetch timeout must be positive, got %d", raw.FetchTimeout)
	}
	if raw.RateLimit < 0 {
		return nil, fmt.Errorf("rate limit must not be negative, got %g", raw.RateLimit)
	}

	return &Cfg{
		Port:         raw.Port,
		BaseUrl:      raw.BaseUrl,
		ProxyURL:     raw.ProxyURL,
		PollInterval: time.Duration(raw.PollInterval) * time.Millisecond,
		FetchTimeout: time.Duration(raw.FetchTimeout) * time.Second,
		RateLimit:    raw.RateLimit,
		UserAgent:    raw.UserAgent,
		FeedsFile:    raw.FeedsFile,
		Locale:       raw.Locale,
		Debug:        raw.Debug,
		Version:      GetVersion(),
	}, nil
}
