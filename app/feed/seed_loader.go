package feed

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SeedFile lists subscriptions submitted on startup, e.g.
//
//	feeds:
//	  - url: https://example.com/feed.xml
type SeedFile struct {
	Feeds []SeedEntry `yaml:"feeds"`
}

type SeedEntry struct {
	URL string `yaml:"url"`
}

type SeedLoader struct {
	path string
}

func NewSeedLoader(path string) *SeedLoader {
	return &SeedLoader{path: path}
}

// Run returns the seed URLs in file order without repeats. A missing path
// yields no seeds.
func (l *SeedLoader) Run() ([]string, error) {
	if l.path == "" {
		return nil, nil
	}

	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		slog.Debug("Seed file not found, skipping", "path", l.path)
		return nil, nil
	}

	seedFile, err := l.parseFile()
	if err != nil {
		return nil, err
	}

	if err := l.validate(seedFile); err != nil {
		return nil, fmt.Errorf("invalid seed file %s: %w", l.path, err)
	}

	seen := make(map[string]bool, len(seedFile.Feeds))
	urls := make([]string, 0, len(seedFile.Feeds))
	for _, entry := range seedFile.Feeds {
		url := strings.TrimSpace(entry.URL)
		if seen[url] {
			continue
		}
		seen[url] = true
		urls = append(urls, url)
	}

	slog.Debug("Seed file loaded", "path", l.path, "feeds", len(urls))

	return urls, nil
}

func (l *SeedLoader) parseFile() (*SeedFile, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var seedFile SeedFile
	if err := yaml.Unmarshal(data, &seedFile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return &seedFile, nil
}

func (l *SeedLoader) validate(seedFile *SeedFile) error {
	for i, entry := range seedFile.Feeds {
		if strings.TrimSpace(entry.URL) == "" {
			return fmt.Errorf("feed URL at index %d is required", i)
		}
	}
	return nil
}
