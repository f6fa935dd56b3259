package feed

import (
	"strings"
	"testing"

	"github.com/lysyi3m/rss-reader/app/state"
)

func TestGenerateRSS(t *testing.T) {
	generator := NewGenerator("http://localhost:8080/rss", "test-version")

	snapshot := state.Snapshot{
		Feeds: []state.Feed{
			{ID: "feed-1", URL: "https://example.com/feed.xml", Title: "Example Feed"},
		},
		Posts: []state.Post{
			{
				ID:          "post-1",
				FeedID:      "feed-1",
				GUID:        "item-1",
				Title:       "Test Item 1",
				Link:        "https://example.com/item1",
				Description: "Test Item 1 Description",
			},
			{
				ID:     "post-2",
				FeedID: "feed-1",
				GUID:   "https://example.com/item2",
				Title:  "Test Item 2 & more",
				Link:   "https://example.com/item2",
			},
		},
	}

	rss, err := generator.Run(snapshot)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(rss, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Error("RSS should contain XML declaration")
	}

	if !strings.Contains(rss, `<rss version="2.0"`) {
		t.Error("RSS should contain RSS 2.0 declaration")
	}

	if !strings.Contains(rss, "<description>Aggregated posts from 1 feeds</description>") {
		t.Error("RSS should contain aggregated description")
	}

	if !strings.Contains(rss, `<atom:link href="http://localhost:8080/rss" rel="self" type="application/rss+xml" />`) {
		t.Error("RSS should contain atom:link self reference")
	}

	if !strings.Contains(rss, "<generator>RSS-Reader/test-version</generator>") {
		t.Error("RSS should contain generator with version")
	}

	if !strings.Contains(rss, `<guid isPermaLink="false">item-1</guid>`) {
		t.Error("RSS should contain first item GUID")
	}

	if !strings.Contains(rss, `<guid isPermaLink="true">https://example.com/item2</guid>`) {
		t.Error("RSS should mark URL GUIDs as permalinks")
	}

	if !strings.Contains(rss, "<title>Test Item 2 &amp; more</title>") {
		t.Error("RSS should escape item titles")
	}

	if !strings.Contains(rss, "<description>No description available</description>") {
		t.Error("RSS should fall back to default description")
	}

	if !strings.Contains(rss, `<source url="https://example.com/feed.xml">Example Feed</source>`) {
		t.Error("RSS should reference the source feed")
	}

	if strings.Index(rss, "Test Item 1") > strings.Index(rss, "Test Item 2") {
		t.Error("RSS should keep snapshot order")
	}

	if !strings.HasSuffix(rss, "</channel>\n</rss>") {
		t.Error("RSS should end with closing channel and rss tags")
	}
}

func TestGenerateEmpty(t *testing.T) {
	rss, err := NewGenerator("", "").Run(state.Snapshot{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if strings.Contains(rss, "<item>") {
		t.Error("Empty snapshot should produce no items")
	}
	if strings.Contains(rss, "atom:link href") {
		t.Error("Self link should be omitted when not configured")
	}
	if !strings.Contains(rss, "<generator>RSS-Reader/dev</generator>") {
		t.Error("Generator should default to dev version")
	}
}
