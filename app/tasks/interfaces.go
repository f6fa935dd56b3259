package tasks

import (
	"context"

	"github.com/lysyi3m/rss-reader/app/feed"
	"github.com/lysyi3m/rss-reader/app/state"
)

// TaskSchedulerInterface drives one polling loop per subscribed feed.
// Example usage:
//
//	scheduler := NewScheduler(store, client, parser, interval)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.Schedule(feed)
type TaskSchedulerInterface interface {
	Start()
	Stop()
	Schedule(feed state.Feed) bool
}

type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type Parser interface {
	Run(data []byte) (*feed.Channel, error)
}

type Store interface {
	Feed(id string) (state.Feed, error)
	KnownGUIDs(feedID string) map[string]struct{}
	MergePosts(feedID string, posts []state.Post) ([]state.Post, error)
}
