package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/rss-reader/app/metrics"
	"github.com/lysyi3m/rss-reader/app/state"
	"github.com/samber/lo"
)

type PollFeedTask struct {
	Task
	fetcher Fetcher
	parser  Parser
	store   Store
}

func NewPollFeedTask(feedID string, fetcher Fetcher, parser Parser, store Store) *PollFeedTask {
	return &PollFeedTask{
		Task:    NewTask(TaskTypePollFeed, feedID),
		fetcher: fetcher,
		parser:  parser,
		store:   store,
	}
}

// Execute fetches the feed once and merges the posts whose GUID the feed has
// not seen yet. Existing posts, including their viewed flag, are left alone.
func (t *PollFeedTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	subscription, err := t.store.Feed(t.FeedID)
	if err != nil {
		return fmt.Errorf("failed to load feed: %w", err)
	}

	data, err := t.fetcher.Fetch(ctx, subscription.URL)
	if err != nil {
		return fmt.Errorf("failed to fetch feed: %w", err)
	}

	channel, err := t.parser.Run(data)
	if err != nil {
		return fmt.Errorf("failed to parse feed: %w", err)
	}

	posts := channel.Posts()
	known := t.store.KnownGUIDs(t.FeedID)

	skipped := lo.CountBy(posts, func(post state.Post) bool {
		return post.GUID == ""
	})
	if skipped > 0 {
		slog.Warn("Skipping items without guid", "feed", subscription.URL, "count", skipped)
	}

	fresh := lo.Filter(posts, func(post state.Post, _ int) bool {
		if post.GUID == "" {
			return false
		}
		_, seen := known[post.GUID]
		return !seen
	})

	inserted := []state.Post{}
	if len(fresh) > 0 {
		inserted, err = t.store.MergePosts(t.FeedID, fresh)
		if err != nil {
			return fmt.Errorf("failed to merge posts: %w", err)
		}
	}

	metrics.RecordPostsAdded("poll", len(inserted))

	slog.Info("Task completed",
		"type", "PolledFeed",
		"feed", subscription.URL,
		"duration", t.GetDuration(),
		"total", len(posts),
		"duplicates", len(posts)-len(fresh)-skipped,
		"skipped", skipped,
		"new", len(inserted))

	return nil
}
