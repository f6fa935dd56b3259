// Package reader implements the two user intents: subscribing to a feed and
// opening a post preview.
package reader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/rss-reader/app/feed"
	"github.com/lysyi3m/rss-reader/app/i18n"
	"github.com/lysyi3m/rss-reader/app/metrics"
	"github.com/lysyi3m/rss-reader/app/state"
)

type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type Parser interface {
	Run(data []byte) (*feed.Channel, error)
}

type Scheduler interface {
	Schedule(feed state.Feed) bool
}

type Preview struct {
	Post      state.Post `json:"post"`
	FeedTitle string     `json:"feed_title"`
	Text      string     `json:"text"`
}

type Reader struct {
	store      *state.Store
	validator  *feed.Validator
	previewer  *feed.Previewer
	fetcher    Fetcher
	parser     Parser
	scheduler  Scheduler
	translator *i18n.Translator
}

func New(store *state.Store, fetcher Fetcher, parser Parser, scheduler Scheduler, translator *i18n.Translator) *Reader {
	return &Reader{
		store:      store,
		validator:  feed.NewValidator(),
		previewer:  feed.NewPreviewer(),
		fetcher:    fetcher,
		parser:     parser,
		scheduler:  scheduler,
		translator: translator,
	}
}

// Result is the outcome of one submission: the status and feedback it set
// and, on success, the new feed.
type Result struct {
	Status   state.Status
	Feedback state.Feedback
	Feed     state.Feed
}

// Submit subscribes to the feed at rawURL. Status moves to in_progress and
// ends as valid with the success message or invalid with the message of the
// failure kind. Nothing is created when any step fails.
func (r *Reader) Submit(ctx context.Context, rawURL string) (Result, error) {
	r.store.SetStatus(state.StatusInProgress, state.Feedback{})

	subscription, err := r.subscribe(ctx, rawURL)
	if err != nil {
		kind, ok := feed.KindOf(err)
		if !ok {
			kind = feed.KindNetwork
			err = feed.NewError(kind, err)
		}

		slog.Warn("Subscription rejected", "url", rawURL, "kind", string(kind), "error", err)
		metrics.RecordSubmission(string(kind))

		result := Result{Status: state.StatusInvalid, Feedback: r.feedback(kind.MessageKey())}
		r.store.SetStatus(result.Status, result.Feedback)
		return result, err
	}

	metrics.RecordSubmission("success")

	result := Result{Status: state.StatusValid, Feedback: r.feedback(i18n.KeySuccess), Feed: subscription}
	r.store.SetStatus(result.Status, result.Feedback)

	if !r.scheduler.Schedule(subscription) {
		slog.Debug("Feed already scheduled", "feed", subscription.URL)
	}

	return result, nil
}

func (r *Reader) subscribe(ctx context.Context, rawURL string) (state.Feed, error) {
	url, err := r.validator.Run(rawURL, r.store.SubscribedURLs())
	if err != nil {
		return state.Feed{}, err
	}

	data, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		return state.Feed{}, err
	}

	channel, err := r.parser.Run(data)
	if err != nil {
		return state.Feed{}, err
	}

	subscription, posts, err := r.store.AddFeed(state.Feed{
		URL:         url,
		Title:       channel.Title,
		Description: channel.Description,
	}, channel.Posts())
	if errors.Is(err, state.ErrDuplicateFeed) {
		return state.Feed{}, feed.NewError(feed.KindDuplicate, err)
	}
	if err != nil {
		return state.Feed{}, fmt.Errorf("failed to store feed: %w", err)
	}

	metrics.RecordPostsAdded("submission", len(posts))

	slog.Info("Feed subscribed",
		"feed", subscription.URL,
		"title", subscription.Title,
		"posts", len(posts),
		"skipped", len(channel.Items)-len(posts))

	return subscription, nil
}

// OpenPreview marks the post viewed and returns it with a plain-text
// rendering of its description. Opening it again changes nothing.
func (r *Reader) OpenPreview(postID string) (Preview, error) {
	post, changed, err := r.store.MarkViewed(postID)
	if err != nil {
		return Preview{}, err
	}

	if changed {
		slog.Debug("Post viewed", "post_id", post.ID, "feed_id", post.FeedID)
	}

	preview := Preview{
		Post: post,
		Text: r.previewer.Run(post.Description),
	}

	if source, err := r.store.Feed(post.FeedID); err == nil {
		preview.FeedTitle = source.Title
	}

	return preview, nil
}

func (r *Reader) feedback(key string) state.Feedback {
	return state.Feedback{Key: key, Message: r.translator.T(key)}
}
