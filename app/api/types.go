package api

import (
	"context"

	"github.com/lysyi3m/rss-reader/app/feed"
	"github.com/lysyi3m/rss-reader/app/reader"
	"github.com/lysyi3m/rss-reader/app/state"
)

type GeneratorInterface interface {
	Run(snapshot state.Snapshot) (string, error)
}

var _ GeneratorInterface = (*feed.Generator)(nil)

type ReaderInterface interface {
	Submit(ctx context.Context, url string) (reader.Result, error)
	OpenPreview(postID string) (reader.Preview, error)
}

var _ ReaderInterface = (*reader.Reader)(nil)

type Handler struct {
	store     *state.Store
	reader    ReaderInterface
	generator GeneratorInterface
	version   string
}

type submitRequest struct {
	URL string `json:"url"`
}

type submitResponse struct {
	Status   state.Status   `json:"status"`
	Feedback state.Feedback `json:"feedback"`
	Error    string         `json:"error,omitempty"`
	Feed     *state.Feed    `json:"feed,omitempty"`
}
