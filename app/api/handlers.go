package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/rss-reader/app/feed"
	"github.com/lysyi3m/rss-reader/app/state"
)

func NewHandler(store *state.Store, reader ReaderInterface, generator GeneratorInterface, version string) *Handler {
	return &Handler{
		store:     store,
		reader:    reader,
		generator: generator,
		version:   version,
	}
}

func (h *Handler) GetRSS(c *gin.Context) {
	snapshot := h.store.Snapshot()

	rss, err := h.generator.Run(snapshot)
	if err != nil {
		slog.Error("RSS generation error", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(snapshot.Posts)))
	c.Header("X-Feed-Count", strconv.Itoa(len(snapshot.Feeds)))

	c.String(http.StatusOK, rss)
}

func (h *Handler) GetHealth(c *gin.Context) {
	status, _ := h.store.Status()

	c.JSON(http.StatusOK, gin.H{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   h.version,
		"feeds":     h.store.FeedCount(),
		"posts":     h.store.PostCount(),
		"status":    status,
	})
}

func (h *Handler) APIGetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Snapshot())
}

func (h *Handler) APISubmitFeed(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	result, err := h.reader.Submit(c.Request.Context(), req.URL)
	if err != nil {
		kind, ok := feed.KindOf(err)
		if !ok {
			kind = feed.KindNetwork
		}

		c.JSON(statusForKind(kind), submitResponse{
			Status:   result.Status,
			Feedback: result.Feedback,
			Error:    string(kind),
		})
		return
	}

	c.JSON(http.StatusCreated, submitResponse{
		Status:   result.Status,
		Feedback: result.Feedback,
		Feed:     &result.Feed,
	})
}

func (h *Handler) APIOpenPreview(c *gin.Context) {
	postID := c.Param("id")

	preview, err := h.reader.OpenPreview(postID)
	if errors.Is(err, state.ErrPostNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		slog.Error("Preview error", "post_id", postID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open preview"})
		return
	}

	c.JSON(http.StatusOK, preview)
}

// APIStreamEvents pushes a full snapshot on connect and after every store
// mutation. Bursts of mutations collapse into a single event.
func (h *Handler) APIStreamEvents(c *gin.Context) {
	updates := make(chan struct{}, 1)
	unsubscribe := h.store.Subscribe(func() {
		select {
		case updates <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	c.SSEvent("state", h.store.Snapshot())
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case <-updates:
			c.SSEvent("state", h.store.Snapshot())
			return true
		}
	})
}

func statusForKind(kind feed.Kind) int {
	switch kind {
	case feed.KindBlank, feed.KindMalformedURL, feed.KindParsing:
		return http.StatusUnprocessableEntity
	case feed.KindDuplicate:
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}
