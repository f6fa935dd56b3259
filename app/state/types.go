package state

import "errors"

var (
	ErrFeedNotFound  = errors.New("feed not found")
	ErrPostNotFound  = errors.New("post not found")
	ErrDuplicateFeed = errors.New("feed with this URL already exists")
)

// Status drives form enablement and feedback styling on the client side.
type Status string

const (
	StatusValid      Status = "valid"
	StatusInvalid    Status = "invalid"
	StatusInProgress Status = "in_progress"
)

type Feedback struct {
	Key     string `json:"key,omitempty"`
	Message string `json:"message,omitempty"`
}

type Feed struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Post is unique within its feed by GUID. ID is assigned locally and is
// what clients use to address the post.
type Post struct {
	ID          string `json:"id"`
	FeedID      string `json:"feed_id"`
	GUID        string `json:"guid"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
	Viewed      bool   `json:"viewed"`
}

// Snapshot is a detached copy of the whole store, feeds and posts newest first.
type Snapshot struct {
	Status   Status   `json:"status"`
	Feedback Feedback `json:"feedback"`
	Feeds    []Feed   `json:"feeds"`
	Posts    []Post   `json:"posts"`
}
