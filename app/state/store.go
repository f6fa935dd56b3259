package state

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Store is the single mutable source of truth. Every mutation that changes
// state notifies subscribers synchronously once the write lock is released;
// subscribers receive no payload and are expected to re-read what they need.
type Store struct {
	mu       sync.RWMutex
	status   Status
	feedback Feedback
	feeds    []*Feed
	posts    []*Post
	feedByID map[string]*Feed
	postByID map[string]*Post
	feedURLs map[string]string
	guids    map[string]map[string]struct{}

	observersMu  sync.Mutex
	observers    map[int]func()
	nextObserver int
}

func NewStore() *Store {
	return &Store{
		status:    StatusValid,
		feedByID:  make(map[string]*Feed),
		postByID:  make(map[string]*Post),
		feedURLs:  make(map[string]string),
		guids:     make(map[string]map[string]struct{}),
		observers: make(map[int]func()),
	}
}

// Subscribe registers fn to be called after each mutation and returns a
// function that removes it.
func (s *Store) Subscribe(fn func()) func() {
	s.observersMu.Lock()
	defer s.observersMu.Unlock()

	id := s.nextObserver
	s.nextObserver++
	s.observers[id] = fn

	return func() {
		s.observersMu.Lock()
		defer s.observersMu.Unlock()
		delete(s.observers, id)
	}
}

func (s *Store) notify() {
	s.observersMu.Lock()
	observers := lo.Values(s.observers)
	s.observersMu.Unlock()

	for _, fn := range observers {
		fn()
	}
}

func (s *Store) SetStatus(status Status, feedback Feedback) {
	s.mu.Lock()
	s.status = status
	s.feedback = feedback
	s.mu.Unlock()

	s.notify()
}

// AddFeed inserts a feed together with its initial posts in one mutation, so
// observers never see the posts without their feed.
func (s *Store) AddFeed(feed Feed, posts []Post) (Feed, []Post, error) {
	s.mu.Lock()

	if _, exists := s.feedURLs[feed.URL]; exists {
		s.mu.Unlock()
		return Feed{}, nil, fmt.Errorf("%w: %s", ErrDuplicateFeed, feed.URL)
	}

	if feed.ID == "" {
		feed.ID = uuid.NewString()
	}

	stored := feed
	s.feeds = append([]*Feed{&stored}, s.feeds...)
	s.feedByID[stored.ID] = &stored
	s.feedURLs[stored.URL] = stored.ID
	s.guids[stored.ID] = make(map[string]struct{})

	inserted := s.insertPosts(stored.ID, posts)
	s.mu.Unlock()

	s.notify()

	return stored, inserted, nil
}

// MergePosts inserts the posts whose GUID is not yet known for the feed and
// returns the inserted ones. Posts with an empty GUID are skipped. Merging the
// same batch again inserts nothing.
func (s *Store) MergePosts(feedID string, posts []Post) ([]Post, error) {
	s.mu.Lock()

	if _, ok := s.feedByID[feedID]; !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrFeedNotFound, feedID)
	}

	inserted := s.insertPosts(feedID, posts)
	s.mu.Unlock()

	if len(inserted) > 0 {
		s.notify()
	}

	return inserted, nil
}

// insertPosts must be called with the write lock held.
func (s *Store) insertPosts(feedID string, posts []Post) []Post {
	known := s.guids[feedID]

	batch := make([]*Post, 0, len(posts))
	inserted := make([]Post, 0, len(posts))
	for _, post := range posts {
		if post.GUID == "" {
			continue
		}
		if _, seen := known[post.GUID]; seen {
			continue
		}
		known[post.GUID] = struct{}{}

		stored := post
		stored.ID = uuid.NewString()
		stored.FeedID = feedID
		stored.Viewed = false

		batch = append(batch, &stored)
		s.postByID[stored.ID] = &stored
		inserted = append(inserted, stored)
	}

	if len(batch) > 0 {
		s.posts = append(batch, s.posts...)
	}

	return inserted
}

// MarkViewed sets the viewed flag of a post. It reports whether the flag
// changed; marking an already viewed post leaves the store untouched.
func (s *Store) MarkViewed(postID string) (Post, bool, error) {
	s.mu.Lock()

	post, ok := s.postByID[postID]
	if !ok {
		s.mu.Unlock()
		return Post{}, false, fmt.Errorf("%w: %s", ErrPostNotFound, postID)
	}

	if post.Viewed {
		result := *post
		s.mu.Unlock()
		return result, false, nil
	}

	post.Viewed = true
	result := *post
	s.mu.Unlock()

	s.notify()

	return result, true, nil
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Status:   s.status,
		Feedback: s.feedback,
		Feeds:    lo.Map(s.feeds, func(f *Feed, _ int) Feed { return *f }),
		Posts:    lo.Map(s.posts, func(p *Post, _ int) Post { return *p }),
	}
}

func (s *Store) Status() (Status, Feedback) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status, s.feedback
}

// SubscribedURLs returns the subscription set, newest feed first.
func (s *Store) SubscribedURLs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Map(s.feeds, func(f *Feed, _ int) string { return f.URL })
}

// KnownGUIDs returns a copy of the GUIDs already stored for the feed.
func (s *Store) KnownGUIDs(feedID string) map[string]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	known := make(map[string]struct{}, len(s.guids[feedID]))
	for guid := range s.guids[feedID] {
		known[guid] = struct{}{}
	}
	return known
}

func (s *Store) Feed(id string) (Feed, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	feed, ok := s.feedByID[id]
	if !ok {
		return Feed{}, fmt.Errorf("%w: %s", ErrFeedNotFound, id)
	}
	return *feed, nil
}

func (s *Store) Post(id string) (Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.postByID[id]
	if !ok {
		return Post{}, fmt.Errorf("%w: %s", ErrPostNotFound, id)
	}
	return *post, nil
}

func (s *Store) FeedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.feeds)
}

func (s *Store) PostCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}
