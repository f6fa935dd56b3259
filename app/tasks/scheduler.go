package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/rss-reader/app/metrics"
	"github.com/lysyi3m/rss-reader/app/state"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

const defaultCycleTimeout = 5 * time.Minute

// Scheduler runs an independent polling loop per feed. A loop waits one
// interval after the previous cycle completes, so cycles of the same feed
// never overlap and a failing cycle never stops the loop.
type Scheduler struct {
	store        Store
	fetcher      Fetcher
	parser       Parser
	interval     time.Duration
	cycleTimeout time.Duration
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup

	mu      sync.Mutex
	started bool
	loops   map[string]struct{}
	pending []string
}

func NewScheduler(store Store, fetcher Fetcher, parser Parser, interval time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		store:        store,
		fetcher:      fetcher,
		parser:       parser,
		interval:     interval,
		cycleTimeout: defaultCycleTimeout,
		ctx:          ctx,
		cancel:       cancel,
		loops:        make(map[string]struct{}),
	}
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.started = true

	slog.Debug("Starting polling loops", "count", len(s.pending), "interval", s.interval)

	for _, feedID := range s.pending {
		s.launch(feedID)
	}
	s.pending = nil
}

func (s *Scheduler) Stop() {
	// Under mu so that no Schedule call can launch a loop once Wait begins.
	s.mu.Lock()
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()
}

// Schedule registers a polling loop for the feed. It returns false when the
// feed already has one or the scheduler has been stopped.
func (s *Scheduler) Schedule(feed state.Feed) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx.Err() != nil {
		return false
	}
	if _, ok := s.loops[feed.ID]; ok {
		return false
	}
	s.loops[feed.ID] = struct{}{}

	if !s.started {
		s.pending = append(s.pending, feed.ID)
		return true
	}

	s.launch(feed.ID)
	return true
}

// launch must be called with mu held.
func (s *Scheduler) launch(feedID string) {
	s.wg.Add(1)
	go s.loop(feedID)
}

func (s *Scheduler) loop(feedID string) {
	defer s.wg.Done()

	metrics.PolledFeeds.Inc()
	defer metrics.PolledFeeds.Dec()

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-timer.C:
			s.executeTask(NewPollFeedTask(feedID, s.fetcher, s.parser, s.store))
			timer.Reset(s.interval)
		}
	}
}

func (s *Scheduler) executeTask(task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, s.cycleTimeout)
	defer cancel()

	err := s.runTask(taskCtx, task)
	metrics.RecordPollCycle(err == nil, task.GetDuration())

	if err != nil {
		if s.ctx.Err() != nil {
			slog.Debug("Scheduler stopped during task", "type", string(task.GetType()), "feed_id", task.GetFeedID())
			return
		}
		slog.Error("Task execution failed", "type", string(task.GetType()), "id", task.GetID(), "feed_id", task.GetFeedID(), "error", err)
	}
}

func (s *Scheduler) runTask(ctx context.Context, task TaskInterface) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()

	return task.Execute(ctx)
}
