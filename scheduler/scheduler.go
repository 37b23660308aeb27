// Package scheduler runs independent tasks under a concurrency cap.
//
// A Scheduler owns a FIFO queue of work items and dispatches them greedily:
// every Start, Enqueue and task settlement fills free slots until the limit is
// reached or the queue is empty. A failed task (error or panic) is logged and
// dropped from the results; it never aborts the batch.
//
// Progress callbacks fire after every settlement and the completion callback
// fires exactly once when nothing is active and nothing is queued. Callbacks
// are delivered one at a time, in the order the scheduler state changed, and
// without any scheduler lock held, so they may call Stats or Enqueue.
//
//	s := scheduler.New(
//	    scheduler.WithLimit(8),
//	    scheduler.WithProgress(func(st scheduler.Stats) { log.Println(st.Completed, st.ETA()) }),
//	)
//	s.Enqueue(items...)
//	s.Start(ctx, handler)
//	results := s.Wait()
//
// Cancelling the context passed to Start stops dispatch of queued items;
// handlers already running are never interrupted by the scheduler.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

var (
	// ErrAlreadyStarted is returned by a second call to Start.
	ErrAlreadyStarted = errors.New("scheduler already started")
	// ErrCompleted is returned by Enqueue once the batch has completed.
	ErrCompleted = errors.New("scheduler already completed")
	// ErrPanic wraps a value recovered from a panicking task.
	ErrPanic = errors.New("task panicked")
)

// DefaultLimit is used when no limit is configured.
const DefaultLimit = 8

// Handler processes one work item.
type Handler[T, R any] func(ctx context.Context, item T) (R, error)

// Stats is a snapshot of scheduler state.
type Stats struct {
	// Completed counts settled tasks, successful or failed.
	Completed int
	Failed    int
	Total     int
	Active    int
	Queued    int
	// Skipped counts items never dispatched because the context was cancelled.
	Skipped        int
	AverageLatency time.Duration
}

// Remaining is the number of tasks still queued or in flight.
func (s Stats) Remaining() int {
	if r := s.Total - s.Completed - s.Skipped; r > 0 {
		return r
	}
	return 0
}

// ETA estimates the time left as average latency * remaining / max(1, active).
// It assumes uniform task cost and is advisory only.
func (s Stats) ETA() time.Duration {
	rem := s.Remaining()
	if rem == 0 || s.AverageLatency <= 0 {
		return 0
	}
	return s.AverageLatency * time.Duration(rem) / time.Duration(max(1, s.Active))
}

type event[R any] struct {
	stats   Stats
	final   bool
	results []R
}

// Scheduler dispatches work items to a handler with at most limit in flight.
// A Scheduler is single-use.
type Scheduler[T, R any] struct {
	limit      int
	sem        *semaphore.Weighted
	logger     *slog.Logger
	onProgress func(Stats)
	onComplete func([]R)

	mu        sync.Mutex
	ctx       context.Context
	handler   Handler[T, R]
	queue     []T
	active    int
	total     int
	completed int
	failed    int
	skipped   int
	results   []R
	latency   *LatencyWindow
	started   bool
	finished  bool
	events    []event[R]
	emitting  bool
	done      chan struct{}
}

// New creates a scheduler.
func New[T, R any](opts ...Option) *Scheduler[T, R] {
	st := settings{
		limit:  DefaultLimit,
		window: DefaultWindow,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&st)
	}
	if st.limit < 1 {
		st.limit = 1
	}

	s := &Scheduler[T, R]{
		limit:      st.limit,
		sem:        semaphore.NewWeighted(int64(st.limit)),
		logger:     st.logger,
		onProgress: st.progress,
		latency:    NewLatencyWindow(st.window),
		done:       make(chan struct{}),
	}
	if st.complete != nil {
		fn, ok := st.complete.(func([]R))
		if !ok {
			panic(fmt.Sprintf("scheduler: completion callback %T does not accept []%T", st.complete, *new(R)))
		}
		s.onComplete = fn
	}
	return s
}

// Limit returns the concurrency cap.
func (s *Scheduler[T, R]) Limit() int {
	return s.limit
}

// Enqueue appends items to the queue. It may be called before or after Start.
func (s *Scheduler[T, R]) Enqueue(items ...T) error {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return ErrCompleted
	}
	s.queue = append(s.queue, items...)
	s.total += len(items)
	if s.started {
		s.fillLocked()
		s.checkDoneLocked()
	}
	s.emitLocked()
	return nil
}

// Start begins dispatch. It returns immediately; use Wait or Done to observe
// completion.
func (s *Scheduler[T, R]) Start(ctx context.Context, handler Handler[T, R]) error {
	if handler == nil {
		return errors.New("scheduler: nil handler")
	}

	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	if ctx == nil {
		ctx = context.Background()
	}
	s.started = true
	s.ctx = ctx
	s.handler = handler
	s.fillLocked()
	s.checkDoneLocked()
	s.emitLocked()
	return nil
}

// Stats returns a snapshot of the current state.
func (s *Scheduler[T, R]) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statsLocked()
}

// Done is closed after the completion callback has returned.
func (s *Scheduler[T, R]) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until completion and returns the results in completion order.
func (s *Scheduler[T, R]) Wait() []R {
	<-s.done
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]R, len(s.results))
	copy(out, s.results)
	return out
}

func (s *Scheduler[T, R]) statsLocked() Stats {
	return Stats{
		Completed:      s.completed,
		Failed:         s.failed,
		Total:          s.total,
		Active:         s.active,
		Queued:         len(s.queue),
		Skipped:        s.skipped,
		AverageLatency: s.latency.Average(),
	}
}

// fillLocked dispatches queued items while the semaphore grants slots. The
// context is only consulted here. active mirrors the held slots for Stats.
func (s *Scheduler[T, R]) fillLocked() {
	for len(s.queue) > 0 {
		if s.ctx.Err() != nil {
			s.logger.Debug("dispatch stopped", "skipped", len(s.queue), "err", s.ctx.Err())
			s.skipped += len(s.queue)
			s.queue = nil
			return
		}
		if !s.sem.TryAcquire(1) {
			return
		}

		item := s.queue[0]
		var zero T
		s.queue[0] = zero
		s.queue = s.queue[1:]
		s.active++

		go s.run(item)
	}
}

func (s *Scheduler[T, R]) checkDoneLocked() {
	if !s.started || s.finished || s.active != 0 || len(s.queue) != 0 {
		return
	}
	s.finished = true

	results := make([]R, len(s.results))
	copy(results, s.results)
	s.events = append(s.events, event[R]{stats: s.statsLocked(), final: true, results: results})
}

func (s *Scheduler[T, R]) run(item T) {
	start := time.Now()
	res, err := s.invoke(item)
	elapsed := time.Since(start)

	if err != nil {
		s.logger.Warn("task failed", "err", err, "elapsed", elapsed)
	}

	s.mu.Lock()
	s.active--
	s.sem.Release(1)
	s.completed++
	if err != nil {
		s.failed++
	} else {
		s.results = append(s.results, res)
	}
	s.latency.Add(elapsed)
	s.events = append(s.events, event[R]{stats: s.statsLocked()})

	s.fillLocked()
	s.checkDoneLocked()
	s.emitLocked()
}

func (s *Scheduler[T, R]) invoke(item T) (res R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return s.handler(s.ctx, item)
}

// emitLocked delivers pending events and releases s.mu. Only one goroutine
// emits at a time; others leave their events for the active emitter, which
// keeps delivery ordered without holding s.mu during callbacks.
func (s *Scheduler[T, R]) emitLocked() {
	if s.emitting {
		s.mu.Unlock()
		return
	}
	s.emitting = true
	for len(s.events) > 0 {
		ev := s.events[0]
		s.events[0] = event[R]{}
		s.events = s.events[1:]
		s.mu.Unlock()

		s.deliver(ev)

		s.mu.Lock()
	}
	s.emitting = false
	s.mu.Unlock()
}

func (s *Scheduler[T, R]) deliver(ev event[R]) {
	if !ev.final {
		if s.onProgress != nil {
			s.onProgress(ev.stats)
		}
		return
	}

	s.logger.Debug("batch complete",
		"total", ev.stats.Total,
		"failed", ev.stats.Failed,
		"skipped", ev.stats.Skipped,
		"results", len(ev.results))
	if s.onComplete != nil {
		s.onComplete(ev.results)
	}
	close(s.done)
}

// Run enqueues items, starts the scheduler and waits for completion.
func Run[T, R any](ctx context.Context, items []T, handler Handler[T, R], opts ...Option) ([]R, Stats, error) {
	s := New[T, R](opts...)
	if err := s.Enqueue(items...); err != nil {
		return nil, Stats{}, err
	}
	if err := s.Start(ctx, handler); err != nil {
		return nil, Stats{}, err
	}
	results := s.Wait()
	return results, s.Stats(), nil
}
