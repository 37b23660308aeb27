package scheduler

import "log/slog"

type settings struct {
	limit    int
	window   int
	logger   *slog.Logger
	progress func(Stats)
	complete any
}

// Option configures a Scheduler.
type Option func(*settings)

// WithLimit sets the maximum number of tasks in flight. Values below 1 mean 1.
func WithLimit(limit int) Option {
	return func(s *settings) {
		s.limit = limit
	}
}

// WithProgress registers a callback fired after every settlement.
func WithProgress(fn func(Stats)) Option {
	return func(s *settings) {
		s.progress = fn
	}
}

// WithComplete registers the completion callback. R must match the
// scheduler's result type.
func WithComplete[R any](fn func([]R)) Option {
	return func(s *settings) {
		s.complete = fn
	}
}

// WithLogger sets the logger used for task failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithWindow sets how many recent latencies feed the moving average.
func WithWindow(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.window = n
		}
	}
}
