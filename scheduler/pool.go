package scheduler

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
)

// ErrPoolClosed is returned by Do after Close.
var ErrPoolClosed = errors.New("pool closed")

type job struct {
	fn   func() error
	err  error
	done chan struct{}
}

// Pool runs CPU-bound functions on a fixed set of workers. It bounds how many
// computations run at once, independently of how many tasks a Scheduler keeps
// in flight.
type Pool struct {
	jobs      chan *job
	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
	size      int
}

// NewPool starts workers goroutines. workers <= 0 uses runtime.NumCPU().
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	p := &Pool{
		jobs:   make(chan *job),
		closed: make(chan struct{}),
		size:   workers,
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return p.size
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case j := <-p.jobs:
			j.err = execute(j.fn)
			close(j.done)
		case <-p.closed:
			return
		}
	}
}

func execute(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return fn()
}

// Do runs fn on a worker and waits for it. If ctx ends before a worker picks
// the job up, fn is not run and ctx.Err() is returned; once picked up, Do
// waits for fn to return.
func (p *Pool) Do(ctx context.Context, fn func() error) error {
	j := &job{fn: fn, done: make(chan struct{})}

	select {
	case p.jobs <- j:
	case <-ctx.Done():
		return ctx.Err()
	case <-p.closed:
		return ErrPoolClosed
	}

	<-j.done
	return j.err
}

// Close stops the workers after their current job and waits for them.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.closed)
	})
	p.wg.Wait()
}
