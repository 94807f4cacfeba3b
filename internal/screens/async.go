package screens

import (
	"context"
	"sync"
)

// Executor runs blocking work away from the UI loop
type Executor interface {
	Go(work func())
}

// Dispatcher delivers a completion onto the UI loop
type Dispatcher interface {
	Dispatch(task func())
}

type goExecutor struct{}

func (goExecutor) Go(work func()) { go work() }

// GoExecutor starts one goroutine per call
func GoExecutor() Executor { return goExecutor{} }

// Inline runs work and completions immediately on the calling goroutine. Used by tests and scripts.
type Inline struct{}

func (Inline) Go(work func())       { work() }
func (Inline) Dispatch(task func()) { task() }

// Loop is a single goroutine draining a task queue. Every screen method and completion runs on it.
type Loop struct {
	tasks chan func()
	done  chan struct{}
	once  sync.Once
}

func NewLoop() *Loop {
	return &Loop{
		tasks: make(chan func(), 64),
		done:  make(chan struct{}),
	}
}

// Dispatch queues a task. Tasks sent after the loop stopped are discarded.
func (l *Loop) Dispatch(task func()) {
	select {
	case l.tasks <- task:
	case <-l.done:
	}
}

// Run drains the queue until ctx is cancelled or Quit is called
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			l.Quit()
			return
		case <-l.done:
			return
		case task := <-l.tasks:
			task()
		}
	}
}

func (l *Loop) Quit() {
	l.once.Do(func() { close(l.done) })
}
