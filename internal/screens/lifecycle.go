package screens

import (
	"context"
	"sync/atomic"
)

// Lifecycle is owned by one screen. Its context is cancelled when the screen stops,
// and completions that arrive after that are dropped.
type Lifecycle struct {
	ctx     context.Context
	cancel  context.CancelFunc
	stopped atomic.Bool
}

func NewLifecycle(parent context.Context) *Lifecycle {
	ctx, cancel := context.WithCancel(parent)
	return &Lifecycle{ctx: ctx, cancel: cancel}
}

func (l *Lifecycle) Context() context.Context { return l.ctx }

func (l *Lifecycle) Stop() {
	if l.stopped.CompareAndSwap(false, true) {
		l.cancel()
	}
}

func (l *Lifecycle) Stopped() bool { return l.stopped.Load() }

// runAsync runs work on the executor and hands its result to done on the UI loop,
// unless the lifecycle was stopped in the meantime.
func runAsync[T any](lc *Lifecycle, env *Env, work func(ctx context.Context) (T, error), done func(T, error)) {
	env.Exec.Go(func() {
		result, err := work(lc.Context())
		env.UI.Dispatch(func() {
			if lc.Stopped() {
				return
			}
			done(result, err)
		})
	})
}
