// Package multierr runs a group of functions concurrently and collects
// every error they return, rather than stopping at the first.
package multierr

import (
	"context"
	"errors"
	"sync"
)

// MultiErr is a group of goroutines. The zero value is not usable;
// create one with WithContext.
type MultiErr struct {
	wg     sync.WaitGroup
	cancel context.CancelFunc
	sem    chan struct{}

	errs []error
	merr sync.Mutex
}

// WithContext returns a new group and a context derived from ctx that
// is cancelled once Wait returns. If limit is positive, at most limit
// functions run at once.
func WithContext(ctx context.Context, limit int) (*MultiErr, context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	me := &MultiErr{cancel: cancel}
	if limit > 0 {
		me.sem = make(chan struct{}, limit)
	}
	return me, ctx
}

// Go runs f in a new goroutine, blocking first if the group is at its
// limit.
func (me *MultiErr) Go(f func() error) {
	if me.sem != nil {
		me.sem <- struct{}{}
	}

	me.wg.Add(1)
	go func() {
		defer me.wg.Done()
		if me.sem != nil {
			defer func() { <-me.sem }()
		}

		err := f()
		if err != nil {
			me.merr.Lock()
			me.errs = append(me.errs, err)
			me.merr.Unlock()
		}
	}()
}

// Wait blocks until every function has returned and returns their
// errors in the order they occurred.
func (me *MultiErr) Wait() (errs []error) {
	defer me.cancel()

	me.wg.Wait()

	me.merr.Lock()
	errs = me.errs
	me.errs = nil
	me.merr.Unlock()

	return errs
}

// Err is like Wait, but joins the errors into one.
func (me *MultiErr) Err() error {
	return errors.Join(me.Wait()...)
}
