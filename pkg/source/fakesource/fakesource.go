// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package fakesource provides a Source driven by hand,
// for tests of code built on top of a source.
package fakesource

import (
	"context"
	"sync"

	"github.com/black-desk/fswatch/pkg/source"
	"github.com/black-desk/fswatch/pkg/types"
	. "github.com/black-desk/lib/go/errwrap"
	"golang.org/x/exp/maps"
)

type Source struct {
	mu       sync.Mutex
	roots    map[types.WatchHandle]types.WatchRoot
	sink     source.Sink
	stopped  bool
	closed   bool
	watchErr error

	ready chan struct{}
}

var _ source.Source = (*Source)(nil)

func New() *Source {
	return &Source{
		roots: map[types.WatchHandle]types.WatchRoot{},
		ready: make(chan struct{}),
	}
}

// FailWatch makes every following Watch return err.
func (s *Source) FailWatch(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.watchErr = err
}

func (s *Source) Watch(root types.WatchRoot) (err error) {
	defer Wrap(&err, "watch %s", root.Path)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		err = source.ErrSourceStopped
		return
	}

	if s.watchErr != nil {
		err = s.watchErr
		return
	}

	s.roots[root.Handle] = root
	return
}

func (s *Source) Unwatch(root types.WatchRoot) (err error) {
	defer Wrap(&err, "unwatch %s", root.Path)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.roots[root.Handle]; !ok {
		err = source.ErrNotWatched
		return
	}

	delete(s.roots, root.Handle)
	return
}

func (s *Source) Run(ctx context.Context, sink source.Sink) (err error) {
	defer Wrap(&err, "run fake source")

	if sink == nil {
		err = source.ErrSinkMissing
		return
	}

	s.mu.Lock()
	if s.sink != nil {
		s.mu.Unlock()
		err = source.ErrAlreadyRunning
		return
	}
	s.sink = sink
	s.mu.Unlock()

	close(s.ready)

	<-ctx.Done()

	s.mu.Lock()
	s.stopped = true
	s.roots = map[types.WatchHandle]types.WatchRoot{}
	s.mu.Unlock()

	err = ctx.Err()
	return
}

func (s *Source) Close() (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sink != nil || s.stopped {
		return
	}

	s.stopped = true
	s.closed = true
	s.roots = map[types.WatchHandle]types.WatchRoot{}
	return
}

// Closed reports whether Close released the source before it ran.
func (s *Source) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}

// Ready is closed once Run has got its sink.
func (s *Source) Ready() <-chan struct{} {
	return s.ready
}

// Watched returns the roots currently watched.
func (s *Source) Watched() []types.WatchRoot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return maps.Values(s.roots)
}

// Emit passes ev to the sink as if the platform reported it.
// It must not be called before Ready is closed.
func (s *Source) Emit(ev types.RawEvent) {
	s.mu.Lock()
	sink := s.sink
	s.mu.Unlock()

	sink.OnRawEvent(ev)
}

// Fail reports that root can no longer be observed.
func (s *Source) Fail(handle types.WatchHandle, reason error) {
	s.mu.Lock()
	root, ok := s.roots[handle]
	delete(s.roots, handle)
	sink := s.sink
	s.mu.Unlock()

	if !ok {
		root = types.WatchRoot{Handle: handle}
	}

	sink.OnSourceFailure(handle, &source.RootError{
		Root: root,
		Err:  reason,
	})
}
