// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package pollsource

import (
	"context"

	"github.com/black-desk/fswatch/pkg/source"
	"github.com/black-desk/fswatch/pkg/types"
	. "github.com/black-desk/lib/go/errwrap"
)

// Watch takes the first scan of root.
// Changes are reported against it from the next poll on.
func (s *Source) Watch(root types.WatchRoot) (err error) {
	defer Wrap(&err, "watch %s", root.Path)

	var snap snapshot
	snap, err = s.scan(root)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		err = source.ErrSourceStopped
		return
	}

	s.roots[root.Handle] = &polled{root: root, last: snap}

	s.log.Debugw("Root watched.",
		"root", root.String(),
		"entries", len(snap),
	)

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

// Run scans every root once per interval until ctx is done.
func (s *Source) Run(ctx context.Context, sink source.Sink) (err error) {
	defer Wrap(&err, "run poll source")

	if sink == nil {
		err = source.ErrSinkMissing
		return
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		err = source.ErrSourceStopped
		return
	}
	if s.running {
		s.mu.Unlock()
		err = source.ErrAlreadyRunning
		return
	}
	s.running = true
	s.mu.Unlock()

	ticker := s.clock.Ticker(s.interval)
	defer ticker.Stop()

	s.log.Infow("Poll source started.",
		"interval", s.interval,
	)

LOOP:
	for {
		select {
		case <-ctx.Done():
			break LOOP
		case <-ticker.C:
			s.poll(sink)
		}
	}

	s.mu.Lock()
	s.stopped = true
	s.roots = map[types.WatchHandle]*polled{}
	s.mu.Unlock()

	s.log.Infow("Poll source stopped.")

	err = ctx.Err()
	return
}

func (s *Source) Close() (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running || s.stopped {
		return
	}

	s.stopped = true
	s.roots = map[types.WatchHandle]*polled{}
	return
}
