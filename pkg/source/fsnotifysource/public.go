// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package fsnotifysource

import (
	"context"
	"errors"

	"github.com/black-desk/fswatch/pkg/source"
	"github.com/black-desk/fswatch/pkg/types"
	. "github.com/black-desk/lib/go/errwrap"
	"github.com/fsnotify/fsnotify"
)

// Watch starts watching root.
// Watching a handle again replaces the previous watch.
func (s *Source) Watch(root types.WatchRoot) (err error) {
	defer Wrap(&err, "watch %s", root.Path)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		err = source.ErrSourceStopped
		return
	}

	if _, ok := s.roots[root.Handle]; ok {
		s.releaseLocked(root.Handle)
	}

	err = s.addDirLocked(root.Path, root.Handle)
	if err != nil {
		return
	}

	s.roots[root.Handle] = root

	if root.Recursive {
		s.addTreeLocked(root.Path, root.Handle, nil)
	}

	s.log.Debugw("Root watched.",
		"root", root.String(),
		"directories", len(s.dirs),
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

	s.releaseLocked(root.Handle)

	s.log.Debugw("Root unwatched.",
		"root", root.String(),
		"directories", len(s.dirs),
	)

	return
}

func (s *Source) Run(ctx context.Context, sink source.Sink) (err error) {
	defer Wrap(&err, "run fsnotify source")

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

	defer s.stop()

	s.log.Infow("Fsnotify source started.")

LOOP:
	for {
		select {
		case <-ctx.Done():
			break LOOP
		case ev, ok := <-s.watcher.Events:
			if !ok {
				break LOOP
			}
			s.handleEvent(sink, ev)
		case watchErr, ok := <-s.watcher.Errors:
			if !ok {
				break LOOP
			}
			if errors.Is(watchErr, fsnotify.ErrEventOverflow) {
				s.handleOverflow(sink)
				continue
			}
			s.failAll(sink, watchErr)
		}
	}

	s.log.Infow("Fsnotify source stopped.")

	err = ctx.Err()
	return
}

func (s *Source) Close() (err error) {
	s.mu.Lock()
	if s.running || s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	s.stop()

	s.log.Debugw("Fsnotify source closed without running.")
	return
}
