// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package notifysource

import (
	"context"
	"path/filepath"

	"github.com/black-desk/fswatch/pkg/source"
	"github.com/black-desk/fswatch/pkg/types"
	. "github.com/black-desk/lib/go/errwrap"
	"github.com/rjeczalik/notify"
)

// Watch starts watching root.
// Watching a handle again replaces the previous watch,
// which is how a root gets upgraded to recursive.
func (s *Source) Watch(root types.WatchRoot) (err error) {
	defer Wrap(&err, "watch %s", root.Path)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		err = source.ErrSourceStopped
		return
	}

	if old, ok := s.watches[root.Handle]; ok {
		delete(s.watches, root.Handle)
		s.stopLocked(old)
	}

	w := &watch{
		root:   root,
		events: make(chan notify.EventInfo, s.bufferSize),
		done:   make(chan struct{}),
	}

	path := root.Path
	if root.Recursive {
		path = filepath.Join(path, "...")
	}

	err = notify.Watch(path, w.events, watchEvents...)
	if err != nil {
		return
	}

	s.watches[root.Handle] = w

	if s.sink != nil {
		s.startLocked(w)
	}

	s.log.Debugw("Root watched.",
		"root", root.String(),
	)

	return
}

func (s *Source) Unwatch(root types.WatchRoot) (err error) {
	defer Wrap(&err, "unwatch %s", root.Path)

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.watches[root.Handle]
	if !ok {
		err = source.ErrNotWatched
		return
	}

	delete(s.watches, root.Handle)
	s.stopLocked(w)

	s.log.Debugw("Root unwatched.",
		"root", root.String(),
	)

	return
}

func (s *Source) Run(ctx context.Context, sink source.Sink) (err error) {
	defer Wrap(&err, "run notify source")

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
	if s.sink != nil {
		s.mu.Unlock()
		err = source.ErrAlreadyRunning
		return
	}

	s.sink = sink
	for _, w := range s.watches {
		s.startLocked(w)
	}
	count := len(s.watches)
	s.mu.Unlock()

	s.log.Infow("Notify source started.",
		"roots", count,
	)

	<-ctx.Done()

	s.mu.Lock()
	s.stopped = true
	for handle, w := range s.watches {
		delete(s.watches, handle)
		s.stopLocked(w)
	}
	s.mu.Unlock()

	s.wg.Wait()

	s.log.Infow("Notify source stopped.")

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
	for handle, w := range s.watches {
		delete(s.watches, handle)
		s.stopLocked(w)
	}

	s.log.Debugw("Notify source closed without running.")
	return
}
