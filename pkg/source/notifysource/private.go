// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package notifysource

import (
	"path/filepath"

	"github.com/black-desk/fswatch/pkg/source"
	"github.com/black-desk/fswatch/pkg/types"
	"github.com/rjeczalik/notify"
)

func (s *Source) startLocked(w *watch) {
	sink := s.sink
	s.wg.Go(func() { s.forward(w, sink) })
}

func (s *Source) stopLocked(w *watch) {
	notify.Stop(w.events)
	close(w.done)
}

func (s *Source) forward(w *watch, sink source.Sink) {
	for {
		select {
		case <-w.done:
			return
		case ei := <-w.events:
			if !s.handle(w, sink, ei) {
				return
			}
		}
	}
}

// handle reports whether w is still alive afterwards.
func (s *Source) handle(w *watch, sink source.Sink, ei notify.EventInfo) bool {
	c, ok := convert(ei)
	if !ok {
		s.log.Debugw("Ignore event.",
			"event", ei.Event().String(),
			"path", ei.Path(),
		)
		return true
	}

	path := filepath.Clean(ei.Path())

	if c.vanished && path == w.root.Path {
		s.fail(w, sink, source.ErrRootVanished)
		return false
	}

	if c.overflow {
		s.log.Warnw("Backend asked for a rescan.",
			"root", w.root.String(),
			"path", path,
		)
	}

	sink.OnRawEvent(types.RawEvent{
		Path:   path,
		Kind:   c.kind,
		Time:   s.clock.Now(),
		Cookie: c.cookie,
		Handle: w.root.Handle,
	})

	return true
}

func (s *Source) fail(w *watch, sink source.Sink, reason error) {
	s.mu.Lock()
	if s.watches[w.root.Handle] == w {
		delete(s.watches, w.root.Handle)
		s.stopLocked(w)
	}
	s.mu.Unlock()

	s.log.Errorw("Root lost.",
		"root", w.root.String(),
		"error", reason,
	)

	sink.OnSourceFailure(w.root.Handle, &source.RootError{
		Root: w.root,
		Err:  reason,
	})
}

// converted is a notify event in terms of this module.
type converted struct {
	kind   types.ChangeKind
	cookie uint32
	// vanished is set when the watched directory itself went away.
	vanished bool
	// overflow is set when the backend lost events below the path.
	overflow bool
}
