// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package fsnotifysource

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/black-desk/fswatch/pkg/source"
	"github.com/black-desk/fswatch/pkg/types"
	"github.com/fsnotify/fsnotify"
)

func (s *Source) addDirLocked(dir string, handle types.WatchHandle) (err error) {
	owners, ok := s.dirs[dir]
	if !ok {
		err = s.watcher.Add(dir)
		if err != nil {
			return
		}

		owners = map[types.WatchHandle]struct{}{}
		s.dirs[dir] = owners
	}

	owners[handle] = struct{}{}
	return
}

// addTreeLocked watches every directory below dir for handle.
// found is called with every entry below dir.
func (s *Source) addTreeLocked(dir string, handle types.WatchHandle, found func(path string)) {
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.log.Debugw("Skip entry while walking directory tree.",
				"path", path,
				"error", err,
			)
			return nil
		}

		if path == dir {
			return nil
		}

		if found != nil {
			found(path)
		}

		if !d.IsDir() {
			return nil
		}

		err = s.addDirLocked(path, handle)
		if err != nil {
			s.log.Warnw("Failed to watch directory.",
				"path", path,
				"error", err,
			)
		}

		return nil
	})
	if walkErr != nil {
		s.log.Warnw("Failed to walk directory tree.",
			"path", dir,
			"error", walkErr,
		)
	}
}

func (s *Source) releaseLocked(handle types.WatchHandle) {
	delete(s.roots, handle)

	for dir, owners := range s.dirs {
		if _, ok := owners[handle]; !ok {
			continue
		}

		delete(owners, handle)
		if len(owners) > 0 {
			continue
		}

		delete(s.dirs, dir)

		err := s.watcher.Remove(dir)
		if err != nil {
			s.log.Debugw("Failed to remove watch.",
				"path", dir,
				"error", err,
			)
		}
	}
}

func (s *Source) emit(sink source.Sink, path string, kind types.ChangeKind) {
	sink.OnRawEvent(types.RawEvent{
		Path: path,
		Kind: kind,
		Time: s.clock.Now(),
	})
}

func (s *Source) handleEvent(sink source.Sink, ev fsnotify.Event) {
	path := filepath.Clean(ev.Name)

	s.log.Debugw("Fsnotify event.",
		"path", path,
		"op", ev.Op.String(),
	)

	switch {
	case ev.Has(fsnotify.Create):
		s.emit(sink, path, types.ChangeKindCreated)
		s.expand(sink, path)
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		kind := types.ChangeKindRemoved
		if ev.Has(fsnotify.Rename) {
			kind = types.ChangeKindRenamedFrom
		}

		if s.vanished(sink, path) {
			if !s.watched(filepath.Dir(path)) {
				return
			}
		} else {
			s.forget(path)
		}

		s.emit(sink, path, kind)
	case ev.Has(fsnotify.Write), ev.Has(fsnotify.Chmod):
		s.emit(sink, path, types.ChangeKindModified)
	}
}

func (s *Source) watched(dir string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.dirs[dir]) > 0
}

// expand watches a directory created below a recursive root.
// Entries created before the watch was in place are reported as created.
func (s *Source) expand(sink source.Sink, path string) {
	info, err := os.Lstat(path)
	if err != nil || !info.IsDir() {
		return
	}

	found := []string{}

	s.mu.Lock()
	for handle := range s.dirs[filepath.Dir(path)] {
		if !s.roots[handle].Recursive {
			continue
		}

		err = s.addDirLocked(path, handle)
		if err != nil {
			s.log.Warnw("Failed to watch new directory.",
				"path", path,
				"error", err,
			)
			continue
		}

		s.addTreeLocked(path, handle, func(entry string) {
			found = append(found, entry)
		})
	}
	s.mu.Unlock()

	seen := map[string]struct{}{}
	for _, entry := range found {
		if _, ok := seen[entry]; ok {
			continue
		}
		seen[entry] = struct{}{}

		s.emit(sink, entry, types.ChangeKindCreated)
	}
}

// forget drops the watches of a directory which was removed or moved away,
// together with every directory below it.
func (s *Source) forget(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := path + string(filepath.Separator)

	for dir := range s.dirs {
		if dir != path && !strings.HasPrefix(dir, prefix) {
			continue
		}

		delete(s.dirs, dir)

		// Removed directories lose their watch on their own.
		_ = s.watcher.Remove(dir)
	}
}

// vanished reports roots located at path as failed.
func (s *Source) vanished(sink source.Sink, path string) bool {
	lost := []types.WatchRoot{}

	s.mu.Lock()
	for _, root := range s.roots {
		if root.Path != path {
			continue
		}

		lost = append(lost, root)
		s.releaseLocked(root.Handle)
	}
	s.mu.Unlock()

	for _, root := range lost {
		s.log.Errorw("Root lost.",
			"root", root.String(),
		)

		sink.OnSourceFailure(root.Handle, &source.RootError{
			Root: root,
			Err:  source.ErrRootVanished,
		})
	}

	return len(lost) > 0
}

func (s *Source) handleOverflow(sink source.Sink) {
	s.mu.Lock()
	roots := make([]types.WatchRoot, 0, len(s.roots))
	for _, root := range s.roots {
		roots = append(roots, root)
	}
	s.mu.Unlock()

	s.log.Warnw("Fsnotify event queue overflowed, roots need a rescan.",
		"roots", len(roots),
	)

	for _, root := range roots {
		sink.OnRawEvent(types.RawEvent{
			Path:   root.Path,
			Kind:   types.ChangeKindUnknown,
			Time:   s.clock.Now(),
			Handle: root.Handle,
		})
	}
}

func (s *Source) failAll(sink source.Sink, reason error) {
	s.mu.Lock()
	lost := make([]types.WatchRoot, 0, len(s.roots))
	for _, root := range s.roots {
		lost = append(lost, root)
		s.releaseLocked(root.Handle)
	}
	s.mu.Unlock()

	s.log.Errorw("Fsnotify watcher failed.",
		"roots", len(lost),
		"error", reason,
	)

	for _, root := range lost {
		sink.OnSourceFailure(root.Handle, &source.RootError{
			Root: root,
			Err:  reason,
		})
	}
}

func (s *Source) stop() {
	s.mu.Lock()
	s.stopped = true
	s.roots = map[types.WatchHandle]types.WatchRoot{}
	s.dirs = map[string]map[types.WatchHandle]struct{}{}
	s.mu.Unlock()

	err := s.watcher.Close()
	if err != nil {
		s.log.Warnw("Failed to close fsnotify watcher.",
			"error", err,
		)
	}
}
