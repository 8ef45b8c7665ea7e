// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package pollsource

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/black-desk/fswatch/pkg/source"
	"github.com/black-desk/fswatch/pkg/types"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// stamp is what a scan remembers of one entry.
type stamp struct {
	mode    fs.FileMode
	size    int64
	modTime time.Time
}

type snapshot map[string]stamp

func stampOf(info fs.FileInfo) stamp {
	// The size and time of a directory change with its entries,
	// which are reported on their own.
	if info.IsDir() {
		return stamp{mode: fs.ModeDir}
	}

	return stamp{
		mode:    info.Mode(),
		size:    info.Size(),
		modTime: info.ModTime(),
	}
}

func (s *Source) scan(root types.WatchRoot) (ret snapshot, err error) {
	var info fs.FileInfo
	info, err = os.Stat(root.Path)
	if err != nil {
		return
	}

	if !info.IsDir() {
		err = ErrNotDirectory
		return
	}

	visited := map[string]struct{}{}
	if real, evalErr := filepath.EvalSymlinks(root.Path); evalErr == nil {
		visited[real] = struct{}{}
	}

	ret = snapshot{}
	s.scanDir(root.Path, root.Recursive, ret, visited)
	return
}

func (s *Source) scanDir(
	dir string, recursive bool, snap snapshot, visited map[string]struct{},
) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		s.log.Debugw("Skip directory while scanning.",
			"path", dir,
			"error", err,
		)
		return
	}

	for _, d := range entries {
		path := filepath.Join(dir, d.Name())

		info, err := d.Info()
		if err != nil {
			continue
		}

		if s.followSymlinks && info.Mode()&fs.ModeSymlink != 0 {
			if target, statErr := os.Stat(path); statErr == nil {
				info = target
			}
		}

		snap[path] = stampOf(info)

		if !recursive || !info.IsDir() {
			continue
		}

		real, err := filepath.EvalSymlinks(path)
		if err != nil {
			continue
		}

		// Links can lead back into the tree.
		if _, ok := visited[real]; ok {
			continue
		}
		visited[real] = struct{}{}

		s.scanDir(path, true, snap, visited)
	}
}

func (s *Source) poll(sink source.Sink) {
	s.mu.Lock()
	roots := maps.Values(s.roots)
	s.mu.Unlock()

	for _, p := range roots {
		snap, err := s.scan(p.root)
		if err != nil {
			s.fail(sink, p, err)
			continue
		}

		s.mu.Lock()
		current, ok := s.roots[p.root.Handle]
		if !ok || current != p {
			s.mu.Unlock()
			continue
		}
		old := p.last
		p.last = snap
		s.mu.Unlock()

		s.diff(sink, p.root, old, snap)
	}
}

// diff reports the entries which differ between two scans of root.
func (s *Source) diff(sink source.Sink, root types.WatchRoot, old, cur snapshot) {
	now := s.clock.Now()

	emit := func(path string, kind types.ChangeKind) {
		sink.OnRawEvent(types.RawEvent{
			Path:   path,
			Kind:   kind,
			Time:   now,
			Handle: root.Handle,
		})
	}

	removed := []string{}
	for path := range old {
		if _, ok := cur[path]; !ok {
			removed = append(removed, path)
		}
	}
	slices.Sort(removed)

	for _, path := range removed {
		emit(path, types.ChangeKindRemoved)
	}

	paths := maps.Keys(cur)
	slices.Sort(paths)

	for _, path := range paths {
		before, ok := old[path]
		switch {
		case !ok:
			emit(path, types.ChangeKindCreated)
		case before.mode.Type() != cur[path].mode.Type():
			// Replaced by an entry of another type.
			emit(path, types.ChangeKindRemoved)
			emit(path, types.ChangeKindCreated)
		case before != cur[path]:
			emit(path, types.ChangeKindModified)
		}
	}
}

func (s *Source) fail(sink source.Sink, p *polled, err error) {
	s.mu.Lock()
	current, ok := s.roots[p.root.Handle]
	if ok && current == p {
		delete(s.roots, p.root.Handle)
	}
	s.mu.Unlock()

	if !ok || current != p {
		return
	}

	reason := err
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, ErrNotDirectory) {
		reason = source.ErrRootVanished
	}

	s.log.Warnw("Root can no longer be scanned.",
		"root", p.root.String(),
		"error", err,
	)

	sink.OnSourceFailure(p.root.Handle, &source.RootError{
		Root: p.root,
		Err:  reason,
	})
}
