// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package registry

import (
	"path/filepath"
	"strings"

	"github.com/black-desk/fswatch/pkg/types"
	. "github.com/black-desk/lib/go/errwrap"
	"golang.org/x/exp/slices"
)

// Add starts tracking path.
// Adding a path that is already tracked returns the existing root,
// upgraded to recursive if requested and reactivated if it was stopped.
// A root nested under another root is kept and flagged redundant,
// events under it resolve to the nested root.
func (r *Registry) Add(path string, recursive bool) (ret types.WatchRoot, err error) {
	defer Wrap(&err, "add watch root %s", path)

	if !filepath.IsAbs(path) {
		err = ErrRelativePath
		return
	}

	path = filepath.Clean(path)

	r.mu.Lock()
	defer r.mu.Unlock()

	if handle, ok := r.byPath[path]; ok {
		root := r.roots[handle]
		if recursive && !root.Recursive {
			r.log.Infow("Upgrade watch root to recursive.",
				"root", root.Path,
			)
			root.Recursive = true
		}
		root.State = types.RootStateActive
		r.refreshRedundantLocked()

		ret = *root
		return
	}

	r.last++
	root := &types.WatchRoot{
		Handle:    r.last,
		Path:      path,
		Recursive: recursive,
		State:     types.RootStateActive,
	}
	r.roots[root.Handle] = root
	r.byPath[root.Path] = root.Handle
	r.refreshRedundantLocked()

	if root.Redundant {
		r.log.Warnw("Watch root is covered by another root.",
			"root", root.Path,
		)
	}

	r.log.Debugw("Watch root added.",
		"root", root,
	)

	ret = *root
	return
}

// Remove stops tracking the root identified by handle.
func (r *Registry) Remove(handle types.WatchHandle) (ret types.WatchRoot, err error) {
	defer Wrap(&err, "remove watch root %d", handle)

	r.mu.Lock()
	defer r.mu.Unlock()

	root, ok := r.roots[handle]
	if !ok {
		err = ErrUnknownHandle
		return
	}

	delete(r.roots, handle)
	delete(r.byPath, root.Path)
	r.refreshRedundantLocked()

	r.log.Debugw("Watch root removed.",
		"root", root,
	)

	ret = *root
	return
}

// MarkStopped keeps the root registered but excludes it from resolution.
func (r *Registry) MarkStopped(handle types.WatchHandle) (ret types.WatchRoot, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	root, ok := r.roots[handle]
	if !ok {
		err = ErrUnknownHandle
		return
	}

	root.State = types.RootStateStopped
	r.refreshRedundantLocked()

	ret = *root
	return
}

func (r *Registry) Get(handle types.WatchHandle) (ret types.WatchRoot, err error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	root, ok := r.roots[handle]
	if !ok {
		err = ErrUnknownHandle
		return
	}

	ret = *root
	return
}

// Resolve finds the active root with the longest path covering path.
func (r *Registry) Resolve(path string) (ret types.WatchRoot, err error) {
	if !filepath.IsAbs(path) {
		err = &UnresolvedPathError{Path: path}
		return
	}

	path = filepath.Clean(path)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var best *types.WatchRoot
	for _, root := range r.roots {
		if root.State != types.RootStateActive {
			continue
		}

		if !accepts(root, path) {
			continue
		}

		if best == nil || len(root.Path) > len(best.Path) {
			best = root
		}
	}

	if best == nil {
		err = &UnresolvedPathError{Path: path}
		return
	}

	ret = *best
	return
}

// ResolveRelative resolves a path a backend reported relative to a root.
func (r *Registry) ResolveRelative(
	handle types.WatchHandle, rel string,
) (
	ret types.WatchRoot, path string, err error,
) {
	if filepath.IsAbs(rel) {
		path = rel
	} else {
		var root types.WatchRoot
		root, err = r.Get(handle)
		if err != nil {
			return
		}

		path = filepath.Join(root.Path, rel)
	}

	ret, err = r.Resolve(path)
	path = filepath.Clean(path)
	return
}

// Roots returns a snapshot of all tracked roots ordered by path.
func (r *Registry) Roots() (ret []types.WatchRoot) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ret = make([]types.WatchRoot, 0, len(r.roots))
	for _, root := range r.roots {
		ret = append(ret, *root)
	}

	slices.SortFunc(ret, func(a, b types.WatchRoot) int {
		return strings.Compare(a.Path, b.Path)
	})
	return
}
