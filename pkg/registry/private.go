// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package registry

import (
	"path/filepath"
	"strings"

	"github.com/black-desk/fswatch/pkg/types"
)

// accepts reports whether events on path belong under root.
// A non-recursive root accepts itself and its direct children.
func accepts(root *types.WatchRoot, path string) bool {
	if path == root.Path {
		return true
	}

	prefix := root.Path
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}

	if !strings.HasPrefix(path, prefix) {
		return false
	}

	if root.Recursive {
		return true
	}

	return !strings.ContainsRune(path[len(prefix):], filepath.Separator)
}

func (r *Registry) refreshRedundantLocked() {
	for _, root := range r.roots {
		root.Redundant = false

		if root.State != types.RootStateActive {
			continue
		}

		for _, other := range r.roots {
			if other == root || other.State != types.RootStateActive {
				continue
			}

			if accepts(other, root.Path) {
				root.Redundant = true
				break
			}
		}
	}
}
