// Created by interfacer; DO NOT EDIT

package interfaces

import (
	"github.com/black-desk/fswatch/pkg/types"
)

// Registry is an interface generated for "github.com/black-desk/fswatch/pkg/registry.Registry".
type Registry interface {
	Add(string, bool) (types.WatchRoot, error)
	Get(types.WatchHandle) (types.WatchRoot, error)
	MarkStopped(types.WatchHandle) (types.WatchRoot, error)
	Remove(types.WatchHandle) (types.WatchRoot, error)
	Resolve(string) (types.WatchRoot, error)
	ResolveRelative(types.WatchHandle, string) (types.WatchRoot, string, error)
	Roots() []types.WatchRoot
}
