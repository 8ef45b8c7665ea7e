// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package registry

import (
	"sync"

	"github.com/black-desk/fswatch/pkg/types"
	"go.uber.org/zap"
)

// Registry tracks watched roots and maps watch handles to them.
type Registry struct {
	mu     sync.RWMutex
	roots  map[types.WatchHandle]*types.WatchRoot
	byPath map[string]types.WatchHandle
	last   types.WatchHandle

	log *zap.SugaredLogger
}

//go:generate go run github.com/rjeczalik/interfaces/cmd/interfacer@v0.3.0 -for github.com/black-desk/fswatch/pkg/registry.Registry -as interfaces.Registry -o ../interfaces/registry.go

func New(opts ...Opt) (ret *Registry, err error) {
	r := &Registry{
		roots:  map[types.WatchHandle]*types.WatchRoot{},
		byPath: map[string]types.WatchHandle{},
	}

	for i := range opts {
		r, err = opts[i](r)
		if err != nil {
			return
		}
	}

	if r.log == nil {
		r.log = zap.NewNop().Sugar()
	}

	ret = r

	r.log.Debugw("Create a new path registry.")

	return
}

type Opt func(r *Registry) (ret *Registry, err error)

func WithLogger(log *zap.SugaredLogger) Opt {
	return func(r *Registry) (ret *Registry, err error) {
		r.log = log
		ret = r
		return
	}
}
