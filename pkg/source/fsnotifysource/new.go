// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package fsnotifysource

import (
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/black-desk/fswatch/pkg/source"
	"github.com/black-desk/fswatch/pkg/types"
	. "github.com/black-desk/lib/go/errwrap"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Source watches roots with github.com/fsnotify/fsnotify.
// fsnotify only watches single directories,
// so recursive roots are expanded into one watch per directory
// and kept up to date as directories come and go.
type Source struct {
	watcher *fsnotify.Watcher

	mu    sync.Mutex
	roots map[types.WatchHandle]types.WatchRoot
	// dirs maps every watched directory to the roots it is watched for.
	dirs    map[string]map[types.WatchHandle]struct{}
	running bool
	stopped bool

	clock clock.Clock
	log   *zap.SugaredLogger
}

var _ source.Source = (*Source)(nil)

func New(opts ...Opt) (ret *Source, err error) {
	defer Wrap(&err, "create fsnotify source")

	s := &Source{
		roots: map[types.WatchHandle]types.WatchRoot{},
		dirs:  map[string]map[types.WatchHandle]struct{}{},
	}

	for i := range opts {
		s, err = opts[i](s)
		if err != nil {
			return
		}
	}

	if s.log == nil {
		s.log = zap.NewNop().Sugar()
	}

	if s.clock == nil {
		s.clock = clock.New()
	}

	s.watcher, err = fsnotify.NewWatcher()
	if err != nil {
		return
	}

	ret = s

	s.log.Debugw("Create a fsnotify source.")

	return
}

type Opt func(s *Source) (ret *Source, err error)

func WithClock(c clock.Clock) Opt {
	return func(s *Source) (ret *Source, err error) {
		s.clock = c
		ret = s
		return
	}
}

func WithLogger(log *zap.SugaredLogger) Opt {
	return func(s *Source) (ret *Source, err error) {
		s.log = log
		ret = s
		return
	}
}
