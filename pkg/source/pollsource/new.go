// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package pollsource

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/black-desk/fswatch/pkg/source"
	"github.com/black-desk/fswatch/pkg/types"
	. "github.com/black-desk/lib/go/errwrap"
	"go.uber.org/zap"
)

// Source finds changes by scanning every root periodically
// and comparing the result with the previous scan.
// It works on file systems which send no notifications,
// at the price of missing changes undone between two scans.
type Source struct {
	interval       time.Duration
	followSymlinks bool

	mu      sync.Mutex
	roots   map[types.WatchHandle]*polled
	running bool
	stopped bool

	clock clock.Clock
	log   *zap.SugaredLogger
}

// polled is a root with the result of its last scan.
type polled struct {
	root types.WatchRoot
	last snapshot
}

var _ source.Source = (*Source)(nil)

const DefaultInterval = time.Second

func New(opts ...Opt) (ret *Source, err error) {
	defer Wrap(&err, "create poll source")

	s := &Source{
		interval: DefaultInterval,
		roots:    map[types.WatchHandle]*polled{},
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

	ret = s

	s.log.Debugw("Create a poll source.",
		"interval", s.interval,
		"follow symlinks", s.followSymlinks,
	)

	return
}

type Opt func(s *Source) (ret *Source, err error)

func WithInterval(interval time.Duration) Opt {
	return func(s *Source) (ret *Source, err error) {
		if interval <= 0 {
			err = ErrInvalidInterval
			return
		}

		s.interval = interval
		ret = s
		return
	}
}

// WithFollowSymlinks makes scans descend into directories
// reached through symbolic links.
// A directory is scanned once per root even if several links lead to it.
func WithFollowSymlinks(follow bool) Opt {
	return func(s *Source) (ret *Source, err error) {
		s.followSymlinks = follow
		ret = s
		return
	}
}

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
