// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package notifysource

import (
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/black-desk/fswatch/pkg/source"
	"github.com/black-desk/fswatch/pkg/types"
	. "github.com/black-desk/lib/go/errwrap"
	"github.com/rjeczalik/notify"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

// DefaultBufferSize is the size of the channel handed to notify per root.
// github.com/rjeczalik/notify drops events if the receiver is too slow.
// https://github.com/rjeczalik/notify/issues/85
// https://github.com/rjeczalik/notify/issues/98
const DefaultBufferSize = 1024

// Source watches roots with github.com/rjeczalik/notify.
type Source struct {
	bufferSize int

	mu      sync.Mutex
	watches map[types.WatchHandle]*watch
	sink    source.Sink
	stopped bool

	wg conc.WaitGroup

	clock clock.Clock
	log   *zap.SugaredLogger
}

var _ source.Source = (*Source)(nil)

type watch struct {
	root   types.WatchRoot
	events chan notify.EventInfo
	done   chan struct{}
}

func New(opts ...Opt) (ret *Source, err error) {
	defer Wrap(&err, "create notify source")

	s := &Source{
		bufferSize: DefaultBufferSize,
		watches:    map[types.WatchHandle]*watch{},
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

	if s.bufferSize <= 0 {
		err = ErrInvalidBufferSize
		return
	}

	ret = s

	s.log.Debugw("Create a notify source.",
		"buffer", s.bufferSize,
	)

	return
}

type Opt func(s *Source) (ret *Source, err error)

func WithBufferSize(size int) Opt {
	return func(s *Source) (ret *Source, err error) {
		s.bufferSize = size
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
