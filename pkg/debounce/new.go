// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package debounce

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/black-desk/fswatch/pkg/types"
	. "github.com/black-desk/lib/go/errwrap"
	"go.uber.org/zap"
)

// Debouncer merges raw events per path
// and flushes one coalesced event per path and window.
//
// A window is reset by every raw event of its path
// and closes after the quiescence interval,
// or when it reaches its max lifetime.
type Debouncer struct {
	quiescence  time.Duration
	maxLifetime time.Duration
	maxPending  int

	clock  clock.Clock
	log    *zap.SugaredLogger
	output func([]types.CoalescedEvent)

	// mu guards the pending table.
	mu      sync.Mutex
	entries map[string]*entry
	queue   deadlineQueue
	legs    map[uint32]*entry
	// origins maps the old path of every paired rename
	// to the window carrying it.
	origins map[string]*entry
	fatal   error

	// emitMu is taken before mu is released by every flush,
	// so events of one path leave in the order their windows closed.
	emitMu sync.Mutex

	wake chan struct{}
}

//go:generate go run github.com/rjeczalik/interfaces/cmd/interfacer@v0.3.0 -for github.com/black-desk/fswatch/pkg/debounce.Debouncer -as interfaces.Debouncer -o ../interfaces/debouncer.go

func New(opts ...Opt) (ret *Debouncer, err error) {
	defer Wrap(&err, "create debouncer")

	d := &Debouncer{
		quiescence:  DefaultQuiescence,
		maxLifetime: DefaultMaxLifetime,
		maxPending:  DefaultMaxPending,
		entries:     map[string]*entry{},
		legs:        map[uint32]*entry{},
		origins:     map[string]*entry{},
		wake:        make(chan struct{}, 1),
	}

	for i := range opts {
		d, err = opts[i](d)
		if err != nil {
			return
		}
	}

	if d.log == nil {
		d.log = zap.NewNop().Sugar()
	}

	if d.clock == nil {
		d.clock = clock.New()
	}

	if d.quiescence <= 0 {
		err = ErrInvalidQuiescence
		return
	}

	if d.maxLifetime < d.quiescence {
		err = ErrInvalidLifetime
		return
	}

	if d.maxPending <= 0 {
		err = ErrInvalidMaxPending
		return
	}

	ret = d

	d.log.Debugw("Create a new debouncer.",
		"quiescence", d.quiescence,
		"max lifetime", d.maxLifetime,
		"max pending", d.maxPending,
	)

	return
}

type Opt func(d *Debouncer) (ret *Debouncer, err error)

func WithQuiescence(interval time.Duration) Opt {
	return func(d *Debouncer) (ret *Debouncer, err error) {
		d.quiescence = interval
		ret = d
		return
	}
}

func WithMaxLifetime(lifetime time.Duration) Opt {
	return func(d *Debouncer) (ret *Debouncer, err error) {
		d.maxLifetime = lifetime
		ret = d
		return
	}
}

func WithMaxPending(n int) Opt {
	return func(d *Debouncer) (ret *Debouncer, err error) {
		d.maxPending = n
		ret = d
		return
	}
}

func WithClock(c clock.Clock) Opt {
	return func(d *Debouncer) (ret *Debouncer, err error) {
		d.clock = c
		ret = d
		return
	}
}

// WithOutput sets the function every flushed batch is handed to.
// It is called with no lock of the pending table held
// and must not block.
func WithOutput(fn func([]types.CoalescedEvent)) Opt {
	return func(d *Debouncer) (ret *Debouncer, err error) {
		d.output = fn
		ret = d
		return
	}
}

func WithLogger(log *zap.SugaredLogger) Opt {
	return func(d *Debouncer) (ret *Debouncer, err error) {
		d.log = log
		ret = d
		return
	}
}
