// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package dispatch

import (
	"sync"

	"github.com/black-desk/fswatch/pkg/metrics"
	. "github.com/black-desk/lib/go/errwrap"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

const DefaultCapacity = 1024

// Dispatcher fans notifications out to subscriptions.
// Every subscription owns a bounded queue and a delivery goroutine,
// so a slow callback only ever delays itself.
type Dispatcher struct {
	capacity int

	mu     sync.Mutex
	subs   map[*Subscription]struct{}
	last   uint64
	closed bool

	wg conc.WaitGroup

	metrics *metrics.Metrics
	log     *zap.SugaredLogger
}

//go:generate go run github.com/rjeczalik/interfaces/cmd/interfacer@v0.3.0 -for github.com/black-desk/fswatch/pkg/dispatch.Dispatcher -as interfaces.Dispatcher -o ../interfaces/dispatcher.go

func New(opts ...Opt) (ret *Dispatcher, err error) {
	defer Wrap(&err, "create dispatcher")

	d := &Dispatcher{
		capacity: DefaultCapacity,
		subs:     map[*Subscription]struct{}{},
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

	if d.capacity <= 0 {
		err = ErrInvalidCapacity
		return
	}

	ret = d

	d.log.Debugw("Create a new dispatcher.",
		"capacity", d.capacity,
	)

	return
}

type Opt func(d *Dispatcher) (ret *Dispatcher, err error)

func WithCapacity(capacity int) Opt {
	return func(d *Dispatcher) (ret *Dispatcher, err error) {
		d.capacity = capacity
		ret = d
		return
	}
}

func WithMetrics(m *metrics.Metrics) Opt {
	return func(d *Dispatcher) (ret *Dispatcher, err error) {
		d.metrics = m
		ret = d
		return
	}
}

func WithLogger(log *zap.SugaredLogger) Opt {
	return func(d *Dispatcher) (ret *Dispatcher, err error) {
		d.log = log
		ret = d
		return
	}
}
