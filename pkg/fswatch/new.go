// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package fswatch

import (
	"context"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/black-desk/fswatch/pkg/debounce"
	"github.com/black-desk/fswatch/pkg/dispatch"
	"github.com/black-desk/fswatch/pkg/fswatch/config"
	"github.com/black-desk/fswatch/pkg/interfaces"
	"github.com/black-desk/fswatch/pkg/metrics"
	"github.com/black-desk/fswatch/pkg/registry"
	"github.com/black-desk/fswatch/pkg/source"
	. "github.com/black-desk/lib/go/errwrap"
	"go.uber.org/zap"
)

// Engine watches roots through a source,
// coalesces what the source reports
// and hands the result to subscribers.
type Engine struct {
	cfg     *config.Config
	source  source.Source
	clock   clock.Clock
	metrics *metrics.Metrics
	errSink func(error)
	log     *zap.SugaredLogger

	registry   interfaces.Registry
	debouncer  interfaces.Debouncer
	dispatcher interfaces.Dispatcher

	// mu is held for reading while a raw event is resolved and ingested,
	// and for writing while a root is taken out of service,
	// so no event of a removed root is ingested after its final flush.
	mu      sync.RWMutex
	running bool
	closed  bool
	// stop cancels the context of a running Run,
	// done is closed once its source and flush loop returned.
	stop context.CancelCauseFunc
	done chan struct{}

	closeOnce sync.Once
}

var _ source.Sink = (*Engine)(nil)

type Opt = (func(*Engine) (*Engine, error))

//go:generate go run github.com/rjeczalik/interfaces/cmd/interfacer@v0.3.0 -for github.com/black-desk/fswatch/pkg/fswatch.Engine -as interfaces.Engine -o ../interfaces/engine.go

func New(opts ...Opt) (ret *Engine, err error) {
	defer Wrap(&err, "create fswatch engine")

	e := &Engine{}
	for i := range opts {
		e, err = opts[i](e)
		if err != nil {
			e = nil
			return
		}
	}

	if e.log == nil {
		e.log = zap.NewNop().Sugar()
	}

	if e.cfg == nil {
		err = ErrConfigMissing
		return
	}

	if e.clock == nil {
		e.clock = clock.New()
	}

	if e.errSink == nil {
		e.errSink = e.logError
	}

	if e.source == nil {
		e.source, err = NewSource(e.cfg, e.clock, e.log)
		if err != nil {
			return
		}
	}

	e.registry, err = registry.New(
		registry.WithLogger(e.log),
	)
	if err != nil {
		return
	}

	e.dispatcher, err = dispatch.New(
		dispatch.WithCapacity(e.cfg.SubscriptionQueueCapacity),
		dispatch.WithMetrics(e.metrics),
		dispatch.WithLogger(e.log),
	)
	if err != nil {
		return
	}

	e.debouncer, err = debounce.New(
		debounce.WithQuiescence(e.cfg.Quiescence()),
		debounce.WithMaxLifetime(e.cfg.MaxLifetime()),
		debounce.WithMaxPending(e.cfg.MaxPendingEntries),
		debounce.WithClock(e.clock),
		debounce.WithOutput(e.publish),
		debounce.WithLogger(e.log),
	)
	if err != nil {
		return
	}

	for i := range e.cfg.Roots {
		root := &e.cfg.Roots[i]
		_, err = e.AddRoot(root.Path, root.IsRecursive())
		if err != nil {
			return
		}
	}

	ret = e

	e.log.Debugw("Create a new fswatch engine.",
		"backend", e.cfg.Backend,
		"quiescence", e.cfg.Quiescence(),
		"max lifetime", e.cfg.MaxLifetime(),
		"roots", len(e.cfg.Roots),
	)

	return
}

func WithConfig(cfg *config.Config) Opt {
	return func(e *Engine) (ret *Engine, err error) {
		e.cfg = cfg
		ret = e
		return
	}
}

// WithSource replaces the backend selected by the configuration.
func WithSource(src source.Source) Opt {
	return func(e *Engine) (ret *Engine, err error) {
		e.source = src
		ret = e
		return
	}
}

func WithClock(c clock.Clock) Opt {
	return func(e *Engine) (ret *Engine, err error) {
		e.clock = c
		ret = e
		return
	}
}

func WithMetrics(m *metrics.Metrics) Opt {
	return func(e *Engine) (ret *Engine, err error) {
		e.metrics = m
		ret = e
		return
	}
}

// WithErrorSink sets the function per-event failures are reported to,
// such as raw events no root covers.
// It defaults to logging them.
func WithErrorSink(fn func(error)) Opt {
	return func(e *Engine) (ret *Engine, err error) {
		e.errSink = fn
		ret = e
		return
	}
}

func WithLogger(log *zap.SugaredLogger) Opt {
	return func(e *Engine) (ret *Engine, err error) {
		e.log = log
		ret = e
		return
	}
}
