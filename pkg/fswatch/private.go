// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package fswatch

import (
	"context"
	"path/filepath"

	"github.com/black-desk/fswatch/pkg/types"
)

func (e *Engine) tracked(path string) bool {
	path = filepath.Clean(path)

	for _, root := range e.registry.Roots() {
		if root.Path == path {
			return true
		}
	}

	return false
}

func (e *Engine) publish(evs []types.CoalescedEvent) {
	e.metrics.ObserveFlushed(evs)
	e.dispatcher.PublishEvents(evs)
}

func (e *Engine) runSource(ctx context.Context) (err error) {
	defer e.log.Debugw("Source exited.")

	e.log.Debugw("Start source.")

	err = e.source.Run(ctx, e)
	if err != nil {
		return
	}

	return ctx.Err()
}

func (e *Engine) runDebouncer(ctx context.Context) (err error) {
	defer e.log.Debugw("Debouncer exited.")

	e.log.Debugw("Start debouncer.")

	err = e.debouncer.Run(ctx)
	if err != nil {
		return
	}

	return ctx.Err()
}

func (e *Engine) close() {
	e.mu.Lock()
	e.closed = true
	running := e.running
	stop, done := e.stop, e.done
	e.mu.Unlock()

	if running {
		// The source releases its watches when Run returns.
		stop(ErrEngineClosed)
		<-done
	} else {
		err := e.source.Close()
		if err != nil {
			e.log.Warnw("Failed to close source.",
				"error", err,
			)
		}
	}

	evs := e.debouncer.DrainNow()
	e.metrics.SetPending(0)

	e.dispatcher.Close()

	e.log.Infow("Fswatch engine closed.",
		"drained", len(evs),
	)
}

func (e *Engine) logError(err error) {
	e.log.Warnw("Failed to handle raw event.",
		"error", err,
	)
}
