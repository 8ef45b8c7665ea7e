// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package fswatch

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/benbjohnson/clock"
	"github.com/black-desk/fswatch/pkg/dispatch"
	"github.com/black-desk/fswatch/pkg/fswatch/config"
	"github.com/black-desk/fswatch/pkg/source"
	"github.com/black-desk/fswatch/pkg/source/fsnotifysource"
	"github.com/black-desk/fswatch/pkg/source/notifysource"
	"github.com/black-desk/fswatch/pkg/source/pollsource"
	"github.com/black-desk/fswatch/pkg/types"
	. "github.com/black-desk/lib/go/errwrap"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// NewSource creates the source the configuration asks for.
func NewSource(
	cfg *config.Config, c clock.Clock, log *zap.SugaredLogger,
) (
	ret source.Source, err error,
) {
	defer Wrap(&err, "create %s source", cfg.Backend)

	switch cfg.Backend {
	case config.BackendNotify, "":
		ret, err = notifysource.New(
			notifysource.WithClock(c),
			notifysource.WithLogger(log),
		)
	case config.BackendFsnotify:
		ret, err = fsnotifysource.New(
			fsnotifysource.WithClock(c),
			fsnotifysource.WithLogger(log),
		)
	case config.BackendPoll:
		ret, err = pollsource.New(
			pollsource.WithInterval(cfg.PollInterval()),
			pollsource.WithFollowSymlinks(cfg.FollowSymlinks),
			pollsource.WithClock(c),
			pollsource.WithLogger(log),
		)
	default:
		err = ErrUnknownBackend
	}

	return
}

// AddRoot starts watching path.
// Adding a path twice returns the same root,
// upgraded to recursive if requested.
func (e *Engine) AddRoot(path string, recursive bool) (ret types.WatchRoot, err error) {
	defer Wrap(&err, "add root %s", path)

	e.mu.RLock()
	closed := e.closed
	e.mu.RUnlock()

	if closed {
		err = ErrEngineClosed
		return
	}

	existed := e.tracked(path)

	var root types.WatchRoot
	root, err = e.registry.Add(path, recursive)
	if err != nil {
		return
	}

	err = e.source.Watch(root)
	if err != nil {
		if !existed {
			_, _ = e.registry.Remove(root.Handle)
		}
		return
	}

	e.log.Infow("Root added.",
		"root", root.String(),
	)

	ret = root
	return
}

// RemoveRoot stops watching a root.
// Pending windows of the root are flushed as final events,
// followed by a RootRemoved notification.
func (e *Engine) RemoveRoot(handle types.WatchHandle) (err error) {
	defer Wrap(&err, "remove root %d", handle)

	e.mu.Lock()
	var root types.WatchRoot
	root, err = e.registry.Remove(handle)
	if err != nil {
		e.mu.Unlock()
		return
	}
	e.debouncer.FlushHandle(handle)
	e.mu.Unlock()

	e.metrics.SetPending(e.debouncer.Pending())

	e.dispatcher.Publish(types.Notification{
		Type: types.NotificationTypeRootRemoved,
		Root: &root,
	})

	err = e.source.Unwatch(root)
	if errors.Is(err, source.ErrNotWatched) || errors.Is(err, source.ErrSourceStopped) {
		err = nil
	}
	if err != nil {
		return
	}

	e.log.Infow("Root removed.",
		"root", root.String(),
	)

	return
}

// Roots returns every root, ordered by path.
func (e *Engine) Roots() []types.WatchRoot {
	return e.registry.Roots()
}

// Subscribe registers callback for every notification
// published from now on.
func (e *Engine) Subscribe(
	callback func(types.Notification),
) (
	*dispatch.Subscription, error,
) {
	return e.dispatcher.Subscribe(callback)
}

func (e *Engine) Unsubscribe(s *dispatch.Subscription) error {
	return e.dispatcher.Unsubscribe(s)
}

// OnRawEvent takes a raw event from the source.
// It never blocks on flushing or delivery.
func (e *Engine) OnRawEvent(ev types.RawEvent) {
	e.metrics.ObserveRaw(ev.Kind)

	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		return
	}

	var (
		root types.WatchRoot
		err  error
	)

	if ev.Handle != 0 {
		root, ev.Path, err = e.registry.ResolveRelative(ev.Handle, ev.Path)
	} else {
		ev.Path = filepath.Clean(ev.Path)
		root, err = e.registry.Resolve(ev.Path)
	}
	if err != nil {
		e.metrics.ObserveUnresolved()
		e.errSink(err)
		return
	}

	ev.Handle = root.Handle

	err = e.debouncer.Ingest(ev)
	if err != nil {
		e.errSink(err)
		return
	}

	e.metrics.SetPending(e.debouncer.Pending())
}

// OnSourceFailure stops a root the source can no longer observe.
// Pending windows of the root are flushed as final events
// and every subscriber is told about the failure.
func (e *Engine) OnSourceFailure(handle types.WatchHandle, reason error) {
	e.metrics.ObserveSourceFailure()

	e.mu.Lock()
	root, err := e.registry.MarkStopped(handle)
	if err != nil {
		e.mu.Unlock()
		e.errSink(err)
		return
	}
	e.debouncer.FlushHandle(handle)
	e.mu.Unlock()

	e.log.Errorw("Root stopped by source failure.",
		"root", root.String(),
		"error", reason,
	)

	e.dispatcher.Publish(types.Notification{
		Type: types.NotificationTypeSourceFailure,
		Root: &root,
		Err:  reason,
	})
}

// DrainNow flushes every pending window immediately.
// The flushed events are published as usual and also returned.
func (e *Engine) DrainNow() []types.CoalescedEvent {
	evs := e.debouncer.DrainNow()
	e.metrics.SetPending(e.debouncer.Pending())
	return evs
}

// Run runs the source and the flush loop until ctx is done,
// one of them fails or Close is called, then closes the engine.
// It returns nil when stopped by Close.
func (e *Engine) Run(ctx context.Context) (err error) {
	defer Wrap(&err, "run fswatch engine")

	runCtx, stop := context.WithCancelCause(ctx)
	defer stop(nil)

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		err = ErrEngineClosed
		return
	}
	if e.running {
		e.mu.Unlock()
		err = ErrAlreadyRunning
		return
	}
	e.running = true
	e.stop = stop
	e.done = make(chan struct{})
	done := e.done
	e.mu.Unlock()

	defer e.Close()
	defer close(done)

	p := pool.New().WithContext(runCtx).WithFirstError().WithCancelOnError()

	p.Go(e.runSource)
	p.Go(e.runDebouncer)

	err = p.Wait()
	if ctx.Err() == nil && errors.Is(context.Cause(runCtx), ErrEngineClosed) {
		err = nil
	}
	return
}

// Close stops a running source and flush loop,
// flushes what is still pending,
// waits for subscribers to receive everything queued for them
// and releases them. Calling Close more than once is fine.
func (e *Engine) Close() {
	e.closeOnce.Do(e.close)
}
