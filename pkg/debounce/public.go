// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package debounce

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/black-desk/fswatch/pkg/types"
	. "github.com/black-desk/lib/go/errwrap"
)

// Ingest records a raw event.
// ev.Path must already be resolved against its root.
// It never waits for a flush.
func (d *Debouncer) Ingest(ev types.RawEvent) (err error) {
	if ev.Path == "" {
		err = ErrPathMissing
		return
	}

	now := d.clock.Now()
	if ev.Time.IsZero() {
		ev.Time = now
	}

	d.mu.Lock()
	err = d.ingestLocked(&ev, now)
	d.mu.Unlock()

	d.notify()
	return
}

// Run evaluates window deadlines until ctx is done
// or the pending table is exhausted.
func (d *Debouncer) Run(ctx context.Context) (err error) {
	defer Wrap(&err, "run debouncer")

	d.log.Debugw("Debouncer started.")
	defer d.log.Debugw("Debouncer exited.")

	for {
		d.Expire(d.clock.Now())

		var (
			next time.Time
			ok   bool
		)

		d.mu.Lock()
		err = d.fatal
		if len(d.queue) > 0 {
			next, ok = d.queue[0].due, true
		}
		d.mu.Unlock()

		if err != nil {
			return
		}

		var (
			timer   *clock.Timer
			timeout <-chan time.Time
		)

		if ok {
			timer = d.clock.Timer(next.Sub(d.clock.Now()))
			timeout = timer.C
		}

		select {
		case <-ctx.Done():
			err = ctx.Err()
		case <-d.wake:
		case <-timeout:
		}

		if timer != nil {
			timer.Stop()
		}

		if err != nil {
			return
		}
	}
}

// Expire flushes every window due at now.
func (d *Debouncer) Expire(now time.Time) []types.CoalescedEvent {
	return d.flush(func() (ret []types.CoalescedEvent) {
		for len(d.queue) > 0 && !d.queue[0].due.After(now) {
			e := d.queue[0]
			d.removeLocked(e)
			ret = append(ret, e.events(false)...)
		}
		return
	})
}

// DrainNow flushes every pending window immediately.
func (d *Debouncer) DrainNow() []types.CoalescedEvent {
	return d.flush(func() (ret []types.CoalescedEvent) {
		for len(d.queue) > 0 {
			e := d.queue[0]
			d.removeLocked(e)
			ret = append(ret, e.events(false)...)
		}
		return
	})
}

// FlushHandle flushes every pending window that belongs to handle.
// The events are marked final.
func (d *Debouncer) FlushHandle(handle types.WatchHandle) []types.CoalescedEvent {
	return d.flush(func() (ret []types.CoalescedEvent) {
		var owned []*entry
		for _, e := range d.queue {
			if e.handle == handle {
				owned = append(owned, e)
			}
		}

		sortByDue(owned)

		for _, e := range owned {
			d.removeLocked(e)
			ret = append(ret, e.events(true)...)
		}
		return
	})
}

// Pending returns the number of open windows.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.entries)
}
