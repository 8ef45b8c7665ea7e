// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package debounce

import (
	"container/heap"
	"time"

	"github.com/black-desk/fswatch/pkg/types"
	"golang.org/x/exp/slices"
)

func (d *Debouncer) ingestLocked(ev *types.RawEvent, now time.Time) (err error) {
	if d.fatal != nil {
		err = d.fatal
		return
	}

	leg := ev.Cookie != 0 &&
		(ev.Kind == types.ChangeKindRenamedFrom ||
			ev.Kind == types.ChangeKindRenamedTo)

	if leg {
		partner, ok := d.legs[ev.Cookie]
		if ok && partner.kind != ev.Kind {
			d.pairLocked(partner, ev, now)
			return
		}
	}

	e, ok := d.entries[ev.Path]
	if !ok {
		if len(d.entries) >= d.maxPending {
			d.fatal = ErrPendingTableFull
			d.log.Errorw("Pending table exhausted.",
				"max pending", d.maxPending,
				"path", ev.Path,
			)
			err = d.fatal
			return
		}

		e = d.openLocked(ev.Path, ev.Handle, ev.Time, now)
		e.kind = ev.Kind
		e.created = ev.Kind == types.ChangeKindCreated
		e.raw = 1
		if leg {
			d.linkLocked(e, ev.Cookie)
		}
		e.touch(now, d.quiescence, d.maxLifetime)
		heap.Push(&d.queue, e)
		return
	}

	e.raw++
	d.unlinkLocked(e)

	if leg {
		e.kind = ev.Kind
		d.linkLocked(e, ev.Cookie)
	} else {
		e.kind = mergeKind(e.kind, ev.Kind)
	}

	if ev.Handle != 0 {
		e.handle = ev.Handle
	}

	e.stretch(ev.Time)
	e.touch(now, d.quiescence, d.maxLifetime)
	heap.Fix(&d.queue, e.index)
	return
}

// pairLocked joins the rename leg ev with the pending leg partner
// carrying the same cookie.
func (d *Debouncer) pairLocked(partner *entry, ev *types.RawEvent, now time.Time) {
	var (
		target *entry
		gone   *entry
		from   string
	)

	if partner.kind == types.ChangeKindRenamedFrom {
		from = partner.path
		gone = partner
		target = d.entries[ev.Path]
		if target == gone {
			target = nil
		}
	} else {
		from = ev.Path
		target = partner
		gone = d.entries[ev.Path]
		if gone == target {
			gone = nil
		}
	}

	// A chain of renames is reported from where it started.
	origin := from
	created := false
	if gone != nil {
		created = gone.created
		if gone.oldPath != "" {
			origin = gone.oldPath
		}
		d.removeLocked(gone)
	}

	// The content target came from is overwritten.
	if target != nil && target.oldPath != "" {
		d.orphanLocked(target, now)
	}

	fresh := target == nil
	if fresh {
		target = d.openLocked(ev.Path, ev.Handle, ev.Time, now)
	}

	d.unlinkLocked(target)

	target.raw++
	if gone != nil {
		target.raw += gone.raw
		if gone.firstSeen.Before(target.firstSeen) {
			target.firstSeen = gone.firstSeen
		}
		target.stretch(gone.windowStart)
		target.stretch(gone.windowEnd)
		if target.handle == 0 {
			target.handle = gone.handle
		}
	}
	target.stretch(ev.Time)

	switch {
	case created:
		target.kind = types.ChangeKindCreated
	case origin == target.path:
		target.kind = types.ChangeKindModified
	default:
		target.kind = types.ChangeKindRenamed
		d.claimLocked(target, origin)
	}

	target.touch(now, d.quiescence, d.maxLifetime)
	if fresh {
		heap.Push(&d.queue, target)
	} else {
		heap.Fix(&d.queue, target.index)
	}
}

// openLocked starts a window for path and registers it in the table.
// The caller pushes it into the queue once it is due.
func (d *Debouncer) openLocked(
	path string, handle types.WatchHandle, start, now time.Time,
) *entry {
	// The path exists on its own again,
	// so its window reports it instead of the rename that moved it away.
	if c, ok := d.origins[path]; ok {
		delete(d.origins, path)
		c.oldPath = ""
		if c.kind == types.ChangeKindRenamed {
			c.kind = types.ChangeKindCreated
		}
	}

	e := &entry{
		path:        path,
		handle:      handle,
		firstSeen:   now,
		windowStart: start,
		windowEnd:   start,
		index:       -1,
	}
	d.entries[path] = e
	return e
}

func (d *Debouncer) claimLocked(e *entry, origin string) {
	e.oldPath = origin
	d.origins[origin] = e
}

func (d *Debouncer) releaseLocked(e *entry) {
	if e.oldPath != "" && d.origins[e.oldPath] == e {
		delete(d.origins, e.oldPath)
	}
}

// orphanLocked turns the origin claimed by e into a window of its own
// reporting the origin as removed.
// It takes the table slot the origin held before it was renamed.
func (d *Debouncer) orphanLocked(e *entry, now time.Time) {
	origin := e.oldPath
	d.releaseLocked(e)
	e.oldPath = ""

	o := d.openLocked(origin, e.handle, e.windowStart, now)
	o.kind = types.ChangeKindRemoved
	o.raw = 1
	o.firstSeen = e.firstSeen
	o.stretch(e.windowEnd)
	o.touch(now, d.quiescence, d.maxLifetime)
	heap.Push(&d.queue, o)
}

func (e *entry) stretch(t time.Time) {
	if t.IsZero() {
		return
	}

	if e.windowStart.IsZero() || t.Before(e.windowStart) {
		e.windowStart = t
	}

	if t.After(e.windowEnd) {
		e.windowEnd = t
	}
}

func (d *Debouncer) linkLocked(e *entry, cookie uint32) {
	if old, ok := d.legs[cookie]; ok && old != e {
		old.cookie = 0
	}

	e.cookie = cookie
	d.legs[cookie] = e
}

func (d *Debouncer) unlinkLocked(e *entry) {
	if e.cookie == 0 {
		return
	}

	if d.legs[e.cookie] == e {
		delete(d.legs, e.cookie)
	}

	e.cookie = 0
}

func (d *Debouncer) removeLocked(e *entry) {
	if d.entries[e.path] == e {
		delete(d.entries, e.path)
	}

	d.releaseLocked(e)

	if e.index >= 0 {
		heap.Remove(&d.queue, e.index)
	}

	d.unlinkLocked(e)
}

func (d *Debouncer) flush(
	collect func() []types.CoalescedEvent,
) (
	ret []types.CoalescedEvent,
) {
	d.emitMu.Lock()
	defer d.emitMu.Unlock()

	d.mu.Lock()
	ret = collect()
	d.mu.Unlock()

	if len(ret) == 0 {
		return
	}

	d.log.Debugw("Windows flushed.",
		"count", len(ret),
	)

	if d.output != nil {
		d.output(ret)
	}

	return
}

func (d *Debouncer) notify() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func sortByDue(entries []*entry) {
	slices.SortFunc(entries, func(a, b *entry) int {
		return a.due.Compare(b.due)
	})
}
