// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package debounce

import (
	"time"

	"github.com/black-desk/fswatch/pkg/types"
)

// entry accumulates the raw events of one path during an open window.
type entry struct {
	path string
	// oldPath is where the content of a paired rename came from.
	// It has no window of its own while claimed.
	oldPath string
	kind    types.ChangeKind
	handle  types.WatchHandle

	// cookie is kept while kind is one leg of a rename.
	cookie uint32
	// created is set when the path did not exist when the window opened.
	created bool

	firstSeen time.Time
	lastSeen  time.Time
	due       time.Time

	windowStart time.Time
	windowEnd   time.Time

	raw   int
	index int
}

func (e *entry) touch(now time.Time, quiescence, maxLifetime time.Duration) {
	e.lastSeen = now

	e.due = e.lastSeen.Add(quiescence)
	if hard := e.firstSeen.Add(maxLifetime); hard.Before(e.due) {
		e.due = hard
	}
}

func (e *entry) isRenameLeg() bool {
	return e.kind == types.ChangeKindRenamedFrom ||
		e.kind == types.ChangeKindRenamedTo
}

// events returns what the window reports.
// A window which lost its rename also reports the old path as removed.
func (e *entry) events(final bool) (ret []types.CoalescedEvent) {
	ev := e.event(final)
	ret = append(ret, ev)

	if e.oldPath == "" || ev.Kind == types.ChangeKindRenamed {
		return
	}

	ret = append(ret, types.CoalescedEvent{
		Path:        e.oldPath,
		Kind:        types.ChangeKindRemoved,
		WindowStart: e.windowStart,
		WindowEnd:   e.windowEnd,
		Handle:      e.handle,
		Final:       final,
	})
	return
}

func (e *entry) event(final bool) types.CoalescedEvent {
	kind := e.kind

	// A rename leg which never met its partner.
	switch kind {
	case types.ChangeKindRenamedFrom:
		kind = types.ChangeKindRemoved
	case types.ChangeKindRenamedTo:
		kind = types.ChangeKindCreated
	}

	ret := types.CoalescedEvent{
		Path:        e.path,
		Kind:        kind,
		WindowStart: e.windowStart,
		WindowEnd:   e.windowEnd,
		Coalesced:   e.raw - 1,
		Handle:      e.handle,
		Final:       final,
	}

	if kind == types.ChangeKindRenamed {
		ret.OldPath = e.oldPath
	}

	return ret
}

// mergeKind returns the kind of a window which was prev
// after a raw event of kind next arrived.
func mergeKind(prev, next types.ChangeKind) types.ChangeKind {
	switch next {
	case types.ChangeKindUnknown:
		return prev

	case types.ChangeKindRemoved, types.ChangeKindRenamedFrom:
		return next

	case types.ChangeKindModified:
		switch prev {
		case types.ChangeKindCreated,
			types.ChangeKindRenamed:
			return prev
		case types.ChangeKindRemoved,
			types.ChangeKindRenamedFrom,
			types.ChangeKindRenamedTo:
			// The path exists again.
			return types.ChangeKindCreated
		}
		return types.ChangeKindModified

	case types.ChangeKindCreated, types.ChangeKindRenamedTo:
		switch prev {
		case types.ChangeKindRenamed:
			return prev
		case types.ChangeKindUnknown:
			return next
		}
		return types.ChangeKindCreated
	}

	return next
}
