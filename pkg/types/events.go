// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package types

import "time"

// RawEvent is a change notification as reported by a platform backend.
// It may be duplicated or reported slightly out of order.
type RawEvent struct {
	Path string
	Kind ChangeKind
	Time time.Time
	// Cookie correlates the two legs of a rename.
	// Zero means the backend does not provide one.
	Cookie uint32
	// Handle is set by backends that know which root produced the event.
	// If Path is relative it is resolved against that root.
	Handle WatchHandle
}

// CoalescedEvent is the result of merging all raw events of a path
// that arrived during one window.
type CoalescedEvent struct {
	Path string
	// OldPath is only set for ChangeKindRenamed.
	OldPath     string
	Kind        ChangeKind
	WindowStart time.Time
	WindowEnd   time.Time
	// Coalesced is the number of raw events merged into the first one.
	Coalesced int
	Handle    WatchHandle
	// Final is set when the event was flushed because its root went away.
	Final bool
}
