// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package source defines the boundary between the engine
// and the platform backends which produce raw change notifications.
package source

import (
	"context"

	"github.com/black-desk/fswatch/pkg/types"
)

// Sink receives what a Source observes.
// Its methods are called from the goroutines of the source
// and must not block for long.
type Sink interface {
	OnRawEvent(ev types.RawEvent)
	// OnSourceFailure reports that the source can no longer observe root.
	// Nothing more is reported for that root afterwards.
	OnSourceFailure(handle types.WatchHandle, err error)
}

// Source is a platform backend.
// Watch and Unwatch may be called both before and while Run is running.
type Source interface {
	Watch(root types.WatchRoot) error
	Unwatch(root types.WatchRoot) error
	// Run delivers events to sink until ctx is done,
	// then releases every watch.
	Run(ctx context.Context, sink Sink) error
	// Close releases the watches of a source which never ran.
	// A source which has been started releases them when Run returns,
	// so Close does nothing then.
	Close() error
}
