// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package source

import (
	"errors"
	"fmt"

	"github.com/black-desk/fswatch/pkg/types"
)

var (
	ErrSinkMissing    = errors.New("sink is missing.")
	ErrAlreadyRunning = errors.New("source is already running.")
	ErrSourceStopped  = errors.New("source is stopped.")
	ErrNotWatched     = errors.New("root is not watched.")
	ErrRootVanished   = errors.New("root vanished.")
	ErrOverflow       = errors.New("backend event queue overflowed.")
)

// RootError is what a backend passes to Sink.OnSourceFailure.
type RootError struct {
	Root types.WatchRoot
	Err  error
}

func (e *RootError) Error() string {
	return fmt.Sprintf("watch %s: %s", e.Root.Path, e.Err)
}

func (e *RootError) Unwrap() error {
	return e.Err
}
