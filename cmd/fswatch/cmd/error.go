// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"os"
)

// ErrCancelBySignal is the cause of the run context
// when fswatch is asked to exit.
// The root command treats it as a clean exit.
type ErrCancelBySignal struct {
	Signal os.Signal
}

func (e *ErrCancelBySignal) Error() string {
	return fmt.Sprintf("fswatch stopped by %v.", e.Signal)
}

// ErrRootNotDirectory is reported by `check roots`
// for a configured root which exists but is not a directory.
type ErrRootNotDirectory struct {
	Path string
	Mode os.FileMode
}

func (e *ErrRootNotDirectory) Error() string {
	return fmt.Sprintf("root %s is not a directory (mode %v).", e.Path, e.Mode)
}
