// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package types

import "fmt"

type WatchHandle uint64

type RootState uint8

const (
	RootStateActive  RootState = iota // Active
	RootStateStopped                  // Stopped
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=RootState -linecomment

type WatchRoot struct {
	Handle    WatchHandle
	Path      string
	Recursive bool
	State     RootState
	// Redundant is set when the root is nested under another active root.
	Redundant bool
}

func (r *WatchRoot) String() string {
	return fmt.Sprintf(
		"root [ %d | %s | recursive=%t | %s ]",
		r.Handle, r.Path, r.Recursive, r.State,
	)
}
