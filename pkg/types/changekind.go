// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package types

// ChangeKind describes what happened to a path.
type ChangeKind uint8

const (
	ChangeKindUnknown     ChangeKind = iota // Unknown
	ChangeKindCreated                       // Created
	ChangeKindModified                      // Modified
	ChangeKindRemoved                       // Removed
	ChangeKindRenamedFrom                   // RenamedFrom
	ChangeKindRenamedTo                     // RenamedTo
	// ChangeKindRenamed is never produced by a source.
	// It is the result of pairing a RenamedFrom with a RenamedTo.
	ChangeKindRenamed // Renamed
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=ChangeKind -linecomment
