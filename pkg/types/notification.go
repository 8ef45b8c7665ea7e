// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package types

type NotificationType uint8

const (
	NotificationTypeEvent         NotificationType = iota // Event
	NotificationTypeOverflow                              // Overflow
	NotificationTypeRootRemoved                           // RootRemoved
	NotificationTypeSourceFailure                         // SourceFailure
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=NotificationType -linecomment

// Notification is what a subscriber receives.
//
// Event is set for NotificationTypeEvent.
// Dropped is set for NotificationTypeOverflow,
// it counts the notifications discarded from this subscription's queue.
// Root is set for NotificationTypeRootRemoved and NotificationTypeSourceFailure,
// Err is set for NotificationTypeSourceFailure.
type Notification struct {
	Type    NotificationType
	Event   *CoalescedEvent
	Root    *WatchRoot
	Dropped int
	Err     error
}
