// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package types

import "fmt"

func (e *CoalescedEvent) String() string {
	final := ""
	if e.Final {
		final = " | final"
	}

	if e.Kind == ChangeKindRenamed {
		return fmt.Sprintf("event [ %s | %s -> %s | coalesced=%d%s ]",
			e.Kind, e.OldPath, e.Path, e.Coalesced, final)
	}

	return fmt.Sprintf("event [ %s | %s | coalesced=%d%s ]",
		e.Kind, e.Path, e.Coalesced, final)
}

func (n *Notification) String() string {
	switch n.Type {
	case NotificationTypeEvent:
		return n.Event.String()
	case NotificationTypeOverflow:
		return fmt.Sprintf("overflow [ dropped=%d ]", n.Dropped)
	case NotificationTypeRootRemoved:
		return fmt.Sprintf("removed %s", n.Root.String())
	case NotificationTypeSourceFailure:
		return fmt.Sprintf("failed %s: %v", n.Root.String(), n.Err)
	}

	panic("this should never happened")
}
