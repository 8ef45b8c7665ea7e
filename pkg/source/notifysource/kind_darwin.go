// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build darwin && !kqueue && cgo

package notifysource

import (
	"github.com/black-desk/fswatch/pkg/types"
	"github.com/rjeczalik/notify"
)

var watchEvents = []notify.Event{
	notify.Create,
	notify.Remove,
	notify.Write,
	notify.Rename,
	notify.FSEventsInodeMetaMod,
	notify.FSEventsChangeOwner,
	notify.FSEventsXattrMod,
	notify.FSEventsMustScanSubDirs,
	notify.FSEventsUserDropped,
	notify.FSEventsKernelDropped,
	notify.FSEventsRootChanged,
}

// FSEvents neither tells the two legs of a rename apart nor pairs them,
// so renames are reported as Unknown.
func convert(ei notify.EventInfo) (ret converted, ok bool) {
	switch ei.Event() {
	case notify.Create:
		ret.kind = types.ChangeKindCreated
	case notify.Write,
		notify.FSEventsInodeMetaMod,
		notify.FSEventsChangeOwner,
		notify.FSEventsXattrMod:
		ret.kind = types.ChangeKindModified
	case notify.Remove:
		ret.kind = types.ChangeKindRemoved
	case notify.Rename:
		ret.kind = types.ChangeKindUnknown
	case notify.FSEventsMustScanSubDirs,
		notify.FSEventsUserDropped,
		notify.FSEventsKernelDropped:
		ret.kind = types.ChangeKindUnknown
		ret.overflow = true
	case notify.FSEventsRootChanged:
		ret.kind = types.ChangeKindRemoved
		ret.vanished = true
	default:
		return
	}

	ok = true
	return
}
