// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build linux

package notifysource

import (
	"github.com/black-desk/fswatch/pkg/types"
	"github.com/rjeczalik/notify"
	"golang.org/x/sys/unix"
)

// Inotify events are requested directly,
// as only they carry the cookie pairing the two legs of a rename.
var watchEvents = []notify.Event{
	notify.InCreate,
	notify.InModify,
	notify.InAttrib,
	notify.InCloseWrite,
	notify.InDelete,
	notify.InMovedFrom,
	notify.InMovedTo,
	notify.InDeleteSelf,
}

func convert(ei notify.EventInfo) (ret converted, ok bool) {
	switch ei.Event() {
	case notify.InCreate:
		ret.kind = types.ChangeKindCreated
	case notify.InModify, notify.InAttrib, notify.InCloseWrite:
		ret.kind = types.ChangeKindModified
	case notify.InDelete:
		ret.kind = types.ChangeKindRemoved
	case notify.InDeleteSelf:
		ret.kind = types.ChangeKindRemoved
		ret.vanished = true
	case notify.InMovedFrom:
		ret.kind = types.ChangeKindRenamedFrom
	case notify.InMovedTo:
		ret.kind = types.ChangeKindRenamedTo
	default:
		return
	}

	if sys, isInotify := ei.Sys().(*unix.InotifyEvent); isInotify && sys != nil {
		ret.cookie = sys.Cookie
	}

	ok = true
	return
}
