// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build !linux && !(darwin && !kqueue && cgo)

package notifysource

import (
	"github.com/black-desk/fswatch/pkg/types"
	"github.com/rjeczalik/notify"
)

var watchEvents = []notify.Event{notify.All}

func convert(ei notify.EventInfo) (ret converted, ok bool) {
	switch ei.Event() {
	case notify.Create:
		ret.kind = types.ChangeKindCreated
	case notify.Write:
		ret.kind = types.ChangeKindModified
	case notify.Remove:
		ret.kind = types.ChangeKindRemoved
	case notify.Rename:
		ret.kind = types.ChangeKindUnknown
	default:
		return
	}

	ok = true
	return
}
