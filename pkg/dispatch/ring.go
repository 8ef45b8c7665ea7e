// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package dispatch

import "github.com/black-desk/fswatch/pkg/types"

// ring is a fixed size FIFO which drops its oldest item when full.
type ring struct {
	buf  []types.Notification
	head int
	size int
}

func newRing(capacity int) ring {
	return ring{buf: make([]types.Notification, capacity)}
}

// push appends n and reports whether the oldest item had to be dropped.
func (r *ring) push(n types.Notification) (dropped bool) {
	if r.size == len(r.buf) {
		r.buf[r.head] = types.Notification{}
		r.head = (r.head + 1) % len(r.buf)
		r.size--
		dropped = true
	}

	r.buf[(r.head+r.size)%len(r.buf)] = n
	r.size++
	return
}

func (r *ring) pop() (n types.Notification, ok bool) {
	if r.size == 0 {
		return
	}

	n, ok = r.buf[r.head], true
	r.buf[r.head] = types.Notification{}
	r.head = (r.head + 1) % len(r.buf)
	r.size--
	return
}

func (r *ring) reset() {
	for i := range r.buf {
		r.buf[i] = types.Notification{}
	}
	r.head = 0
	r.size = 0
}
