// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package dispatch

import (
	"sync"

	"github.com/black-desk/fswatch/pkg/metrics"
	"github.com/black-desk/fswatch/pkg/types"
	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"
)

type Subscription struct {
	id       uint64
	callback func(types.Notification)

	mu        sync.Mutex
	queue     ring
	dropped   int
	cancelled bool
	closing   bool
	signal    chan struct{}

	metrics *metrics.Metrics
	log     *zap.SugaredLogger
}

func (s *Subscription) ID() uint64 {
	return s.id
}

func (s *Subscription) push(n types.Notification) {
	s.mu.Lock()
	if s.cancelled || s.closing {
		s.mu.Unlock()
		return
	}

	dropped := s.queue.push(n)
	if dropped {
		if s.dropped == 0 {
			s.log.Warnw("Subscription queue overflow, dropping oldest notifications.",
				"subscription", s.id,
			)
		}
		s.dropped++
	}
	s.mu.Unlock()

	if dropped {
		s.metrics.ObserveDropped()
	}

	s.wake()
}

func (s *Subscription) wake() {
	select {
	case s.signal <- struct{}{}:
	default:
	}
}

// next blocks until there is something to deliver.
// It returns false once the subscription is cancelled,
// or closed with an empty queue.
func (s *Subscription) next() (n types.Notification, ok bool) {
	for {
		s.mu.Lock()

		if s.cancelled {
			s.mu.Unlock()
			return
		}

		// The overflow marker goes ahead of what survived in the queue.
		if s.dropped > 0 {
			n = types.Notification{
				Type:    types.NotificationTypeOverflow,
				Dropped: s.dropped,
			}
			s.dropped = 0
			s.mu.Unlock()
			ok = true
			return
		}

		n, ok = s.queue.pop()
		if ok {
			s.mu.Unlock()
			return
		}

		if s.closing {
			s.mu.Unlock()
			return
		}

		s.mu.Unlock()

		<-s.signal
	}
}

func (s *Subscription) run() {
	defer s.log.Debugw("Subscription delivery exited.",
		"subscription", s.id,
	)

	for {
		n, ok := s.next()
		if !ok {
			return
		}

		s.deliver(n)
	}
}

// deliver hands n to the callback unless s is cancelled.
// A cancel racing with this check lets n through.
func (s *Subscription) deliver(n types.Notification) {
	s.mu.Lock()
	cancelled := s.cancelled
	s.mu.Unlock()

	if cancelled {
		return
	}

	var pc panics.Catcher
	pc.Try(func() { s.callback(n) })

	if r := pc.Recovered(); r != nil {
		s.log.Errorw("Subscriber callback panicked.",
			"subscription", s.id,
			"notification", n.Type,
			"panic", r.Value,
		)
	}
}

func (s *Subscription) cancel() {
	s.mu.Lock()
	s.cancelled = true
	s.queue.reset()
	s.dropped = 0
	s.mu.Unlock()

	s.wake()
}

func (s *Subscription) close() {
	s.mu.Lock()
	s.closing = true
	s.mu.Unlock()

	s.wake()
}
