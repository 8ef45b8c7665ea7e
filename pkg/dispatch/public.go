// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package dispatch

import (
	"github.com/black-desk/fswatch/pkg/types"
	. "github.com/black-desk/lib/go/errwrap"
)

// Subscribe registers callback.
// Callbacks of one subscription run one at a time, in publish order.
func (d *Dispatcher) Subscribe(
	callback func(types.Notification),
) (
	ret *Subscription, err error,
) {
	defer Wrap(&err, "subscribe")

	if callback == nil {
		err = ErrCallbackMissing
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		err = ErrDispatcherClosed
		return
	}

	d.last++
	s := &Subscription{
		id:       d.last,
		callback: callback,
		queue:    newRing(d.capacity),
		signal:   make(chan struct{}, 1),
		metrics:  d.metrics,
		log:      d.log,
	}

	d.subs[s] = struct{}{}
	d.metrics.SetSubscriptions(len(d.subs))

	d.wg.Go(s.run)

	d.log.Debugw("New subscription.",
		"subscription", s.id,
	)

	ret = s
	return
}

// Unsubscribe cancels s and discards what is still queued for it.
// It does not wait for the delivery goroutine of s,
// so a callback may unsubscribe its own subscription.
// The notification that goroutine already took off the queue
// may still reach the callback after Unsubscribe returns.
// Nothing else does.
func (d *Dispatcher) Unsubscribe(s *Subscription) (err error) {
	defer Wrap(&err, "unsubscribe")

	d.mu.Lock()
	_, ok := d.subs[s]
	delete(d.subs, s)
	d.metrics.SetSubscriptions(len(d.subs))
	d.mu.Unlock()

	if !ok {
		err = ErrUnknownSubscription
		return
	}

	s.cancel()

	d.log.Debugw("Subscription cancelled.",
		"subscription", s.id,
	)

	return
}

// Publish queues n for every active subscription. It never blocks.
func (d *Dispatcher) Publish(n types.Notification) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}

	subs := make([]*Subscription, 0, len(d.subs))
	for s := range d.subs {
		subs = append(subs, s)
	}
	d.mu.Unlock()

	for _, s := range subs {
		s.push(n)
	}
}

// PublishEvents publishes every event of a flushed batch.
func (d *Dispatcher) PublishEvents(evs []types.CoalescedEvent) {
	for i := range evs {
		ev := evs[i]
		d.Publish(types.Notification{
			Type:  types.NotificationTypeEvent,
			Event: &ev,
		})
	}
}

// Close stops accepting notifications,
// waits for every subscription to drain its queue,
// then releases them.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true

	subs := d.subs
	d.subs = map[*Subscription]struct{}{}
	d.metrics.SetSubscriptions(0)
	d.mu.Unlock()

	for s := range subs {
		s.close()
	}

	d.wg.Wait()

	d.log.Debugw("Dispatcher closed.")
}
