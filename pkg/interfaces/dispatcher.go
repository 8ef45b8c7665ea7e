// Created by interfacer; DO NOT EDIT

package interfaces

import (
	"github.com/black-desk/fswatch/pkg/dispatch"
	"github.com/black-desk/fswatch/pkg/types"
)

// Dispatcher is an interface generated for "github.com/black-desk/fswatch/pkg/dispatch.Dispatcher".
type Dispatcher interface {
	Close()
	Publish(types.Notification)
	PublishEvents([]types.CoalescedEvent)
	Subscribe(func(types.Notification)) (*dispatch.Subscription, error)
	Unsubscribe(*dispatch.Subscription) error
}
