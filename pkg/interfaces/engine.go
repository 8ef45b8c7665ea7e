// Created by interfacer; DO NOT EDIT

package interfaces

import (
	"context"

	"github.com/black-desk/fswatch/pkg/dispatch"
	"github.com/black-desk/fswatch/pkg/types"
)

// Engine is an interface generated for "github.com/black-desk/fswatch/pkg/fswatch.Engine".
type Engine interface {
	AddRoot(string, bool) (types.WatchRoot, error)
	Close()
	DrainNow() []types.CoalescedEvent
	OnRawEvent(types.RawEvent)
	OnSourceFailure(types.WatchHandle, error)
	RemoveRoot(types.WatchHandle) error
	Roots() []types.WatchRoot
	Run(context.Context) error
	Subscribe(func(types.Notification)) (*dispatch.Subscription, error)
	Unsubscribe(*dispatch.Subscription) error
}
