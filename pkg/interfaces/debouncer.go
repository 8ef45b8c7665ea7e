// Created by interfacer; DO NOT EDIT

package interfaces

import (
	"context"
	"time"

	"github.com/black-desk/fswatch/pkg/types"
)

// Debouncer is an interface generated for "github.com/black-desk/fswatch/pkg/debounce.Debouncer".
type Debouncer interface {
	DrainNow() []types.CoalescedEvent
	Expire(time.Time) []types.CoalescedEvent
	FlushHandle(types.WatchHandle) []types.CoalescedEvent
	Ingest(types.RawEvent) error
	Pending() int
	Run(context.Context) error
}
