package types_test

import (
	"errors"
	"testing"

	. "github.com/black-desk/fswatch/pkg/types"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Notification", func() {
	root := &WatchRoot{Handle: 3, Path: "/data", Recursive: true}

	DescribeTable("formatting",
		func(n Notification, expect string) {
			Expect(n.String()).To(Equal(expect))
		},
		Entry("an event",
			Notification{
				Type: NotificationTypeEvent,
				Event: &CoalescedEvent{
					Path: "/data/a", Kind: ChangeKindCreated, Coalesced: 2,
				},
			},
			"event [ Created | /data/a | coalesced=2 ]"),
		Entry("a final rename",
			Notification{
				Type: NotificationTypeEvent,
				Event: &CoalescedEvent{
					Path: "/data/b", OldPath: "/data/a",
					Kind: ChangeKindRenamed, Final: true,
				},
			},
			"event [ Renamed | /data/a -> /data/b | coalesced=0 | final ]"),
		Entry("an overflow",
			Notification{Type: NotificationTypeOverflow, Dropped: 5},
			"overflow [ dropped=5 ]"),
		Entry("a removed root",
			Notification{Type: NotificationTypeRootRemoved, Root: root},
			"removed root [ 3 | /data | recursive=true | Active ]"),
		Entry("a failed root",
			Notification{
				Type: NotificationTypeSourceFailure,
				Root: root,
				Err:  errors.New("gone"),
			},
			"failed root [ 3 | /data | recursive=true | Active ]: gone"),
	)
})

func TestTypes(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Types Suite")
}
