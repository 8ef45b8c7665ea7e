//go:build linux

package notifysource

import (
	"github.com/black-desk/fswatch/pkg/types"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rjeczalik/notify"
	"golang.org/x/sys/unix"
)

type fakeEventInfo struct {
	event notify.Event
	path  string
	sys   *unix.InotifyEvent
}

func (e *fakeEventInfo) Event() notify.Event { return e.event }
func (e *fakeEventInfo) Path() string        { return e.path }
func (e *fakeEventInfo) Sys() interface{}    { return e.sys }

var _ = Describe("Inotify event conversion", func() {
	DescribeTable("known events",
		func(event notify.Event, kind types.ChangeKind, vanished bool) {
			c, ok := convert(&fakeEventInfo{
				event: event,
				path:  "/data/a",
				sys:   &unix.InotifyEvent{Cookie: 7},
			})
			Expect(ok).To(BeTrue())
			Expect(c.kind).To(Equal(kind))
			Expect(c.cookie).To(Equal(uint32(7)))
			Expect(c.vanished).To(Equal(vanished))
			Expect(c.overflow).To(BeFalse())
		},
		Entry("IN_CREATE", notify.InCreate, types.ChangeKindCreated, false),
		Entry("IN_MODIFY", notify.InModify, types.ChangeKindModified, false),
		Entry("IN_ATTRIB", notify.InAttrib, types.ChangeKindModified, false),
		Entry("IN_CLOSE_WRITE", notify.InCloseWrite, types.ChangeKindModified, false),
		Entry("IN_DELETE", notify.InDelete, types.ChangeKindRemoved, false),
		Entry("IN_DELETE_SELF", notify.InDeleteSelf, types.ChangeKindRemoved, true),
		Entry("IN_MOVED_FROM", notify.InMovedFrom, types.ChangeKindRenamedFrom, false),
		Entry("IN_MOVED_TO", notify.InMovedTo, types.ChangeKindRenamedTo, false),
	)

	It("should ignore events it did not ask for.", func() {
		_, ok := convert(&fakeEventInfo{event: notify.InOpen, path: "/data/a"})
		Expect(ok).To(BeFalse())
	})

	It("should leave the cookie empty without inotify data.", func() {
		c, ok := convert(&fakeEventInfo{event: notify.InCreate, path: "/data/a"})
		Expect(ok).To(BeTrue())
		Expect(c.cookie).To(BeZero())
	})
})
