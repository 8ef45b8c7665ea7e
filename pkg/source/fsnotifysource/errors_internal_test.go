package fsnotifysource

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/black-desk/fswatch/pkg/source"
	"github.com/black-desk/fswatch/pkg/types"
	. "github.com/black-desk/lib/go/gomega-helper"
	"github.com/fsnotify/fsnotify"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sourcegraph/conc/pool"
)

type sinkRecord struct {
	mu       sync.Mutex
	events   []types.RawEvent
	failures map[types.WatchHandle]error
}

func (s *sinkRecord) OnRawEvent(ev types.RawEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *sinkRecord) OnSourceFailure(handle types.WatchHandle, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[handle] = err
}

func (s *sinkRecord) rawEvents() []types.RawEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	ret := make([]types.RawEvent, len(s.events))
	copy(ret, s.events)
	return ret
}

func (s *sinkRecord) failed(handle types.WatchHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failures[handle]
}

var _ = Describe("Fsnotify source errors", func() {
	var (
		src    *Source
		mock   *clock.Mock
		sink   *sinkRecord
		p      *pool.ContextPool
		cancel context.CancelFunc
		tmpDir string
		err    error
	)

	BeforeEach(func() {
		tmpDir, err = os.MkdirTemp("", "fsnotifysource-*")
		Expect(err).To(Succeed())

		Expect(os.Mkdir(filepath.Join(tmpDir, "a"), 0o755)).To(Succeed())
		Expect(os.Mkdir(filepath.Join(tmpDir, "b"), 0o755)).To(Succeed())

		mock = clock.NewMock()
		src, err = New(WithClock(mock))
		Expect(err).To(Succeed())

		Expect(src.Watch(types.WatchRoot{
			Handle: 1, Path: filepath.Join(tmpDir, "a"), Recursive: true,
		})).To(Succeed())
		Expect(src.Watch(types.WatchRoot{
			Handle: 2, Path: filepath.Join(tmpDir, "b"), Recursive: true,
		})).To(Succeed())

		sink = &sinkRecord{failures: map[types.WatchHandle]error{}}

		var ctx context.Context
		ctx, cancel = context.WithCancel(context.Background())
		p = pool.New().WithContext(ctx)
		p.Go(func(ctx context.Context) error {
			return src.Run(ctx, sink)
		})
	})

	AfterEach(func() {
		cancel()
		Expect(p.Wait()).To(MatchErr(context.Canceled))
		Expect(os.RemoveAll(tmpDir)).To(Succeed())
	})

	It("should ask every root for a rescan on overflow.", func() {
		src.watcher.Errors <- fsnotify.ErrEventOverflow

		Eventually(sink.rawEvents).Should(ConsistOf(
			types.RawEvent{
				Path:   filepath.Join(tmpDir, "a"),
				Kind:   types.ChangeKindUnknown,
				Handle: 1,
				Time:   mock.Now(),
			},
			types.RawEvent{
				Path:   filepath.Join(tmpDir, "b"),
				Kind:   types.ChangeKindUnknown,
				Handle: 2,
				Time:   mock.Now(),
			},
		))
	})

	It("should fail every root on other errors.", func() {
		broken := errors.New("broken")
		src.watcher.Errors <- broken

		Eventually(func() error { return sink.failed(1) }).Should(MatchErr(broken))
		Eventually(func() error { return sink.failed(2) }).Should(MatchErr(broken))

		var rootErr *source.RootError
		Expect(errors.As(sink.failed(1), &rootErr)).To(BeTrue())
		Expect(rootErr.Root.Handle).To(Equal(types.WatchHandle(1)))

		src.mu.Lock()
		defer src.mu.Unlock()
		Expect(src.roots).To(BeEmpty())
		Expect(src.dirs).To(BeEmpty())
	})
})

var _ = Describe("Fsnotify source which never ran", func() {
	It("should release the watcher on close.", func() {
		tmpDir, err := os.MkdirTemp("", "fsnotifysource-*")
		Expect(err).To(Succeed())
		defer os.RemoveAll(tmpDir)

		src, err := New()
		Expect(err).To(Succeed())
		Expect(src.Watch(types.WatchRoot{
			Handle: 1, Path: tmpDir, Recursive: true,
		})).To(Succeed())

		Expect(src.Close()).To(Succeed())

		src.mu.Lock()
		Expect(src.roots).To(BeEmpty())
		Expect(src.dirs).To(BeEmpty())
		src.mu.Unlock()

		// The watcher is closed, so adding to it fails.
		Expect(src.watcher.Add(tmpDir)).NotTo(Succeed())

		Expect(src.Run(context.Background(), &sinkRecord{})).
			To(MatchErr(source.ErrSourceStopped))
	})
})
