package fswatch_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/black-desk/fswatch/pkg/debounce"
	. "github.com/black-desk/fswatch/pkg/fswatch"
	"github.com/black-desk/fswatch/pkg/fswatch/config"
	"github.com/black-desk/fswatch/pkg/metrics"
	"github.com/black-desk/fswatch/pkg/registry"
	"github.com/black-desk/fswatch/pkg/source/fakesource"
	"github.com/black-desk/fswatch/pkg/source/pollsource"
	"github.com/black-desk/fswatch/pkg/types"
	. "github.com/black-desk/lib/go/gomega-helper"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sourcegraph/conc/pool"
)

type collector struct {
	mu  sync.Mutex
	got []types.Notification
}

func (c *collector) callback(n types.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, n)
}

func (c *collector) notifications() []types.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	ret := make([]types.Notification, len(c.got))
	copy(ret, c.got)
	return ret
}

func (c *collector) kinds() []types.NotificationType {
	ret := []types.NotificationType{}
	for _, n := range c.notifications() {
		ret = append(ret, n.Type)
	}
	return ret
}

type errorSink struct {
	mu   sync.Mutex
	errs []error
}

func (s *errorSink) report(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = append(s.errs, err)
}

func (s *errorSink) reported() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ret := make([]error, len(s.errs))
	copy(ret, s.errs)
	return ret
}

func testConfig(content string) *config.Config {
	cfg, err := config.New(config.WithContent([]byte(content)))
	Expect(err).To(Succeed())
	return cfg
}

var _ = Describe("Engine", func() {
	var (
		e       *Engine
		src     *fakesource.Source
		mock    *clock.Mock
		m       *metrics.Metrics
		errs    *errorSink
		col     *collector
		err     error
		cfgYAML string
	)

	raw := func(path string, kind types.ChangeKind) types.RawEvent {
		return types.RawEvent{Path: path, Kind: kind, Time: mock.Now()}
	}

	BeforeEach(func() {
		cfgYAML = "version: 1\nsubscription-queue-capacity: 64\n"
	})

	JustBeforeEach(func() {
		src = fakesource.New()
		mock = clock.NewMock()
		m = metrics.New()
		errs = &errorSink{}
		col = &collector{}

		e, err = New(
			WithConfig(testConfig(cfgYAML)),
			WithSource(src),
			WithClock(mock),
			WithMetrics(m),
			WithErrorSink(errs.report),
		)
		Expect(err).To(Succeed())

		_, err = e.Subscribe(col.callback)
		Expect(err).To(Succeed())
	})

	AfterEach(func() {
		e.Close()
	})

	Context("with a root at /data", func() {
		var root types.WatchRoot

		JustBeforeEach(func() {
			root, err = e.AddRoot("/data", true)
			Expect(err).To(Succeed())
		})

		It("should watch the root through the source.", func() {
			Expect(src.Watched()).To(ConsistOf(root))
			Expect(e.Roots()).To(ConsistOf(root))
		})

		It("should return the same root when added again.", func() {
			var again types.WatchRoot
			again, err = e.AddRoot("/data/", false)
			Expect(err).To(Succeed())
			Expect(again.Handle).To(Equal(root.Handle))
			Expect(again.Recursive).To(BeTrue())
			Expect(src.Watched()).To(HaveLen(1))
		})

		It("should coalesce raw events and publish them.", func() {
			e.OnRawEvent(raw("/data/a", types.ChangeKindCreated))
			e.OnRawEvent(raw("/data/a", types.ChangeKindModified))
			e.OnRawEvent(raw("/data/b", types.ChangeKindModified))

			evs := e.DrainNow()
			Expect(evs).To(HaveLen(2))

			Eventually(col.kinds).Should(Equal([]types.NotificationType{
				types.NotificationTypeEvent,
				types.NotificationTypeEvent,
			}))

			ns := col.notifications()
			byPath := map[string]*types.CoalescedEvent{}
			for i := range ns {
				byPath[ns[i].Event.Path] = ns[i].Event
			}

			Expect(byPath["/data/a"].Kind).To(Equal(types.ChangeKindCreated))
			Expect(byPath["/data/a"].Coalesced).To(Equal(1))
			Expect(byPath["/data/a"].Handle).To(Equal(root.Handle))
			Expect(byPath["/data/b"].Kind).To(Equal(types.ChangeKindModified))

			Expect(testutil.ToFloat64(m.RawEvents.WithLabelValues("Created"))).To(Equal(1.0))
			Expect(testutil.ToFloat64(m.RawEvents.WithLabelValues("Modified"))).To(Equal(2.0))
			Expect(testutil.ToFloat64(m.PendingWindows)).To(BeZero())
		})

		It("should resolve paths relative to the reporting root.", func() {
			e.OnRawEvent(types.RawEvent{
				Path:   "x/y",
				Kind:   types.ChangeKindModified,
				Handle: root.Handle,
			})

			evs := e.DrainNow()
			Expect(evs).To(HaveLen(1))
			Expect(evs[0].Path).To(Equal("/data/x/y"))
		})

		It("should report paths outside every root.", func() {
			e.OnRawEvent(raw("/elsewhere/a", types.ChangeKindCreated))

			Expect(e.DrainNow()).To(BeEmpty())
			Expect(errs.reported()).To(HaveLen(1))
			Expect(errs.reported()[0]).To(MatchErr(registry.ErrUnresolvedPath))
			Expect(testutil.ToFloat64(m.UnresolvedPaths)).To(Equal(1.0))
		})

		Context("then removed", func() {
			JustBeforeEach(func() {
				e.OnRawEvent(raw("/data/a", types.ChangeKindModified))
				Expect(e.RemoveRoot(root.Handle)).To(Succeed())
			})

			It("should flush pending windows as final before the removal notice.", func() {
				Eventually(col.kinds).Should(Equal([]types.NotificationType{
					types.NotificationTypeEvent,
					types.NotificationTypeRootRemoved,
				}))

				ns := col.notifications()
				Expect(ns[0].Event.Path).To(Equal("/data/a"))
				Expect(ns[0].Event.Final).To(BeTrue())
				Expect(ns[1].Root.Handle).To(Equal(root.Handle))
			})

			It("should stop watching the root.", func() {
				Expect(src.Watched()).To(BeEmpty())
				Expect(e.Roots()).To(BeEmpty())
			})

			It("should not accept events of the root any more.", func() {
				e.OnRawEvent(raw("/data/b", types.ChangeKindModified))
				Expect(e.DrainNow()).To(BeEmpty())
				Expect(errs.reported()).To(ContainElement(MatchErr(registry.ErrUnresolvedPath)))
			})

			It("should fail to remove it again.", func() {
				Expect(e.RemoveRoot(root.Handle)).To(MatchErr(registry.ErrUnknownHandle))
			})
		})

		Context("when the source fails it", func() {
			failure := errors.New("device gone")

			JustBeforeEach(func() {
				e.OnRawEvent(raw("/data/a", types.ChangeKindCreated))
				e.OnSourceFailure(root.Handle, failure)
			})

			It("should flush its windows and tell every subscriber.", func() {
				Eventually(col.kinds).Should(Equal([]types.NotificationType{
					types.NotificationTypeEvent,
					types.NotificationTypeSourceFailure,
				}))

				ns := col.notifications()
				Expect(ns[0].Event.Final).To(BeTrue())
				Expect(ns[1].Root.Handle).To(Equal(root.Handle))
				Expect(ns[1].Root.State).To(Equal(types.RootStateStopped))
				Expect(ns[1].Err).To(MatchErr(failure))
				Expect(testutil.ToFloat64(m.SourceFailures)).To(Equal(1.0))
			})

			It("should keep the root but stop resolving to it.", func() {
				Expect(e.Roots()).To(HaveLen(1))
				Expect(e.Roots()[0].State).To(Equal(types.RootStateStopped))

				e.OnRawEvent(raw("/data/b", types.ChangeKindModified))
				Expect(e.DrainNow()).To(BeEmpty())
			})

			It("should reactivate the root when added again.", func() {
				var again types.WatchRoot
				again, err = e.AddRoot("/data", true)
				Expect(err).To(Succeed())
				Expect(again.State).To(Equal(types.RootStateActive))

				e.OnRawEvent(raw("/data/b", types.ChangeKindModified))
				Expect(e.DrainNow()).To(HaveLen(1))
			})
		})
	})

	It("should roll back a root the source refused.", func() {
		refused := errors.New("refused")
		src.FailWatch(refused)

		_, err = e.AddRoot("/data", true)
		Expect(err).To(MatchErr(refused))
		Expect(e.Roots()).To(BeEmpty())
	})

	It("should release a source which never ran on close.", func() {
		_, err = e.AddRoot("/data", true)
		Expect(err).To(Succeed())

		e.Close()

		Expect(src.Closed()).To(BeTrue())
		Expect(src.Watched()).To(BeEmpty())
		Expect(e.Run(context.Background())).To(MatchErr(ErrEngineClosed))
	})

	It("should reject relative roots.", func() {
		_, err = e.AddRoot("data", true)
		Expect(err).To(MatchErr(registry.ErrRelativePath))
	})

	Context("running", func() {
		var (
			wait   func() error
			cancel context.CancelFunc
		)

		BeforeEach(func() {
			cfgYAML = "" +
				"version: 1\n" +
				"max-pending-entries: 2\n" +
				"roots:\n" +
				"  - path: /data\n"
		})

		JustBeforeEach(func() {
			var ctx context.Context
			ctx, cancel = context.WithCancel(context.Background())

			p := pool.New().WithErrors()
			p.Go(func() error {
				return e.Run(ctx)
			})
			wait = sync.OnceValue(p.Wait)

			Eventually(src.Ready()).Should(BeClosed())
		})

		AfterEach(func() {
			cancel()
			_ = wait()
		})

		It("should flush windows once they are quiet.", func() {
			src.Emit(raw("/data/a", types.ChangeKindCreated))
			src.Emit(raw("/data/a", types.ChangeKindModified))

			Consistently(col.kinds, 50*time.Millisecond).Should(BeEmpty())

			Eventually(func() []types.NotificationType {
				mock.Add(10 * time.Millisecond)
				return col.kinds()
			}).Should(Equal([]types.NotificationType{
				types.NotificationTypeEvent,
			}))

			ns := col.notifications()
			Expect(ns[0].Event.Kind).To(Equal(types.ChangeKindCreated))
			Expect(ns[0].Event.Coalesced).To(Equal(1))
		})

		It("should drain pending windows on shutdown.", func() {
			src.Emit(raw("/data/a", types.ChangeKindRemoved))

			cancel()
			Expect(wait()).To(MatchErr(context.Canceled))

			Expect(col.kinds()).To(Equal([]types.NotificationType{
				types.NotificationTypeEvent,
			}))
			Expect(col.notifications()[0].Event.Kind).To(Equal(types.ChangeKindRemoved))
		})

		It("should stop when the pending table is exhausted.", func() {
			src.Emit(raw("/data/a", types.ChangeKindCreated))
			src.Emit(raw("/data/b", types.ChangeKindCreated))
			src.Emit(raw("/data/c", types.ChangeKindCreated))

			Expect(wait()).To(MatchErr(debounce.ErrPendingTableFull))
			Expect(errs.reported()).To(ContainElement(MatchErr(debounce.ErrPendingTableFull)))

			// Windows accepted before the failure are still delivered.
			Expect(col.notifications()).To(HaveLen(2))
		})

		It("should stop running when closed.", func() {
			src.Emit(raw("/data/a", types.ChangeKindRemoved))

			e.Close()
			Expect(wait()).To(Succeed())

			Expect(col.kinds()).To(Equal([]types.NotificationType{
				types.NotificationTypeEvent,
			}))
			Expect(src.Watched()).To(BeEmpty())
			Expect(src.Closed()).To(BeFalse())

			_, err = e.Subscribe(col.callback)
			Expect(err).To(HaveOccurred())
		})

		It("should refuse to run twice.", func() {
			Expect(e.Run(context.Background())).To(MatchErr(ErrAlreadyRunning))
		})
	})
})

var _ = Describe("Source from configuration", func() {
	load := func(content string) *config.Config {
		cfg, err := config.New(config.WithContent([]byte(content)))
		Expect(err).To(Succeed())
		return cfg
	}

	It("should create the poll source.", func() {
		src, err := NewSource(
			load("version: 1\nbackend: poll\npoll-interval-ms: 250\nfollow-symlinks: true\n"),
			clock.NewMock(), nil,
		)
		Expect(err).To(Succeed())
		Expect(src).To(BeAssignableToTypeOf(&pollsource.Source{}))
		Expect(src.Close()).To(Succeed())
	})

	It("should reject an unknown backend.", func() {
		cfg := load("version: 1\nbackend: poll\n")
		cfg.Backend = "kqueue"

		_, err := NewSource(cfg, clock.NewMock(), nil)
		Expect(err).To(MatchErr(ErrUnknownBackend))
	})
})

func TestFswatch(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Fswatch Suite")
}
