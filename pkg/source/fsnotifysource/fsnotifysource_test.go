package fsnotifysource_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/black-desk/fswatch/pkg/source"
	. "github.com/black-desk/fswatch/pkg/source/fsnotifysource"
	"github.com/black-desk/fswatch/pkg/types"
	. "github.com/black-desk/lib/go/gomega-helper"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sourcegraph/conc/pool"
)

type recordingSink struct {
	mu       sync.Mutex
	events   []types.RawEvent
	failures []error
}

func (s *recordingSink) OnRawEvent(ev types.RawEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordingSink) OnSourceFailure(_ types.WatchHandle, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, err)
}

func (s *recordingSink) kinds(path string) func() []types.ChangeKind {
	return func() []types.ChangeKind {
		s.mu.Lock()
		defer s.mu.Unlock()
		ret := []types.ChangeKind{}
		for i := range s.events {
			if s.events[i].Path == path {
				ret = append(ret, s.events[i].Kind)
			}
		}
		return ret
	}
}

func (s *recordingSink) failed() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ret := make([]error, len(s.failures))
	copy(ret, s.failures)
	return ret
}

var _ = Describe("Fsnotify source", Ordered, func() {
	var (
		src    *Source
		sink   *recordingSink
		p      *pool.ContextPool
		cancel context.CancelFunc
		tmpDir string
		root   types.WatchRoot
		err    error
	)

	BeforeAll(func() {
		if os.Getenv("FSWATCH_TEST_BACKENDS") == "1" {
			return
		}

		Skip("" +
			"Skip tests of fsnotifysource as they depend on the timing of the host kernel. " +
			"If you really want to run tests of this package, " +
			"set FSWATCH_TEST_BACKENDS=1.",
		)
	})

	BeforeEach(func() {
		tmpDir, err = os.MkdirTemp("", "fsnotifysource-*")
		Expect(err).To(Succeed())
		tmpDir, err = filepath.EvalSymlinks(tmpDir)
		Expect(err).To(Succeed())

		Expect(os.MkdirAll(filepath.Join(tmpDir, "old", "deep"), 0o755)).To(Succeed())

		src, err = New()
		Expect(err).To(Succeed())

		root = types.WatchRoot{Handle: 1, Path: tmpDir, Recursive: true}
		Expect(src.Watch(root)).To(Succeed())

		sink = &recordingSink{}

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

	It("should watch directories which existed before.", func() {
		file := filepath.Join(tmpDir, "old", "deep", "a")
		Expect(os.WriteFile(file, []byte("a"), 0o644)).To(Succeed())

		Eventually(sink.kinds(file)).Should(ContainElement(types.ChangeKindCreated))
	})

	It("should report entries of new directories.", func() {
		dir := filepath.Join(tmpDir, "new", "nested")
		Expect(os.MkdirAll(dir, 0o755)).To(Succeed())

		Eventually(sink.kinds(dir)).Should(ContainElement(types.ChangeKindCreated))

		file := filepath.Join(dir, "b")
		Expect(os.WriteFile(file, []byte("b"), 0o644)).To(Succeed())
		Eventually(sink.kinds(file)).Should(ContainElement(types.ChangeKindCreated))
	})

	It("should report the old name of a rename.", func() {
		from := filepath.Join(tmpDir, "c")
		to := filepath.Join(tmpDir, "d")
		Expect(os.WriteFile(from, []byte("c"), 0o644)).To(Succeed())
		Expect(os.Rename(from, to)).To(Succeed())

		Eventually(sink.kinds(from)).Should(ContainElement(types.ChangeKindRenamedFrom))
		Eventually(sink.kinds(to)).Should(ContainElement(types.ChangeKindCreated))
	})

	It("should report a vanished root as a failure.", func() {
		Expect(os.RemoveAll(tmpDir)).To(Succeed())

		Eventually(sink.failed).Should(ContainElement(MatchErr(source.ErrRootVanished)))

		Expect(os.MkdirAll(tmpDir, 0o755)).To(Succeed())
	})

	It("should reject unknown roots.", func() {
		Expect(src.Unwatch(types.WatchRoot{Handle: 42})).
			To(MatchErr(source.ErrNotWatched))
	})
})

func TestFsnotifySource(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Fsnotify Source Suite")
}
