package metrics_test

import (
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/black-desk/fswatch/pkg/metrics"
	"github.com/black-desk/fswatch/pkg/types"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

var _ = Describe("Engine metrics", func() {
	var m *Metrics

	BeforeEach(func() {
		m = New()
	})

	It("should count raw and flushed events by kind.", func() {
		m.ObserveRaw(types.ChangeKindModified)
		m.ObserveRaw(types.ChangeKindModified)
		m.ObserveFlushed([]types.CoalescedEvent{{
			Kind:        types.ChangeKindModified,
			WindowStart: time.Unix(0, 0),
			WindowEnd:   time.Unix(1, 0),
		}})

		Expect(testutil.ToFloat64(m.RawEvents.WithLabelValues("Modified"))).To(Equal(2.0))
		Expect(testutil.ToFloat64(m.CoalescedEvents.WithLabelValues("Modified"))).To(Equal(1.0))
	})

	It("should serve the exposition format.", func() {
		m.ObserveUnresolved()

		rec := httptest.NewRecorder()
		m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
		Expect(rec.Body.String()).To(ContainSubstring("fswatch_unresolved_paths_total 1"))
	})

	It("should ignore calls on a nil value.", func() {
		var empty *Metrics
		Expect(func() {
			empty.ObserveRaw(types.ChangeKindCreated)
			empty.ObserveDropped()
			empty.SetPending(3)
		}).NotTo(Panic())
	})
})

func TestMetrics(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Metrics Suite")
}
