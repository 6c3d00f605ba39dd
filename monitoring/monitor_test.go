package monitoring

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Monitor", func() {
	var monitor *Monitor

	BeforeEach(func() {
		monitor = NewMonitor()
	})

	It("tracks progress bars until they are completed", func() {
		bar := monitor.CreateProgressBar("loading", 100)
		Expect(bar.ID).NotTo(BeEmpty())
		Expect(bar.Name).To(Equal("loading"))
		Expect(bar.Total).To(Equal(uint64(100)))
		Expect(monitor.progressBars).To(ContainElement(bar))

		bar.IncrementInProgress(10)
		Expect(bar.InProgress).To(Equal(uint64(10)))

		bar.MoveInProgressToFinished(10)
		Expect(bar.InProgress).To(Equal(uint64(0)))
		Expect(bar.Finished).To(Equal(uint64(10)))

		monitor.CompleteProgressBar(bar)
		Expect(monitor.progressBars).NotTo(ContainElement(bar))
	})

	It("tracks multiple progress bars independently", func() {
		a := monitor.CreateProgressBar("a", 5)
		b := monitor.CreateProgressBar("b", 5)

		a.IncrementFinished(2)
		Expect(a.Finished).To(Equal(uint64(2)))
		Expect(b.Finished).To(Equal(uint64(0)))

		monitor.CompleteProgressBar(a)
		Expect(monitor.progressBars).To(ConsistOf(b))
	})

	It("rejects port numbers below 1000 in favor of a random port", func() {
		monitor.WithPortNumber(80)
		Expect(monitor.portNumber).To(Equal(0))
	})

	It("accepts port numbers at or above 1000", func() {
		monitor.WithPortNumber(8080)
		Expect(monitor.portNumber).To(Equal(8080))
	})
})

var _ = Describe("splitFields", func() {
	It("splits a dotted field path", func() {
		Expect(splitFields("A.B.C")).To(Equal([]string{"A", "B", "C"}))
	})

	It("returns a single element slice when there is no dot", func() {
		Expect(splitFields("A")).To(Equal([]string{"A"}))
	})
})
