package desim

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeMessage struct {
	kind Kind
}

func (m fakeMessage) Kind() Kind { return m.kind }

var _ = Describe("EventHeap", func() {
	var heap *EventHeap

	BeforeEach(func() {
		heap = NewEventHeap()
	})

	It("should report empty on construction", func() {
		Expect(heap.IsEmpty()).To(BeTrue())
		Expect(heap.Len()).To(Equal(0))
		Expect(heap.Peek()).To(BeNil())
	})

	It("should pop frontiers in non-decreasing receive_time order", func() {
		a := &SimulationObject{name: "A"}
		numEvents := 200

		for i := 0; i < numEvents; i++ {
			heap.Push(&Event{
				receiveTime: Time(rand.Float64() * 1000),
				receiver:    a,
				message:     fakeMessage{kind: "X"},
			})
		}

		now := Time(-1)
		seen := 0

		for !heap.IsEmpty() {
			frontier := heap.PopFrontier()
			for _, e := range frontier {
				Expect(e.ReceiveTime() >= now).To(BeTrue())
				now = e.ReceiveTime()
				seen++
			}
		}

		Expect(seen).To(Equal(numEvents))
	})

	It("should batch only events for the same receiver at the same time", func() {
		a := &SimulationObject{name: "A"}
		b := &SimulationObject{name: "B"}

		heap.Push(&Event{receiveTime: 5, receiver: a, sequenceNumber: 1})
		heap.Push(&Event{receiveTime: 5, receiver: b, sequenceNumber: 2})
		heap.Push(&Event{receiveTime: 5, receiver: a, sequenceNumber: 3})

		first := heap.PopFrontier()
		Expect(first).To(HaveLen(2))
		Expect(first[0].receiver).To(Equal(a))
		Expect(first[1].receiver).To(Equal(a))

		second := heap.PopFrontier()
		Expect(second).To(HaveLen(1))
		Expect(second[0].receiver).To(Equal(b))
	})

	It("should order a frontier by sender priority, then name, then sequence", func() {
		receiver := &SimulationObject{name: "C"}
		lowPriority := &SimulationObject{name: "B", priorityKey: 1}
		highPriority := &SimulationObject{name: "A", priorityKey: 0}

		heap.Push(&Event{
			receiveTime: 5, receiver: receiver, sender: lowPriority, sequenceNumber: 1,
		})
		heap.Push(&Event{
			receiveTime: 5, receiver: receiver, sender: highPriority, sequenceNumber: 2,
		})

		frontier := heap.PopFrontier()
		Expect(frontier).To(HaveLen(2))
		Expect(frontier[0].sender).To(Equal(highPriority))
		Expect(frontier[1].sender).To(Equal(lowPriority))
	})

	It("should snapshot without removing events", func() {
		a := &SimulationObject{name: "A"}
		heap.Push(&Event{receiveTime: 3, receiver: a, sequenceNumber: 1})
		heap.Push(&Event{receiveTime: 1, receiver: a, sequenceNumber: 2})

		snapshot := heap.Snapshot()
		Expect(snapshot).To(HaveLen(2))
		Expect(snapshot[0].ReceiveTime()).To(Equal(Time(1)))
		Expect(heap.Len()).To(Equal(2))
	})
})
