package checkpoint

import (
	"errors"

	"github.com/fulcrumsim/desim/desim"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

const kindCargo desim.Kind = "Cargo"

type cargoMessage struct {
	Count int
}

func (cargoMessage) Kind() desim.Kind { return kindCargo }

var _ = Describe("Store", func() {
	It("round-trips a pending event through save and load", func() {
		codec := NewJSONCodec()
		codec.Register(kindCargo, cargoMessage{})

		store, err := Open(":memory:", codec)
		Expect(err).NotTo(HaveOccurred())
		defer store.Close()

		sim := desim.NewSimulator()
		a := desim.NewObjectBuilder("A").WithSentVariants(kindCargo).Build()
		b := desim.NewObjectBuilder("B").Build()
		Expect(sim.AddObjects(a, b)).To(Succeed())
		Expect(sim.Initialize()).To(Succeed())

		Expect(a.SendEvent(5, b, cargoMessage{Count: 7})).To(Succeed())

		id, err := store.Save(sim)
		Expect(err).NotTo(HaveOccurred())

		sim2 := desim.NewSimulator()
		a2 := desim.NewObjectBuilder("A").WithSentVariants(kindCargo).Build()
		b2 := desim.NewObjectBuilder("B").Build()
		Expect(sim2.AddObjects(a2, b2)).To(Succeed())

		Expect(store.Load(id, sim2)).To(Succeed())

		snapshot := sim2.SnapshotHeap()
		Expect(snapshot).To(HaveLen(1))

		restored := snapshot[0]
		Expect(restored.ReceiveTime()).To(Equal(desim.Time(5)))
		Expect(restored.Sender().Name()).To(Equal("A"))
		Expect(restored.Receiver().Name()).To(Equal("B"))
		Expect(restored.Message()).To(Equal(cargoMessage{Count: 7}))
	})

	It("surfaces an encoding failure from the codec without writing a checkpoint", func() {
		ctrl := gomock.NewController(GinkgoT())
		defer ctrl.Finish()

		codec := NewMockMessageCodec(ctrl)
		codec.EXPECT().Encode(gomock.Any()).Return(nil, errors.New("boom"))

		store, err := Open(":memory:", codec)
		Expect(err).NotTo(HaveOccurred())
		defer store.Close()

		sim := desim.NewSimulator()
		a := desim.NewObjectBuilder("A").WithSentVariants(kindCargo).Build()
		b := desim.NewObjectBuilder("B").Build()
		Expect(sim.AddObjects(a, b)).To(Succeed())
		Expect(sim.Initialize()).To(Succeed())

		Expect(a.SendEvent(5, b, cargoMessage{Count: 1})).To(Succeed())

		_, err = store.Save(sim)
		Expect(err).To(HaveOccurred())
	})
})
