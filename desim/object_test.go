package desim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ObjectBuilder", func() {
	It("panics on a duplicate handler registration", func() {
		build := func() {
			NewObjectBuilder("A").
				WithHandler(kindPoke, func(*SimulationObject, DeliveredEvent) error { return nil }).
				WithHandler(kindPoke, func(*SimulationObject, DeliveredEvent) error { return nil }).
				Build()
		}

		Expect(build).To(Panic())
	})

	It("leaves sentVariants nil when WithSentVariants is never called", func() {
		obj := NewObjectBuilder("A").Build()
		Expect(obj.sentVariants).To(BeNil())
	})

	It("builds an empty closed send-list when WithSentVariants is called with no kinds", func() {
		obj := NewObjectBuilder("A").WithSentVariants().Build()
		Expect(obj.sentVariants).NotTo(BeNil())
		Expect(obj.sentVariants.Contains(kindPoke)).To(BeFalse())
	})
})
