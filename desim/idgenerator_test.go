package desim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("IDGenerator", func() {
	It("produces distinct, increasing sequential IDs", func() {
		gen := NewSequentialIDGenerator()
		first := gen.Generate()
		second := gen.Generate()
		Expect(first).NotTo(Equal(second))
		Expect(first).To(Equal("1"))
		Expect(second).To(Equal("2"))
	})

	It("produces distinct xid-backed IDs", func() {
		gen := NewXIDGenerator()
		first := gen.Generate()
		second := gen.Generate()
		Expect(first).NotTo(Equal(second))
		Expect(first).NotTo(BeEmpty())
	})
})
