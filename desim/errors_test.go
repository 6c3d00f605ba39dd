package desim

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("error sentinels", func() {
	It("matches a SchedulingError against its IsXxx sentinel", func() {
		err := &SchedulingError{Kind: ErrPastScheduling, Now: 5, ReceiveAt: 1}
		Expect(errors.Is(err, IsPastScheduling)).To(BeTrue())
		Expect(errors.Is(err, IsUnknownReceiver)).To(BeFalse())
	})

	It("matches a DispatchError against its IsXxx sentinel", func() {
		err := &DispatchError{Kind: ErrNoHandlerForVariant, ObjectName: "B", Variant: "Poke"}
		Expect(errors.Is(err, IsNoHandlerForVariant)).To(BeTrue())
	})

	It("unwraps the user error wrapped by a DispatchError", func() {
		cause := errors.New("boom")
		err := &DispatchError{Kind: ErrUserHandlerError, Cause: cause}
		Expect(errors.Unwrap(err)).To(Equal(cause))
	})
})
