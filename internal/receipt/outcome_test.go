package receipt

import (
	"errors"
	"io"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Outcome", func() {
	It("is not degraded when ok", func() {
		o := Ok("Groceries")
		Expect(o.IsDegraded()).To(BeFalse())
		Expect(o.Value).To(Equal("Groceries"))
	})

	It("keeps the default value when degraded", func() {
		o := Degraded("Uncategorized", errors.New("model missing"))
		Expect(o.IsDegraded()).To(BeTrue())
		Expect(o.Value).To(Equal("Uncategorized"))
	})
})

var _ = Describe("State", func() {
	DescribeTable("allowed transitions",
		func(from, to State, allowed bool) {
			Expect(from.CanTransition(to)).To(Equal(allowed))
		},
		Entry("Init to TextExtracted", StateInit, StateTextExtracted, true),
		Entry("Init to Failed", StateInit, StateFailed, true),
		Entry("TextExtracted to ShortCircuitEmpty", StateTextExtracted, StateShortCircuitEmpty, true),
		Entry("TextExtracted to EntitiesExtracted", StateTextExtracted, StateEntitiesExtracted, true),
		Entry("EntitiesExtracted to Categorized", StateEntitiesExtracted, StateCategorized, true),
		Entry("Categorized to Assembled", StateCategorized, StateAssembled, true),
		Entry("Init to Assembled", StateInit, StateAssembled, false),
		Entry("TextExtracted to Failed", StateTextExtracted, StateFailed, false),
		Entry("ShortCircuitEmpty to EntitiesExtracted", StateShortCircuitEmpty, StateEntitiesExtracted, false),
		Entry("Assembled to Init", StateAssembled, StateInit, false),
	)

	It("marks the end states terminal", func() {
		Expect(StateAssembled.Terminal()).To(BeTrue())
		Expect(StateShortCircuitEmpty.Terminal()).To(BeTrue())
		Expect(StateFailed.Terminal()).To(BeTrue())
		Expect(StateCategorized.Terminal()).To(BeFalse())
	})
})

var _ = Describe("pipelineRun", func() {
	var run *pipelineRun

	BeforeEach(func() {
		run = newPipelineRun(slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	It("follows the happy path", func() {
		for _, next := range []State{StateTextExtracted, StateEntitiesExtracted, StateCategorized, StateAssembled} {
			run.advance(next)
		}
		Expect(run.state).To(Equal(StateAssembled))
	})

	It("panics on an illegal transition", func() {
		Expect(func() { run.advance(StateCategorized) }).To(PanicWith(ContainSubstring("INIT -> CATEGORIZED")))
	})
})
