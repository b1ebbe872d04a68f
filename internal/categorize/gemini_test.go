package categorize

import (
	"github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Gemini", func() {
	labels := []string{"Groceries", "Food & Dining", "Other"}

	ginkgo.Describe("NewGemini", func() {
		ginkgo.It("requires an api key", func() {
			_, err := NewGemini("", "", labels)
			Expect(err).To(MatchError(ContainSubstring("api key is required")))
		})

		ginkgo.It("requires labels", func() {
			_, err := NewGemini("key", "", nil)
			Expect(err).To(MatchError(ContainSubstring("category label")))
		})
	})

	ginkgo.Describe("buildPrompt", func() {
		ginkgo.It("lists every label and the amount", func() {
			prompt := buildPrompt("SuperMart", 45.5, labels)
			Expect(prompt).To(ContainSubstring("Groceries, Food & Dining, Other"))
			Expect(prompt).To(ContainSubstring("SuperMart"))
			Expect(prompt).To(ContainSubstring("45.50"))
		})
	})

	ginkgo.Describe("matchLabel", func() {
		ginkgo.DescribeTable("replies",
			func(reply string, expected string) {
				label, err := matchLabel(reply, labels)
				Expect(err).NotTo(HaveOccurred())
				Expect(label).To(Equal(expected))
			},
			ginkgo.Entry("exact", "Groceries", "Groceries"),
			ginkgo.Entry("different case", "food & dining", "Food & Dining"),
			ginkgo.Entry("quoted with a period", "\"Other\".\n", "Other"),
			ginkgo.Entry("bold", "**Groceries**", "Groceries"),
		)

		ginkgo.It("rejects a label outside the set", func() {
			_, err := matchLabel("Electronics", labels)
			Expect(err).To(MatchError(ErrNoMatch))
		})
	})
})
