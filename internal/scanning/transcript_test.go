package scanning

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("cleanTranscript", func() {
	It("trims surrounding whitespace", func() {
		Expect(cleanTranscript("  DMart\nTotal 45.00 \n")).To(Equal("DMart\nTotal 45.00"))
	})

	It("removes markdown code blocks", func() {
		Expect(cleanTranscript("```text\nDMart\nTotal 45.00\n```")).To(Equal("DMart\nTotal 45.00"))
	})

	It("removes bare code fences", func() {
		Expect(cleanTranscript("```\nWalmart\n```")).To(Equal("Walmart"))
	})

	It("maps the no-text marker to an empty string", func() {
		Expect(cleanTranscript("NO_TEXT")).To(BeEmpty())
		Expect(cleanTranscript(" no_text \n")).To(BeEmpty())
	})
})

var _ = Describe("NormalizeText", func() {
	It("converts CRLF line endings", func() {
		Expect(NormalizeText("Walmart\r\n45.99\r\n")).To(Equal("Walmart\n45.99"))
	})

	It("drops blank lines and trailing spaces", func() {
		Expect(NormalizeText("\n\nSuperMart   \n\n  \nTotal 10.00\t\n")).To(Equal("SuperMart\nTotal 10.00"))
	})

	It("keeps leading indentation inside the text", func() {
		Expect(NormalizeText("Header\n   Item 2.00")).To(Equal("Header\n   Item 2.00"))
	})

	It("returns an empty string for whitespace", func() {
		Expect(NormalizeText(" \n\t\r\n ")).To(BeEmpty())
	})
})
