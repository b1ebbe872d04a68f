package entity

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("resolveMerchant", func() {
	var (
		text     string
		entities map[string][]string
		dates    DateParser
	)

	BeforeEach(func() {
		text = "Fresh Foods Corner\nThank you"
		entities = map[string][]string{}
		dates = NewFuzzyDateParser(false)
	})

	It("prefers the first organization", func() {
		entities[LabelOrg] = []string{"SuperMart", "Other Stores"}
		entities[LabelPerson] = []string{"Ravi Kumar"}

		merchant, ok := resolveMerchant(text, entities, dates)
		Expect(ok).To(BeTrue())
		Expect(merchant).To(Equal("SuperMart"))
	})

	It("falls back to the first person", func() {
		entities[LabelPerson] = []string{"Ravi Kumar"}

		merchant, ok := resolveMerchant(text, entities, dates)
		Expect(ok).To(BeTrue())
		Expect(merchant).To(Equal("Ravi Kumar"))
	})

	It("ignores blank entity surfaces", func() {
		entities[LabelOrg] = []string{"  "}

		merchant, _ := resolveMerchant(text, entities, dates)
		Expect(merchant).To(Equal("Fresh Foods Corner"))
	})

	When("no entity is tagged", func() {
		It("skips short lines, dates and bare amounts", func() {
			text = "ABC\n12/05/2024\nRs. 1,250.00\n45.99\n  Corner Cafe Bistro  \nMore"

			merchant, ok := resolveMerchant(text, nil, dates)
			Expect(ok).To(BeTrue())
			Expect(merchant).To(Equal("Corner Cafe Bistro"))
		})

		It("reports nothing when no line qualifies", func() {
			_, ok := resolveMerchant("ABC\n45.99\n2024-01-15", nil, dates)
			Expect(ok).To(BeFalse())
		})

		It("returns the first line longer than five characters when none is a date", func() {
			dates = &mockDateParser{err: ErrNoDate}
			text = "Hello\nGreat Eats\nAnother line"

			merchant, ok := resolveMerchant(text, nil, dates)
			Expect(ok).To(BeTrue())
			Expect(merchant).To(Equal("Great Eats"))
		})

		It("skips every line the date parser accepts", func() {
			dates = &mockDateParser{date: time.Now()}

			_, ok := resolveMerchant("Great Eats\nAnother line", nil, dates)
			Expect(ok).To(BeFalse())
		})
	})
})

var _ = Describe("isBareAmount", func() {
	DescribeTable("lines",
		func(line string, expected bool) {
			Expect(isBareAmount(line)).To(Equal(expected))
		},
		Entry("decimal", "45.99", true),
		Entry("grouped", "1,250.00", true),
		Entry("with symbol", "$ 12.00", true),
		Entry("with trailing marker", "499 INR", true),
		Entry("name", "Walmart", false),
		Entry("count", "12 items", false),
	)
})
