package receipt

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("validate", func() {
	limits := Limits{MaxImageBytes: 16}

	DescribeTable("rejected uploads",
		func(data []byte, contentType string, reason Reason) {
			verr := validate(data, contentType, limits)
			Expect(verr).NotTo(BeNil())
			Expect(verr.Reason).To(Equal(reason))
			Expect(verr.Message).NotTo(BeEmpty())
		},
		Entry("too large", make([]byte, 17), "image/png", ReasonOversized),
		Entry("too large and the wrong type", make([]byte, 17), "text/plain", ReasonOversized),
		Entry("not an image", []byte("hello"), "text/plain", ReasonUnsupportedType),
		Entry("empty and the wrong type", []byte{}, "application/json", ReasonUnsupportedType),
		Entry("empty", []byte{}, "image/jpeg", ReasonEmpty),
		Entry("empty without a type", []byte{}, "", ReasonEmpty),
		Entry("sniffed as text", []byte("plain words"), "", ReasonUnsupportedType),
	)

	DescribeTable("accepted uploads",
		func(data []byte, contentType string) {
			Expect(validate(data, contentType, limits)).To(BeNil())
		},
		Entry("exactly the limit", make([]byte, 16), "image/png"),
		Entry("content type with parameters", []byte("x"), "Image/JPEG; charset=binary"),
		Entry("pdf", []byte("%PDF-1.4"), "application/pdf"),
		Entry("heic", []byte("x"), "image/heic"),
	)

	It("reports the limit in megabytes", func() {
		verr := validate(make([]byte, 11<<20), "image/png", DefaultLimits())
		Expect(verr.Message).To(Equal("File too large. Maximum size is 10MB"))
	})
})
