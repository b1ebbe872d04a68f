package scanning

import (
	"bytes"
	"errors"
	"image/png"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("PrepareImage", func() {
	var (
		data        []byte
		contentType string
		img         *Image
		err         error
	)

	JustBeforeEach(func() {
		img, err = PrepareImage(data, contentType)
	})

	When("the upload is a PNG", func() {
		BeforeEach(func() {
			data = pngBytes(40, 20)
			contentType = "image/png"
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should keep the original bytes", func() {
			Expect(img.Data).To(Equal(data))
		})

		It("should report the dimensions", func() {
			Expect(img.Width).To(Equal(40))
			Expect(img.Height).To(Equal(20))
		})
	})

	When("the upload is a JPEG", func() {
		BeforeEach(func() {
			data = jpegBytes(16, 8)
			contentType = "image/jpeg"
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should re-encode it as PNG", func() {
			decoded, decodeErr := png.Decode(bytes.NewReader(img.Data))
			Expect(decodeErr).NotTo(HaveOccurred())
			Expect(decoded.Bounds().Dx()).To(Equal(16))
		})

		It("should record the source type", func() {
			Expect(img.SourceType).To(Equal("image/jpeg"))
		})
	})

	When("the content type is missing", func() {
		BeforeEach(func() {
			data = jpegBytes(4, 4)
			contentType = ""
		})

		It("sniffs the type from the data", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(img.SourceType).To(Equal("image/jpeg"))
		})
	})

	When("the content type has parameters", func() {
		BeforeEach(func() {
			data = pngBytes(4, 4)
			contentType = " Image/PNG; charset=binary"
		})

		It("normalizes it", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(img.SourceType).To(Equal("image/png"))
		})
	})

	When("the bytes are not an image", func() {
		BeforeEach(func() {
			data = []byte("definitely not an image")
			contentType = "image/jpeg"
		})

		It("returns ErrUndecodable", func() {
			Expect(errors.Is(err, ErrUndecodable)).To(BeTrue())
		})

		It("should not return an image", func() {
			Expect(img).To(BeNil())
		})
	})

	When("the PNG is truncated", func() {
		BeforeEach(func() {
			full := pngBytes(30, 30)
			data = full[:len(full)/2]
			contentType = "image/png"
		})

		It("returns ErrUndecodable", func() {
			Expect(err).To(MatchError(ErrUndecodable))
		})
	})

	When("a PDF is corrupt", func() {
		BeforeEach(func() {
			data = []byte("%PDF-1.4 garbage")
			contentType = "application/pdf"
		})

		It("returns ErrUndecodable", func() {
			Expect(err).To(MatchError(ErrUndecodable))
		})
	})
})

var _ = Describe("NormalizeMimeType", func() {
	It("lowercases and trims", func() {
		Expect(NormalizeMimeType("  IMAGE/JPEG ")).To(Equal("image/jpeg"))
	})

	It("drops parameters", func() {
		Expect(NormalizeMimeType("image/png; name=a.png")).To(Equal("image/png"))
	})
})

var _ = Describe("DetectMimeType", func() {
	It("detects PNG", func() {
		Expect(DetectMimeType(pngBytes(2, 2))).To(Equal("image/png"))
	})

	It("detects HEIC from the ftyp box", func() {
		data := append([]byte{0, 0, 0, 24}, []byte("ftypheic0000")...)
		Expect(DetectMimeType(data)).To(Equal("image/heic"))
	})

	It("detects plain text", func() {
		Expect(DetectMimeType([]byte("hello"))).To(Equal("text/plain"))
	})
})

var _ = Describe("IsSupportedType", func() {
	DescribeTable("supported types",
		func(mimeType string, expected bool) {
			Expect(IsSupportedType(mimeType)).To(Equal(expected))
		},
		Entry("jpeg", "image/jpeg", true),
		Entry("heic", "image/heic", true),
		Entry("pdf", "application/pdf", true),
		Entry("text", "text/plain", false),
		Entry("octet stream", "application/octet-stream", false),
	)
})
