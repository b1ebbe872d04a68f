package scanning

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

var _ = Describe("Ollama", func() {
	var (
		server *ghttp.Server
		engine *Ollama
		img    *Image
	)

	BeforeEach(func() {
		server = ghttp.NewServer()
		var err error
		engine, err = NewOllama(server.URL()+"/", "llava")
		Expect(err).NotTo(HaveOccurred())
		img = &Image{Data: pngBytes(2, 2), Width: 2, Height: 2}
	})

	AfterEach(func() {
		server.Close()
	})

	When("the model transcribes the receipt", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest(http.MethodPost, "/api/chat"),
				ghttp.VerifyContentType("application/json"),
				func(w http.ResponseWriter, r *http.Request) {
					body, err := io.ReadAll(r.Body)
					Expect(err).NotTo(HaveOccurred())
					var req ollamaChatRequest
					Expect(json.Unmarshal(body, &req)).To(Succeed())
					Expect(req.Model).To(Equal("llava"))
					Expect(req.Stream).To(BeFalse())
					Expect(req.Messages).To(HaveLen(2))
					Expect(req.Messages[1].Images).To(ConsistOf(base64.StdEncoding.EncodeToString(img.Data)))
				},
				ghttp.RespondWithJSONEncoded(http.StatusOK, ollamaChatResponse{
					Message: ollamaMessage{Role: "assistant", Content: "```\nSuperMart\nTotal 99.00\n```"},
					Done:    true,
				}),
			))
		})

		It("returns the cleaned transcript", func() {
			text, err := engine.ExtractText(context.Background(), img)
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("SuperMart\nTotal 99.00"))
		})
	})

	When("the model sees no text", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.RespondWithJSONEncoded(http.StatusOK, ollamaChatResponse{
				Message: ollamaMessage{Role: "assistant", Content: "NO_TEXT"},
				Done:    true,
			}))
		})

		It("returns an empty string without error", func() {
			text, err := engine.ExtractText(context.Background(), img)
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(BeEmpty())
		})
	})

	When("the API returns an error status", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.RespondWith(http.StatusInternalServerError, "model not loaded"))
		})

		It("returns an error with the body", func() {
			_, err := engine.ExtractText(context.Background(), img)
			Expect(err).To(MatchError(ContainSubstring("model not loaded")))
		})
	})

	When("the response is not JSON", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.RespondWith(http.StatusOK, "not json"))
		})

		It("returns a decoding error", func() {
			_, err := engine.ExtractText(context.Background(), img)
			Expect(err).To(MatchError(ContainSubstring("decoding response")))
		})
	})
})

var _ = Describe("NewTesseract", func() {
	When("the binary does not exist", func() {
		It("returns an error", func() {
			_, err := NewTesseract("definitely-not-tesseract-binary", "eng")
			Expect(err).To(MatchError(ContainSubstring("locating tesseract binary")))
		})
	})
})
