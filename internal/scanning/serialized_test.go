package scanning

import (
	"context"
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Serialized", func() {
	var (
		inner      *mockExtractor
		serialized *Serialized
	)

	BeforeEach(func() {
		inner = &mockExtractor{text: "Walmart\n45.99"}
		serialized = NewSerialized(inner)
	})

	It("runs concurrent calls one at a time", func() {
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer GinkgoRecover()
				text, err := serialized.ExtractText(context.Background(), &Image{})
				Expect(err).NotTo(HaveOccurred())
				Expect(text).To(Equal("Walmart\n45.99"))
			}()
		}
		wg.Wait()

		Expect(inner.calls).To(Equal(8))
	})

	It("passes errors through", func() {
		inner.err = errors.New("engine down")
		_, err := serialized.ExtractText(context.Background(), &Image{})
		Expect(err).To(MatchError("engine down"))
	})

	It("closes the wrapped engine", func() {
		Expect(serialized.Close()).To(Succeed())
		Expect(inner.closed).To(BeTrue())
	})
})
