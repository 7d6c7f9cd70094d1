package machine

import (
	"bytes"
	"io"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("StreamConsole", func() {
	It("should read and write bytes", func() {
		out := new(bytes.Buffer)
		console := NewStreamConsole(strings.NewReader("ab"), out)

		b, err := console.ReadByte()
		Expect(err).NotTo(HaveOccurred())
		Expect(b).To(Equal(byte('a')))
		Expect(console.WriteByte('z')).To(Succeed())

		_, _ = console.ReadByte()
		_, err = console.ReadByte()

		Expect(err).To(Equal(io.EOF))
		Expect(out.String()).To(Equal("z"))
	})
})
