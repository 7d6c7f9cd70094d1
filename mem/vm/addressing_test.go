package vm

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Geometry", func() {
	Context("construction", func() {
		It("should derive offset bits and mask", func() {
			g, err := NewGeometry(1024)

			Expect(err).NotTo(HaveOccurred())
			Expect(g.PageSize()).To(Equal(uint64(1024)))
			Expect(g.OffsetBits()).To(Equal(uint64(10)))
			Expect(g.OffsetMask()).To(Equal(uint64(0x3FF)))
		})

		It("should accept a page of one byte", func() {
			g, err := NewGeometry(1)

			Expect(err).NotTo(HaveOccurred())
			Expect(g.OffsetBits()).To(Equal(uint64(0)))
			Expect(g.OffsetMask()).To(Equal(uint64(0)))
		})

		DescribeTable("should reject page sizes that are not powers of two",
			func(pageSize uint64) {
				_, err := NewGeometry(pageSize)

				Expect(err).To(MatchError(ErrPageSizeNotPowerOfTwo))
			},
			Entry("zero", uint64(0)),
			Entry("three", uint64(3)),
			Entry("1000", uint64(1000)),
			Entry("4097", uint64(4097)),
		)

		It("should panic in MustNewGeometry", func() {
			Expect(func() { MustNewGeometry(1000) }).To(Panic())
		})
	})

	Context("decomposition", func() {
		var g Geometry

		BeforeEach(func() {
			g = MustNewGeometry(1024)
		})

		It("should split 0x4FF", func() {
			Expect(g.Offset(0x4FF)).To(Equal(uint64(0x0FF)))
			Expect(g.PageNumber(0x4FF)).To(Equal(uint64(1)))
		})

		It("should treat page boundaries", func() {
			Expect(g.PageNumber(0x3FF)).To(Equal(uint64(0)))
			Expect(g.PageNumber(0x400)).To(Equal(uint64(1)))
			Expect(g.Offset(0x400)).To(Equal(uint64(0)))
		})

		It("should compose addresses", func() {
			Expect(g.ComposeAddress(1, 0xFF)).To(Equal(uint64(0x4FF)))
			Expect(g.ComposeAddress(0, 0)).To(Equal(uint64(0)))
		})

		It("should panic when offset is outside the page", func() {
			Expect(func() { g.ComposeAddress(1, 1024) }).To(Panic())
		})

		It("should align to page", func() {
			Expect(g.AlignToPage(0x7FF)).To(Equal(uint64(0x400)))
		})

		It("should round trip any address", func() {
			addrs := []uint64{
				0, 1, 0x3FF, 0x400, 0x4FF, 0xDEADBEEF,
				0xFFFFFFFFFFFFFFFF, 0x8000000000000000,
			}

			for _, a := range addrs {
				Expect(g.ComposeAddress(g.PageNumber(a), g.Offset(a))).
					To(Equal(a), "address 0x%x", a)
			}
		})

		It("should round trip for every supported page size", func() {
			for shift := uint64(0); shift < 32; shift++ {
				g := MustNewGeometry(uint64(1) << shift)
				a := uint64(0x123456789ABCDEF0)

				Expect(g.ComposeAddress(g.PageNumber(a), g.Offset(a))).
					To(Equal(a))
				Expect(g.PageNumber(a)).To(Equal(a / g.PageSize()))
			}
		})
	})
})
