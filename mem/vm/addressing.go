package vm

import (
	"errors"
	"fmt"
	"math/bits"
)

// ErrPageSizeNotPowerOfTwo is returned when a page size cannot be used to
// split addresses into a page number and an offset.
var ErrPageSizeNotPowerOfTwo = errors.New("page size is not a power of two")

// Geometry splits virtual addresses into page numbers and in-page offsets.
// A Geometry is immutable and safe to share between goroutines.
type Geometry struct {
	pageSize   uint64
	offsetBits uint64
	offsetMask uint64
}

// NewGeometry derives the offset width and mask of the given page size.
func NewGeometry(pageSize uint64) (Geometry, error) {
	if pageSize == 0 || pageSize&(pageSize-1) != 0 {
		return Geometry{}, fmt.Errorf("%w: %d", ErrPageSizeNotPowerOfTwo, pageSize)
	}

	offsetBits := uint64(bits.TrailingZeros64(pageSize))

	g := Geometry{
		pageSize:   pageSize,
		offsetBits: offsetBits,
		offsetMask: (uint64(1) << offsetBits) - 1,
	}

	return g, nil
}

// MustNewGeometry is NewGeometry that panics on a bad page size.
func MustNewGeometry(pageSize uint64) Geometry {
	g, err := NewGeometry(pageSize)
	if err != nil {
		panic(err)
	}

	return g
}

// PageSize returns the number of bytes in a page.
func (g Geometry) PageSize() uint64 {
	return g.pageSize
}

// OffsetBits returns log2 of the page size.
func (g Geometry) OffsetBits() uint64 {
	return g.offsetBits
}

// OffsetMask returns the mask that selects the in-page offset.
func (g Geometry) OffsetMask() uint64 {
	return g.offsetMask
}

// PageNumber returns the page that contains the address.
func (g Geometry) PageNumber(vAddr uint64) uint64 {
	return vAddr >> g.offsetBits
}

// Offset returns the position of the address inside its page.
func (g Geometry) Offset(vAddr uint64) uint64 {
	return vAddr & g.offsetMask
}

// ComposeAddress rebuilds an address from a page number and an offset. The
// offset must be smaller than the page size. Page number bits that do not fit
// in 64 bits are lost.
func (g Geometry) ComposeAddress(pageNumber, offset uint64) uint64 {
	if offset >= g.pageSize {
		panic(fmt.Sprintf("offset 0x%x out of page of size 0x%x",
			offset, g.pageSize))
	}

	return (pageNumber << g.offsetBits) | offset
}

// AlignToPage returns the address of the first byte of the page that contains
// the address.
func (g Geometry) AlignToPage(vAddr uint64) uint64 {
	return vAddr &^ g.offsetMask
}
