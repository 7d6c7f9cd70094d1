// Package vm provides the virtual memory bookkeeping of the kernel: the
// geometry that splits a virtual address into a page number and an offset,
// and the page table that records which frame backs which page.
package vm
