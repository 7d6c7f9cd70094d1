package vm

import (
	"fmt"
	"sort"
	"sync"
)

// PID stands for Process ID.
type PID uint32

// A Page is an entry in the page table, maintaining the information about how
// to translate a virtual address to a physical address.
type Page struct {
	PID      PID
	VAddr    uint64
	PAddr    uint64
	Frame    uint64
	PageSize uint64
	Valid    bool
	ReadOnly bool
	Used     bool
	Dirty    bool
}

// A PageTable holds the pages of all the processes.
type PageTable interface {
	Insert(page Page)
	Remove(pid PID, vAddr uint64)
	Find(pid PID, vAddr uint64) (Page, bool)
	Update(page Page)
	Pages(pid PID) []Page
	Log2PageSize() uint64
}

// NewPageTable creates a new PageTable.
func NewPageTable(log2PageSize uint64) PageTable {
	return &pageTableImpl{
		log2PageSize: log2PageSize,
		tables:       make(map[PID]*processTable),
	}
}

// pageTableImpl is the default implementation of a Page Table
type pageTableImpl struct {
	sync.Mutex
	log2PageSize uint64
	tables       map[PID]*processTable
}

func (pt *pageTableImpl) getTable(pid PID) *processTable {
	pt.Lock()
	defer pt.Unlock()

	table, found := pt.tables[pid]
	if !found {
		table = &processTable{
			entries: make(map[uint64]Page),
		}
		pt.tables[pid] = table
	}

	return table
}

func (pt *pageTableImpl) alignToPage(addr uint64) uint64 {
	return (addr >> pt.log2PageSize) << pt.log2PageSize
}

// Log2PageSize returns the page size the table aligns addresses to.
func (pt *pageTableImpl) Log2PageSize() uint64 {
	return pt.log2PageSize
}

// Insert put a new page into the PageTable
func (pt *pageTableImpl) Insert(page Page) {
	table := pt.getTable(page.PID)
	page.VAddr = pt.alignToPage(page.VAddr)
	table.insert(page)
}

// Remove removes the entry in the page table that contains the target
// address.
func (pt *pageTableImpl) Remove(pid PID, vAddr uint64) {
	table := pt.getTable(pid)
	table.remove(pt.alignToPage(vAddr))
}

// Find returns the page that contains the given virtual address. The bool
// return value indicates if the page is found or not.
func (pt *pageTableImpl) Find(pid PID, vAddr uint64) (Page, bool) {
	table := pt.getTable(pid)
	return table.find(pt.alignToPage(vAddr))
}

// Update changes the field of an existing page. The PID and the VAddr field
// will be used to locate the page to update.
func (pt *pageTableImpl) Update(page Page) {
	table := pt.getTable(page.PID)
	page.VAddr = pt.alignToPage(page.VAddr)
	table.update(page)
}

// Pages returns all the pages of a process, ordered by virtual address.
func (pt *pageTableImpl) Pages(pid PID) []Page {
	table := pt.getTable(pid)
	return table.all()
}

type processTable struct {
	sync.Mutex
	entries map[uint64]Page
}

func (t *processTable) insert(page Page) {
	t.Lock()
	defer t.Unlock()

	t.pageMustNotExist(page.VAddr)
	t.entries[page.VAddr] = page
}

func (t *processTable) remove(vAddr uint64) {
	t.Lock()
	defer t.Unlock()

	t.pageMustExist(vAddr)
	delete(t.entries, vAddr)
}

func (t *processTable) update(page Page) {
	t.Lock()
	defer t.Unlock()

	t.pageMustExist(page.VAddr)
	t.entries[page.VAddr] = page
}

func (t *processTable) find(vAddr uint64) (Page, bool) {
	t.Lock()
	defer t.Unlock()

	page, found := t.entries[vAddr]

	return page, found
}

func (t *processTable) all() []Page {
	t.Lock()
	defer t.Unlock()

	pages := make([]Page, 0, len(t.entries))
	for _, p := range t.entries {
		pages = append(pages, p)
	}

	sort.Slice(pages, func(i, j int) bool {
		return pages[i].VAddr < pages[j].VAddr
	})

	return pages
}

func (t *processTable) pageMustExist(vAddr uint64) {
	_, found := t.entries[vAddr]
	if !found {
		panic(fmt.Sprintf("page 0x%x does not exist", vAddr))
	}
}

func (t *processTable) pageMustNotExist(vAddr uint64) {
	_, found := t.entries[vAddr]
	if found {
		panic(fmt.Sprintf("page 0x%x exists", vAddr))
	}
}
