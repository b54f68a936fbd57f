// Functions and methods on Pool are not thread safe, use SafePool
// for concurrent allocations.

package malloc

import "unsafe"

import s "github.com/bnclabs/gosettings"
import "github.com/darkside51/allocators/api"

// pool manages a memory block sliced up into equal sized cells, with
// an intrusive LIFO free-list threaded through the free cells. The
// first word of a free cell holds the address of the next free cell,
// the last free cell holds the sentinel, one-past-end of the block.
// A cell is either a live block or a free-list node, never both.
//
// pool holds no Go heap pointers, so a pool value can itself live
// inside another pool's cell, which is how chains keep their chunk
// records.
type pool struct {
	// 64-bit aligned stats
	mallocated int64

	head     uintptr // next cell to hand out, sentinel when empty
	base     uintptr // base address of the backing block
	sentinel uintptr // base + capacity*cellsize
	cellsize int64   // slabsize rounded up for alignment, links, metadata
	slabsize int64   // block size visible to the application
	capacity int64   // number of cells
}

func (pl *pool) init(slabsize, cellsize, capacity int64) {
	if slabsize <= 0 {
		panicerr("slabsize %v, should be positive", slabsize)
	} else if capacity <= 0 || capacity > Maxcapacity {
		panicerr("capacity %v, should be within (0, %v]", capacity, Maxcapacity)
	}
	pl.slabsize, pl.cellsize, pl.capacity = slabsize, cellsize, capacity
	pl.base = osmalloc(cellsize * capacity)
	pl.sentinel = pl.base + uintptr(cellsize*capacity)
	pl.format()
}

// chain every cell onto the free-list, head at cell 0.
func (pl *pool) format() {
	addr := pl.base
	for i := int64(0); i < pl.capacity; i++ {
		next := addr + uintptr(pl.cellsize)
		*(*uintptr)(unsafe.Pointer(addr)) = next
		addr = next
	}
	pl.head, pl.mallocated = pl.base, 0
}

func (pl *pool) alloc() unsafe.Pointer {
	head := pl.head
	if head == pl.sentinel {
		return nil
	}
	pl.head = *(*uintptr)(unsafe.Pointer(head))
	pl.mallocated += pl.cellsize
	initblock(head, pl.slabsize)
	return unsafe.Pointer(head)
}

func (pl *pool) free(ptr unsafe.Pointer) bool {
	if ptr == nil {
		panicerr("pool.free(): nil pointer")
	}
	p := uintptr(ptr)
	if pl.contains(p) == false {
		return false
	}
	*(*uintptr)(unsafe.Pointer(p)) = pl.head
	pl.head = p
	pl.mallocated -= pl.cellsize
	return true
}

func (pl *pool) full() bool {
	return pl.head == pl.sentinel
}

// contains whether p points to the start of one of this pool's cells.
func (pl *pool) contains(p uintptr) bool {
	if p < pl.base || p >= pl.sentinel {
		return false
	}
	return (p-pl.base)%uintptr(pl.cellsize) == 0
}

func (pl *pool) info() (capacity, heap, alloc, overhead int64) {
	self := int64(unsafe.Sizeof(*pl))
	heap = pl.capacity * pl.cellsize
	return heap, heap, pl.mallocated, self
}

func (pl *pool) release() {
	if pl.base != 0 {
		osfree(pl.base, pl.capacity*pl.cellsize)
	}
	pl.base, pl.sentinel, pl.head = 0, 0, 0
	pl.capacity, pl.mallocated = 0, 0
}

//---- local functions

// cellsizefor validates the alignment and sizes a cell so that every
// cell offset, hence every block, stays aligned. Cells hold at least
// one pointer word for the free-list link.
func cellsizefor(slabsize, align int64) int64 {
	if ispow2(align) == false {
		panicerr("alignment %v, should be a power of 2", align)
	}
	return alignup(max(slabsize, ptrsize), align)
}

// Pool is a fixed capacity block allocator over an intrusive LIFO
// free-list, the single threaded variant.
type Pool struct {
	pool
}

// NewPool create a pool of `capacity` blocks of `slabsize` bytes
// each. Alignment is picked from setts, Defaultsettings() for the
// default.
func NewPool(slabsize, capacity int64, setts s.Settings) *Pool {
	setts = make(s.Settings).Mixin(Defaultsettings(), setts)
	align := setts.Int64("alignment")
	pl := &Pool{}
	pl.pool.init(slabsize, cellsizefor(slabsize, align), capacity)
	return pl
}

// Alloc implement api.Allocator{} interface.
func (pl *Pool) Alloc() unsafe.Pointer {
	return pl.alloc()
}

// Free implement api.Allocator{} interface.
func (pl *Pool) Free(ptr unsafe.Pointer) bool {
	return pl.free(ptr)
}

// Full implement api.Allocator{} interface.
func (pl *Pool) Full() bool {
	return pl.full()
}

// Slabsize implement api.Allocator{} interface.
func (pl *Pool) Slabsize() int64 {
	return pl.slabsize
}

// Capacity implement api.Allocator{} interface.
func (pl *Pool) Capacity() int64 {
	return pl.capacity
}

// Usedmemory implement api.Allocator{} interface.
func (pl *Pool) Usedmemory() int64 {
	_, heap, _, overhead := pl.info()
	return heap + overhead
}

// Info implement api.Allocator{} interface.
func (pl *Pool) Info() (capacity, heap, alloc, overhead int64) {
	return pl.info()
}

// Release implement api.Allocator{} interface.
func (pl *Pool) Release() {
	pl.release()
}

var _ api.Allocator = (*Pool)(nil)
