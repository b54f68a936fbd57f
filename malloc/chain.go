// Functions and methods on Chain are not thread safe, use SafeChain
// for concurrent allocations.

package malloc

import "unsafe"

import s "github.com/bnclabs/gosettings"
import humanize "github.com/dustin/go-humanize"
import "github.com/darkside51/allocators/api"

// chunk couples a block pool with the count of live allocations on
// it, the unit of growth and retirement for a chain. Chunk records
// live inside the chain's meta pool cells, off the Go heap, which is
// safe because neither chunk nor pool holds Go heap pointers.
type chunk struct {
	// 64-bit aligned, accessed atomically by SafeChain.
	live int64

	pool pool
}

func (ck *chunk) usedmemory() int64 {
	return int64(unsafe.Sizeof(*ck)) + ck.pool.capacity*ck.pool.cellsize
}

// chain common state between the single threaded and the concurrent
// variants: an insertion ordered list of live chunks, one reserved
// slot holding at most one retired chunk kept hot for reuse, and a
// meta pool that allocates the chunk records themselves.
type chain struct {
	slabsize  int64 // block size visible to the application
	chunkcap  int64 // cells per chunk
	maxchunks int64
	cellsize  int64 // slabsize + metadata + padding
	metaoff   int64 // offset of the owning chunk address within a cell
	metapool  pool  // chunk records, mutated only single threaded
	active    []*chunk
	reserved  *chunk
}

func (ch *chain) init(slabsize, chunkcap, maxchunks int64, setts s.Settings) {
	setts = make(s.Settings).Mixin(Defaultsettings(), setts)
	align := setts.Int64("alignment")
	if ispow2(align) == false {
		panicerr("alignment %v, should be a power of 2", align)
	} else if maxchunks <= 0 || maxchunks > Maxchunks {
		panicerr("maxchunks %v, should be within (0, %v]", maxchunks, Maxchunks)
	}
	ch.slabsize, ch.chunkcap, ch.maxchunks = slabsize, chunkcap, maxchunks

	// every block is trailed, within the same cell, by the address of
	// the owning chunk, at the first pointer aligned offset past the
	// payload. cells are sized to keep both the trailer and the next
	// cell aligned.
	ch.metaoff = alignup(max(slabsize, ptrsize), ptrsize)
	ch.cellsize = alignup(ch.metaoff+ptrsize, max(align, ptrsize))

	recsize := int64(unsafe.Sizeof(chunk{}))
	ch.metapool.init(recsize, alignup(recsize, ptrsize), maxchunks)
	ch.active = make([]*chunk, 0, maxchunks)
	ch.active = append(ch.active, ch.newchunk())
}

// newchunk construct a chunk record, and its pool, inside a fresh
// meta pool cell. Nil when the meta pool is full.
func (ch *chain) newchunk() *chunk {
	ptr := ch.metapool.alloc()
	if ptr == nil {
		return nil
	}
	ck := (*chunk)(ptr)
	ck.live = 0
	ck.pool.init(ch.slabsize, ch.cellsize, ch.chunkcap)
	debugf("chain: new chunk %v, %v of %v\n", ptr, ch.metapool.mallocated/ch.metapool.cellsize, ch.maxchunks)
	return ck
}

func (ch *chain) destroychunk(ck *chunk) {
	ck.pool.release()
	ch.metapool.free(unsafe.Pointer(ck))
}

func (ch *chain) stampmeta(ptr unsafe.Pointer, ck *chunk) {
	meta := (*uintptr)(unsafe.Pointer(uintptr(ptr) + uintptr(ch.metaoff)))
	*meta = uintptr(unsafe.Pointer(ck))
}

// metachunk recover the owning chunk from the trailing metadata. Nil
// when the recovered address does not name a meta pool cell, which
// rejects pointers that never came from this chain.
func (ch *chain) metachunk(ptr unsafe.Pointer) *chunk {
	meta := (*uintptr)(unsafe.Pointer(uintptr(ptr) + uintptr(ch.metaoff)))
	if ch.metapool.contains(*meta) == false {
		return nil
	}
	return (*chunk)(unsafe.Pointer(*meta))
}

func (ch *chain) remove(ck *chunk) {
	for i, c := range ch.active {
		if c == ck {
			copy(ch.active[i:], ch.active[i+1:])
			ch.active = ch.active[:len(ch.active)-1]
			return
		}
	}
}

func (ch *chain) info() (capacity, heap, alloc, overhead int64) {
	self := int64(unsafe.Sizeof(*ch))
	slicesz := int64(cap(ch.active)) * ptrsize
	_, mheap, _, moverhead := ch.metapool.info()
	capacity = ch.maxchunks * ch.chunkcap * ch.cellsize
	overhead = self + slicesz + mheap + moverhead
	for _, ck := range ch.active {
		heap += ck.usedmemory()
		alloc += ck.pool.mallocated
	}
	if ch.reserved != nil {
		heap += ch.reserved.usedmemory()
	}
	return
}

func (ch *chain) release() {
	for _, ck := range ch.active {
		ck.pool.release()
	}
	if ch.reserved != nil {
		ch.reserved.pool.release()
	}
	ch.metapool.release()
	ch.active, ch.reserved = nil, nil
}

// Chain is a block allocator that grows by appending chunks when all
// existing ones are full and retires empty chunks back to a single
// reserved slot, the single threaded variant.
type Chain struct {
	chain
}

// NewChain create a chain of up to `maxchunks` chunks, each holding
// `chunkcap` blocks of `slabsize` bytes. The chain starts with one
// chunk. Alignment is picked from setts, Defaultsettings() for the
// default.
func NewChain(slabsize, chunkcap, maxchunks int64, setts s.Settings) *Chain {
	ch := &Chain{}
	ch.chain.init(slabsize, chunkcap, maxchunks, setts)
	return ch
}

// Alloc implement api.Allocator{} interface. Blocks come from the
// first chunk with free capacity, walked in insertion order. On miss
// the reserved chunk is promoted, or a fresh chunk is created. Nil
// when the meta pool has no room and the reserve is empty.
func (ch *Chain) Alloc() unsafe.Pointer {
	for _, ck := range ch.active {
		if ptr := ck.pool.alloc(); ptr != nil {
			ch.stampmeta(ptr, ck)
			ck.live++
			return ptr
		}
	}

	ck := ch.reserved
	if ck != nil {
		ch.reserved = nil
	} else if ch.metapool.full() == false {
		ck = ch.newchunk()
	}
	if ck == nil {
		return nil // out of capacity
	}
	ch.active = append(ch.active, ck)

	ptr := ck.pool.alloc()
	ch.stampmeta(ptr, ck)
	ck.live++
	return ptr
}

// Free implement api.Allocator{} interface. The owning chunk is
// recovered from the trailing metadata; when its live count drops to
// zero the chunk is retired into the reserved slot, displacing, and
// destroying, any chunk already there.
func (ch *Chain) Free(ptr unsafe.Pointer) bool {
	if ptr == nil {
		panicerr("chain.free(): nil pointer")
	}
	ck := ch.metachunk(ptr)
	if ck == nil {
		return false
	}
	if ck.pool.free(ptr) == false {
		return false
	}
	ck.live--
	if ck.live == 0 {
		ch.retire(ck)
	}
	return true
}

func (ch *Chain) retire(ck *chunk) {
	if ch.reserved != nil && ch.reserved != ck {
		ch.destroychunk(ch.reserved)
	}
	ch.remove(ck)
	ch.reserved = ck
	debugf("chain: retired chunk %v\n", unsafe.Pointer(ck))
}

// Full implement api.Allocator{} interface.
func (ch *Chain) Full() bool {
	for _, ck := range ch.active {
		if ck.pool.full() == false {
			return false
		}
	}
	return ch.reserved == nil && ch.metapool.full()
}

// Slabsize implement api.Allocator{} interface.
func (ch *Chain) Slabsize() int64 {
	return ch.slabsize
}

// Capacity implement api.Allocator{} interface.
func (ch *Chain) Capacity() int64 {
	return ch.maxchunks * ch.chunkcap
}

// Usedmemory implement api.Allocator{} interface.
func (ch *Chain) Usedmemory() int64 {
	_, heap, _, overhead := ch.info()
	return heap + overhead
}

// Info implement api.Allocator{} interface.
func (ch *Chain) Info() (capacity, heap, alloc, overhead int64) {
	return ch.info()
}

// Release implement api.Allocator{} interface.
func (ch *Chain) Release() {
	ch.release()
}

// Log a human readable summary of the chain's memory accounting.
func (ch *Chain) Log() {
	capacity, heap, alloc, overhead := ch.info()
	fmsg := "chain: %v chunks, capacity:%v heap:%v alloc:%v overhead:%v\n"
	infof(
		fmsg, len(ch.active),
		humanize.Bytes(uint64(capacity)), humanize.Bytes(uint64(heap)),
		humanize.Bytes(uint64(alloc)), humanize.Bytes(uint64(overhead)))
}

var _ api.Allocator = (*Chain)(nil)
