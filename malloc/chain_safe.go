// Concurrent variant of the chain. A single readers-writer spinlock
// protects the structure of the chunk list and the identity of the
// reserved slot; the per chunk free-lists use the lock-free pool
// protocol and never take the outer lock.

package malloc

import "sync/atomic"
import "unsafe"

import s "github.com/bnclabs/gosettings"
import humanize "github.com/dustin/go-humanize"
import "github.com/darkside51/allocators/api"

// SafeChain is a growing block allocator safe for concurrent Alloc
// and Free from any number of goroutines.
type SafeChain struct {
	chain
	rw rwspinlock
}

// NewSafeChain create a concurrent chain of up to `maxchunks` chunks,
// each holding `chunkcap` blocks of `slabsize` bytes. The chain
// starts with one chunk. Alignment is picked from setts,
// Defaultsettings() for the default.
func NewSafeChain(slabsize, chunkcap, maxchunks int64, setts s.Settings) *SafeChain {
	ch := &SafeChain{}
	ch.chain.init(slabsize, chunkcap, maxchunks, setts)
	return ch
}

// Alloc implement api.Allocator{} interface.
//
// Fast path under the read lock: walk the chunks in insertion order
// and try each lock-free free-list, so any number of allocating
// goroutines overlap on independent chunks. The write lock is taken
// only to grow the chain; the chain length observed under the read
// lock is re-validated under the write lock, and on mismatch the
// whole attempt restarts, another goroutine grew or shrunk the chain
// and the fast path may now succeed.
func (ch *SafeChain) Alloc() unsafe.Pointer {
	for {
		ch.rw.rlock()
		for _, ck := range ch.active {
			if ptr := ck.pool.allocsafe(); ptr != nil {
				ch.stampmeta(ptr, ck)
				atomic.AddInt64(&ck.live, 1)
				ch.rw.runlock()
				return ptr
			}
		}
		nchunks := len(ch.active)
		ch.rw.runlock()

		ch.rw.wlock()
		if nchunks != len(ch.active) {
			ch.rw.wunlock()
			continue // state changed under us, retry the fast path
		}
		ck := ch.reserved
		if ck != nil {
			ch.reserved = nil
		} else if ch.metapool.full() == false {
			ck = ch.newchunk()
		}
		if ck == nil {
			ch.rw.wunlock()
			return nil // out of capacity
		}
		ch.active = append(ch.active, ck)
		ch.rw.wunlock()
	}
}

// Free implement api.Allocator{} interface. The block goes back to
// its chunk's free-list without the outer lock; the write lock is
// taken only when the live count hits zero, to retire the chunk.
// Double free of the same block is not detected.
func (ch *SafeChain) Free(ptr unsafe.Pointer) bool {
	if ptr == nil {
		panicerr("chain.free(): nil pointer")
	}
	ck := ch.metachunk(ptr)
	if ck == nil {
		return false
	}
	if ck.pool.freesafe(ptr) == false {
		return false
	}
	if atomic.AddInt64(&ck.live, -1) == 0 {
		ch.retire(ck)
	}
	return true
}

// retire under the write lock, re-checking the live count: a
// concurrent allocator may have raised it between the decrement and
// the lock acquisition, in which case the chunk stays active.
func (ch *SafeChain) retire(ck *chunk) {
	ch.rw.wlock()
	if atomic.LoadInt64(&ck.live) == 0 {
		if ch.reserved != nil && ch.reserved != ck {
			ch.destroychunk(ch.reserved)
		}
		ch.remove(ck)
		ch.reserved = ck
		debugf("chain: retired chunk %v\n", unsafe.Pointer(ck))
	}
	ch.rw.wunlock()
}

// Full implement api.Allocator{} interface.
func (ch *SafeChain) Full() bool {
	ch.rw.rlock()
	defer ch.rw.runlock()
	for _, ck := range ch.active {
		if ck.pool.fullsafe() == false {
			return false
		}
	}
	return ch.reserved == nil && ch.metapool.full()
}

// Slabsize implement api.Allocator{} interface.
func (ch *SafeChain) Slabsize() int64 {
	return ch.slabsize
}

// Capacity implement api.Allocator{} interface.
func (ch *SafeChain) Capacity() int64 {
	return ch.maxchunks * ch.chunkcap
}

// Usedmemory implement api.Allocator{} interface.
func (ch *SafeChain) Usedmemory() int64 {
	_, heap, _, overhead := ch.Info()
	return heap + overhead
}

// Info implement api.Allocator{} interface.
func (ch *SafeChain) Info() (capacity, heap, alloc, overhead int64) {
	ch.rw.rlock()
	defer ch.rw.runlock()
	self := int64(unsafe.Sizeof(*ch))
	slicesz := int64(cap(ch.active)) * ptrsize
	_, mheap, _, moverhead := ch.metapool.info()
	capacity = ch.maxchunks * ch.chunkcap * ch.cellsize
	overhead = self + slicesz + mheap + moverhead
	for _, ck := range ch.active {
		heap += ck.usedmemory()
		alloc += atomic.LoadInt64(&ck.pool.mallocated)
	}
	if ch.reserved != nil {
		heap += ch.reserved.usedmemory()
	}
	return
}

// Release implement api.Allocator{} interface. Not safe to call
// concurrently with Alloc or Free.
func (ch *SafeChain) Release() {
	ch.release()
}

// Log a human readable summary of the chain's memory accounting.
func (ch *SafeChain) Log() {
	capacity, heap, alloc, overhead := ch.Info()
	ch.rw.rlock()
	nchunks := len(ch.active)
	ch.rw.runlock()
	fmsg := "chain: %v chunks, capacity:%v heap:%v alloc:%v overhead:%v\n"
	infof(
		fmsg, nchunks,
		humanize.Bytes(uint64(capacity)), humanize.Bytes(uint64(heap)),
		humanize.Bytes(uint64(alloc)), humanize.Bytes(uint64(overhead)))
}

var _ api.Allocator = (*SafeChain)(nil)
