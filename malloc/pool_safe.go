// Lock-free variant of the block pool. Same free-list algorithm as
// pool.go with the head turned into a single word CAS target.

package malloc

import "sync/atomic"
import "unsafe"

import s "github.com/bnclabs/gosettings"
import "github.com/darkside51/allocators/api"

// allocsafe pops the head cell. Lock-free: a failed CAS means another
// thread moved the head, re-read and retry. The sentinel is
// re-checked on every retry, another thread may have exhausted the
// pool between the load and the CAS.
func (pl *pool) allocsafe() unsafe.Pointer {
	for {
		head := atomic.LoadUintptr(&pl.head)
		if head == pl.sentinel {
			return nil
		}
		// reading the link of a cell that has just been handed to
		// another thread is benign, the backing block stays mapped
		// and the CAS below fails if the head moved.
		next := *(*uintptr)(unsafe.Pointer(head))
		if atomic.CompareAndSwapUintptr(&pl.head, head, next) {
			atomic.AddInt64(&pl.mallocated, pl.cellsize)
			initblock(head, pl.slabsize)
			return unsafe.Pointer(head)
		}
	}
}

// freesafe pushes the cell back. The cell is published only by the
// CAS, so its link always holds the head observed at CAS time.
// Wait-free in the contended fast path: the CAS fails only when
// another thread made progress.
func (pl *pool) freesafe(ptr unsafe.Pointer) bool {
	if ptr == nil {
		panicerr("pool.free(): nil pointer")
	}
	p := uintptr(ptr)
	if pl.contains(p) == false {
		return false
	}
	for {
		head := atomic.LoadUintptr(&pl.head)
		*(*uintptr)(unsafe.Pointer(p)) = head
		if atomic.CompareAndSwapUintptr(&pl.head, head, p) {
			atomic.AddInt64(&pl.mallocated, -pl.cellsize)
			return true
		}
	}
}

func (pl *pool) fullsafe() bool {
	return atomic.LoadUintptr(&pl.head) == pl.sentinel
}

func (pl *pool) infosafe() (capacity, heap, alloc, overhead int64) {
	self := int64(unsafe.Sizeof(*pl))
	heap = pl.capacity * pl.cellsize
	return heap, heap, atomic.LoadInt64(&pl.mallocated), self
}

// SafePool is a fixed capacity block allocator over an intrusive
// LIFO free-list, safe for concurrent Alloc and Free from any number
// of goroutines.
type SafePool struct {
	pool
}

// NewSafePool create a concurrent pool of `capacity` blocks of
// `slabsize` bytes each. Alignment is picked from setts,
// Defaultsettings() for the default.
func NewSafePool(slabsize, capacity int64, setts s.Settings) *SafePool {
	setts = make(s.Settings).Mixin(Defaultsettings(), setts)
	align := setts.Int64("alignment")
	pl := &SafePool{}
	pl.pool.init(slabsize, cellsizefor(slabsize, align), capacity)
	return pl
}

// Alloc implement api.Allocator{} interface.
func (pl *SafePool) Alloc() unsafe.Pointer {
	return pl.allocsafe()
}

// Free implement api.Allocator{} interface. Double free of the same
// block is not detected.
func (pl *SafePool) Free(ptr unsafe.Pointer) bool {
	return pl.freesafe(ptr)
}

// Full implement api.Allocator{} interface.
func (pl *SafePool) Full() bool {
	return pl.fullsafe()
}

// Slabsize implement api.Allocator{} interface.
func (pl *SafePool) Slabsize() int64 {
	return pl.slabsize
}

// Capacity implement api.Allocator{} interface.
func (pl *SafePool) Capacity() int64 {
	return pl.capacity
}

// Usedmemory implement api.Allocator{} interface.
func (pl *SafePool) Usedmemory() int64 {
	_, heap, _, overhead := pl.infosafe()
	return heap + overhead
}

// Info implement api.Allocator{} interface.
func (pl *SafePool) Info() (capacity, heap, alloc, overhead int64) {
	return pl.infosafe()
}

// Release implement api.Allocator{} interface. Not safe to call
// concurrently with Alloc or Free.
func (pl *SafePool) Release() {
	pl.release()
}

var _ api.Allocator = (*SafePool)(nil)
