package api

import "unsafe"

// Allocator interface for fixed size block allocators. Implemented
// by malloc.Pool, malloc.SafePool, malloc.Chain and malloc.SafeChain.
type Allocator interface {
	// Alloc the next free block, nil when the allocator has run out
	// of capacity. Returned blocks are aligned to the configured
	// alignment.
	Alloc() unsafe.Pointer

	// Free a block back to the allocator. Returns false, without
	// mutating any state, when ptr does not belong to the allocator.
	Free(ptr unsafe.Pointer) bool

	// Full returns true when the allocator has no free block left to
	// hand out and cannot grow.
	Full() bool

	// Slabsize is the fixed block size handed out by this allocator.
	Slabsize() int64

	// Capacity is the maximum number of simultaneously live blocks.
	Capacity() int64

	// Usedmemory is the number of bytes held from the OS, including
	// book-keeping overhead.
	Usedmemory() int64

	// Info return memory accounting for this allocator.
	Info() (capacity, heap, alloc, overhead int64)

	// Release the allocator and all its resources back to the OS.
	// Outstanding blocks become invalid.
	Release()
}
