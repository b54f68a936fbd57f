// Package malloc supplies region style memory management, preallocated
// bounded memory carved out once and recycled in O(1), with a limited
// scope:
//
//   - Pools hand out fixed size blocks; there is no coalescing,
//     splitting or variable size allocation within a pool.
//   - Pool memory is mapped from the OS in one block per pool and is
//     not scanned by the garbage collector. Values stored in pool
//     blocks must not hold pointers into the Go heap.
//   - The backing block of a pool outlives every block it ever
//     returned; it is unmapped only when the pool is Released.
//   - Blocks handed out by this package are always aligned to the
//     configured alignment.
//
// Pool is a fixed capacity array of cells threaded onto an intrusive
// LIFO free-list, the first word of every free cell holding the
// address of the next free cell. SafePool runs the same algorithm
// with the free-list head turned into a single word CAS target,
// lock-free for Alloc and wait-free in the contended fast path for
// Free. Since the backing block is never unmapped while the pool
// lives, the classical ABA hazard of reclaimed memory does not apply
// and no tagged pointers or hazard records are needed.
//
// Chain grows a pool transparently: an ordered list of chunks, each a
// block pool plus a live-allocation counter, with chunk records
// allocated out of a meta pool sized at construction. A chunk whose
// live count drops to zero is retired into a single reserved slot and
// reused before any fresh chunk is created. SafeChain coordinates the
// chunk list with a readers-writer spinlock; per chunk free-lists use
// the lock-free pool protocol and never take the outer lock.
//
// Go's sync/atomic operations are sequentially consistent, which
// subsumes the acquire/release ordering the free-list protocol needs
// to publish payload writes to a consumer that subsequently
// allocates the same cell.
package malloc
