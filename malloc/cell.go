// Object lifetime helpers over raw blocks. A block is an untagged
// byte region sized and aligned at construction to hold any value
// the caller plans to store; the allocator never needs to ask a
// block what it holds, the free-list structure tells it. Tracking
// the current inhabitant is the caller's responsibility.

package malloc

import "unsafe"

import "github.com/darkside51/allocators/api"

// Create allocate a block and construct a zero valued T in place.
// Returns nil when the allocator is out of capacity. T must fit the
// allocator's slab size and must not hold pointers into the Go heap,
// pool memory is invisible to the garbage collector.
func Create[T any](m api.Allocator) *T {
	var zero T
	if int64(unsafe.Sizeof(zero)) > m.Slabsize() {
		panicerr("sizeof %v exceeds slabsize %v", unsafe.Sizeof(zero), m.Slabsize())
	}
	ptr := m.Alloc()
	if ptr == nil {
		return nil
	}
	value := (*T)(ptr)
	*value = zero
	return value
}

// Destroy release a block previously returned by Create. There are
// no finalizers to run, values own no resources beyond their bytes.
func Destroy[T any](m api.Allocator, value *T) bool {
	return m.Free(unsafe.Pointer(value))
}

// As reinterpret a block as a T. Behaviour is undefined unless a T
// was stored there by the caller.
func As[T any](ptr unsafe.Pointer) *T {
	return (*T)(ptr)
}
