// Package allocators implement a collection of region style memory
// allocators and necessary tools and libraries.
//
// api:
//
// Interface specification to access the allocators.
//
// malloc:
//
// Fixed size block pools with an intrusive free-list, in single
// threaded and lock-free variants, and chained pools that grow and
// shrink a list of block pools on demand.
//
// stack:
//
// Stack region over a fixed byte buffer with LIFO markers, a dual
// stack variant carving two regions out of one buffer, and scoped
// markers to rewind allocations.
package allocators
