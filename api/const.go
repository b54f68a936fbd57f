package api

import "errors"

// ErrorOutofMemory allocation cannot succeed because the allocator
// has no free blocks and cannot grow.
var ErrorOutofMemory = errors.New("malloc.outofmemory")

// ErrorExceedCapacity requested size cannot be served by the
// allocator's configured slab size.
var ErrorExceedCapacity = errors.New("malloc.exceedcapacity")
