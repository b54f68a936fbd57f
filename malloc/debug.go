//go:build debug

package malloc

import "unsafe"

// initblock fills a freshly handed out block with 0xff, to trip up
// callers reading before initializing.
func initblock(block uintptr, size int64) {
	dst := unsafe.Slice((*byte)(unsafe.Pointer(block)), size)
	for len(dst) >= len(poolblkinit) {
		copy(dst, poolblkinit)
		dst = dst[len(poolblkinit):]
	}
	copy(dst, poolblkinit)
}
