//go:build !debug

package malloc

import "unsafe"

// initblock zeroes a freshly handed out block.
func initblock(block uintptr, size int64) {
	dst := unsafe.Slice((*byte)(unsafe.Pointer(block)), size)
	for i := range dst {
		dst[i] = 0
	}
}
