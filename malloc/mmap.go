package malloc

import "unsafe"

import "golang.org/x/sys/unix"

// osmalloc maps an anonymous read-write block of size bytes. The
// returned address is page aligned, which covers any sane block
// alignment a pool can be configured with.
func osmalloc(size int64) uintptr {
	flags := unix.MAP_PRIVATE | unix.MAP_ANON
	buf, err := unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, flags)
	if err != nil {
		panicerr("mmap %v bytes: %v", size, err)
	}
	return uintptr(unsafe.Pointer(&buf[0]))
}

// osfree unmaps a block previously returned by osmalloc.
func osfree(base uintptr, size int64) {
	buf := unsafe.Slice((*byte)(unsafe.Pointer(base)), size)
	if err := unix.Munmap(buf); err != nil {
		panicerr("munmap %v bytes: %v", size, err)
	}
}
