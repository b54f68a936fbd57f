package malloc

import "runtime"
import "sync/atomic"

// rwspinlock is a single word readers-writer spinlock. Zero is idle,
// positive values count the readers, -1 marks the writer. There is
// no reader to writer upgrade, callers release the read lock before
// attempting the write lock and re-validate afterward.
type rwspinlock struct {
	lock int32
}

func (rw *rwspinlock) rlock() {
	for {
		v := atomic.LoadInt32(&rw.lock)
		if v >= 0 && atomic.CompareAndSwapInt32(&rw.lock, v, v+1) {
			return
		}
		runtime.Gosched()
	}
}

func (rw *rwspinlock) runlock() {
	atomic.AddInt32(&rw.lock, -1)
}

func (rw *rwspinlock) wlock() {
	for atomic.CompareAndSwapInt32(&rw.lock, 0, -1) == false {
		runtime.Gosched()
	}
}

func (rw *rwspinlock) wunlock() {
	atomic.StoreInt32(&rw.lock, 0)
}
