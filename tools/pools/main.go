package main

import "flag"
import "fmt"
import "math/rand"
import "sync"
import "time"
import "unsafe"

import "github.com/bnclabs/golog"
import humanize "github.com/dustin/go-humanize"

import "github.com/darkside51/allocators/malloc"

var options struct {
	slabsize  int
	chunkcap  int
	maxchunks int
	routines  int
	repeat    int
	loglevel  string
}

func argParse() {
	flag.IntVar(&options.slabsize, "slabsize", 64,
		"block size handed out by the chain")
	flag.IntVar(&options.chunkcap, "chunkcap", 1024,
		"number of blocks per chunk")
	flag.IntVar(&options.maxchunks, "maxchunks", 16,
		"maximum number of chunks")
	flag.IntVar(&options.routines, "routines", 8,
		"number of allocating goroutines")
	flag.IntVar(&options.repeat, "repeat", 100000,
		"allocate/free iterations per goroutine")
	flag.StringVar(&options.loglevel, "log", "info",
		"log level")
	flag.Parse()
}

func main() {
	argParse()
	setts := map[string]interface{}{
		"log.level": options.loglevel, "log.file": "",
	}
	log.SetLogger(nil, setts)
	malloc.LogComponents("all")

	ch := malloc.NewSafeChain(
		int64(options.slabsize), int64(options.chunkcap),
		int64(options.maxchunks), malloc.Defaultsettings())
	defer ch.Release()

	start := time.Now()
	var wg sync.WaitGroup
	for n := 0; n < options.routines; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(int64(n)))
			live := make([]unsafe.Pointer, 0, 64)
			for i := 0; i < options.repeat; i++ {
				if ptr := ch.Alloc(); ptr != nil {
					live = append(live, ptr)
				}
				if len(live) == cap(live) || r.Intn(4) == 0 {
					for _, ptr := range live {
						ch.Free(ptr)
					}
					live = live[:0]
				}
			}
			for _, ptr := range live {
				ch.Free(ptr)
			}
		}(n)
	}
	wg.Wait()
	elapsed := time.Since(start)

	ops := options.routines * options.repeat
	fmt.Printf("%v goroutines x %v iterations in %v\n",
		options.routines, options.repeat, elapsed)
	fmt.Printf("%.0f allocs/second\n", float64(ops)/elapsed.Seconds())

	capacity, heap, alloc, overhead := ch.Info()
	fmt.Printf("capacity: %v\n", humanize.Bytes(uint64(capacity)))
	fmt.Printf("heap:     %v\n", humanize.Bytes(uint64(heap)))
	fmt.Printf("alloc:    %v\n", humanize.Bytes(uint64(alloc)))
	fmt.Printf("overhead: %v\n", humanize.Bytes(uint64(overhead)))
	ch.Log()
}
