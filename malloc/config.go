package malloc

import s "github.com/bnclabs/gosettings"

// Alignment default alignment for blocks handed out by pools and
// chains. Should always be a power of 2.
const Alignment = int64(8)

// Maxcapacity maximum number of cells allowed in a single pool.
const Maxcapacity = int64(65536 * 1024)

// Maxchunks maximum number of chunks allowed in a chain.
const Maxchunks = int64(65536)

// Defaultsettings for pools and chains.
//
// "alignment" (int64, default: 8)
//	Every block handed out by the allocator is aligned to this
//	many bytes. Should be a power of 2.
func Defaultsettings() s.Settings {
	return s.Settings{
		"alignment": Alignment,
	}
}
