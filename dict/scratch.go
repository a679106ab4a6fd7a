package dict

import "sync"

// searchScratch carries the per-search buffers the hot scoring loop
// reuses across entries: a bitset of matched entry syllable positions
// and the matched-position list. Scratch is never shared between
// concurrent searches; each Search call takes one from the pool.
type searchScratch struct {
	entryMatches bitset
	positions    []int
}

var scratchPool = sync.Pool{
	New: func() any {
		return &searchScratch{
			entryMatches: newBitset(256),
			positions:    make([]int, 0, 1024),
		}
	},
}

func getScratch() *searchScratch {
	return scratchPool.Get().(*searchScratch)
}

func putScratch(s *searchScratch) {
	scratchPool.Put(s)
}
