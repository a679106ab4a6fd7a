// Package dict implements the compiled dictionary: the compact
// in-memory representation searched at query time, its binary
// serialization, and the search engine itself.
package dict

import (
	"fmt"
	"sort"

	"github.com/jyutdict/jyutdict/jyutping"
)

// Source identifies which input dictionary an entry came from. The two
// bits are mutually exclusive; an entry with neither set is corrupt.
type Source uint8

const (
	SourceCEDict Source = 1 << 0
	SourceCCanto Source = 1 << 1
)

func (s Source) String() string {
	switch s {
	case SourceCEDict:
		return "CEDict"
	case SourceCCanto:
		return "CCanto"
	}
	return fmt.Sprintf("Source(%d)", uint8(s))
}

// Entry is one packed dictionary record. Characters and Jyutping run in
// parallel; EnglishStart/EnglishEnd index the offset table half-open.
type Entry struct {
	Characters   []uint16
	Jyutping     []jyutping.Syllable
	EnglishStart uint32
	EnglishEnd   uint32
	Cost         uint32
	Flags        uint8
}

func (e *Entry) Source() Source {
	if e.Flags&uint8(SourceCEDict) != 0 {
		return SourceCEDict
	}
	if e.Flags&uint8(SourceCCanto) != 0 {
		return SourceCCanto
	}
	panic("dict: entry has no source flag")
}

// Dictionary is the immutable compiled form. Entries are sorted
// ascending by static cost.
type Dictionary struct {
	chars     characterStore
	syllables syllableStore

	entries []Entry

	englishData       []byte
	englishDataStarts []uint32
}

func (d *Dictionary) NumEntries() int {
	return len(d.entries)
}

func (d *Dictionary) NumCharacters() int {
	return len(d.chars.characters)
}

func (d *Dictionary) NumSyllableBases() int {
	return len(d.syllables.bases)
}

func (d *Dictionary) EnglishDataLen() int {
	return len(d.englishData)
}

func (d *Dictionary) NumDefinitions() int {
	if len(d.englishDataStarts) == 0 {
		return 0
	}
	return len(d.englishDataStarts) - 1
}

// characterStore is the sorted character alphabet. A character's
// position is its id; lookup is binary search.
type characterStore struct {
	characters []rune
}

func (cs *characterStore) lookup(c rune) (uint16, bool) {
	i := sort.Search(len(cs.characters), func(i int) bool {
		return cs.characters[i] >= c
	})
	if i < len(cs.characters) && cs.characters[i] == c {
		return uint16(i), true
	}
	return 0, false
}

// syllableStore is the sorted alphabet of tone-less syllable bases.
type syllableStore struct {
	bases []string
}

func (ss *syllableStore) lookup(base string) (uint16, bool) {
	i := sort.SearchStrings(ss.bases, base)
	if i < len(ss.bases) && ss.bases[i] == base {
		return uint16(i), true
	}
	return 0, false
}
