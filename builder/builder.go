// Package builder parses the dictionary sources (CEDICT, CC-Canto, the
// Cantonese readings supplement, and the character frequency table)
// into weighted entries and compiles them into a dictionary.
package builder

import (
	"github.com/cespare/xxhash/v2"
	"github.com/jyutdict/jyutdict/dict"
	"k8s.io/klog/v2"
)

// Entry is one parsed, weighted dictionary record.
type Entry struct {
	Traditional string
	Jyutping    string
	Definitions []string
	Cost        uint32
	Source      dict.Source
}

// Builder accumulates parsed entries and the auxiliary tables.
type Builder struct {
	Frequencies *Frequencies
	Readings    *Readings

	cedictEntries []Entry
	ccantoEntries []Entry
}

func New(freq *Frequencies, readings *Readings) *Builder {
	return &Builder{
		Frequencies: freq,
		Readings:    readings,
	}
}

// Annotate fills in the Jyutping of CEDICT entries from the readings
// supplement. CEDICT itself carries no Cantonese romanisation.
func (b *Builder) Annotate() {
	annotated := 0
	for i := range b.cedictEntries {
		e := &b.cedictEntries[i]
		if j, ok := b.Readings.Lookup(e.Traditional); ok {
			e.Jyutping = j
			annotated++
		}
	}
	klog.V(1).Infof("annotated %d of %d CEDICT entries with jyutping readings", annotated, len(b.cedictEntries))
}

// Entries returns the combined entry list: CEDICT entries first, then
// CC-Canto, with CEDICT entries dropped when CC-Canto carries the same
// (traditional, jyutping) pair. The collapse is what keeps the two
// source flags mutually exclusive downstream.
func (b *Builder) Entries() []Entry {
	cantoKeys := make(map[uint64]struct{}, len(b.ccantoEntries))
	for i := range b.ccantoEntries {
		cantoKeys[entryKey(&b.ccantoEntries[i])] = struct{}{}
	}

	out := make([]Entry, 0, len(b.cedictEntries)+len(b.ccantoEntries))
	dropped := 0
	for i := range b.cedictEntries {
		if _, dup := cantoKeys[entryKey(&b.cedictEntries[i])]; dup {
			dropped++
			continue
		}
		out = append(out, b.cedictEntries[i])
	}
	out = append(out, b.ccantoEntries...)

	if dropped > 0 {
		klog.V(1).Infof("dropped %d CEDICT entries duplicated by CC-Canto", dropped)
	}
	return out
}

// Compile packs the combined entries into a searchable dictionary.
func (b *Builder) Compile() *dict.Dictionary {
	entries := b.Entries()
	input := make([]dict.InputEntry, len(entries))
	for i := range entries {
		input[i] = dict.InputEntry{
			Traditional: entries[i].Traditional,
			Jyutping:    entries[i].Jyutping,
			Definitions: entries[i].Definitions,
			Cost:        entries[i].Cost,
			Source:      entries[i].Source,
		}
	}
	return dict.Compile(input)
}

func entryKey(e *Entry) uint64 {
	h := xxhash.New()
	h.WriteString(e.Traditional)
	h.Write([]byte{0})
	h.WriteString(e.Jyutping)
	return h.Sum64()
}

// stringSet collects strings, dropping ASCII-case-insensitive
// duplicates while preserving first-seen order.
type stringSet struct {
	inner []string
}

func (s *stringSet) contains(v string) bool {
	for _, x := range s.inner {
		if asciiEqualFold(x, v) {
			return true
		}
	}
	return false
}

func (s *stringSet) add(v string) {
	if !s.contains(v) {
		s.inner = append(s.inner, v)
	}
}

func asciiEqualFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
