package dict

import (
	"fmt"
	"sort"

	"github.com/jyutdict/jyutdict/jyutping"
	"k8s.io/klog/v2"
)

// InputEntry is one weighted record handed over by the builder.
type InputEntry struct {
	Traditional string
	Jyutping    string
	Definitions []string
	Cost        uint32
	Source      Source
}

const (
	maxCharactersPerEntry  = 127
	maxSyllablesPerEntry   = 255
	maxDefinitionsPerEntry = 255
)

// Compile packs weighted entries into a Dictionary: it derives both
// alphabets, sorts entries ascending by cost, and concatenates the
// English definitions into the shared blob. Entries that break the
// packing invariants are data corruption and panic.
func Compile(input []InputEntry) *Dictionary {
	charSet := make(map[rune]struct{})
	baseSet := make(map[string]struct{})

	for i := range input {
		for _, c := range input[i].Traditional {
			charSet[c] = struct{}{}
		}
		for _, tok := range jyutping.Split(input[i].Jyutping) {
			base, _, _ := jyutping.ParseTone(tok)
			baseSet[base] = struct{}{}
		}
	}

	chars := make([]rune, 0, len(charSet))
	for c := range charSet {
		chars = append(chars, c)
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })

	bases := make([]string, 0, len(baseSet))
	for b := range baseSet {
		bases = append(bases, b)
	}
	sort.Strings(bases)

	if len(bases) >= jyutping.MaxBase {
		panic(fmt.Sprintf("dict: syllable alphabet has %d bases, exceeds %d", len(bases), jyutping.MaxBase-1))
	}
	if len(chars) > 1<<16 {
		panic(fmt.Sprintf("dict: character alphabet has %d characters, exceeds 16-bit ids", len(chars)))
	}

	klog.V(1).Infof("compiling dictionary: %d characters, %d syllable bases, %d entries",
		len(chars), len(bases), len(input))

	d := &Dictionary{
		chars:     characterStore{characters: chars},
		syllables: syllableStore{bases: bases},
	}

	sorted := make([]InputEntry, len(input))
	copy(sorted, input)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Cost < sorted[j].Cost })

	d.entries = make([]Entry, 0, len(sorted))
	d.englishDataStarts = append(d.englishDataStarts, 0)

	for i := range sorted {
		in := &sorted[i]
		if in.Source&(SourceCEDict|SourceCCanto) == 0 {
			panic(fmt.Sprintf("dict: entry %q has no source", in.Traditional))
		}

		charIDs := make([]uint16, 0, len(in.Traditional)/3)
		for _, c := range in.Traditional {
			id, ok := d.chars.lookup(c)
			if !ok {
				panic(fmt.Sprintf("dict: character %q missing from alphabet", c))
			}
			charIDs = append(charIDs, id)
		}
		if len(charIDs) == 0 || len(charIDs) > maxCharactersPerEntry {
			panic(fmt.Sprintf("dict: entry %q has %d characters", in.Traditional, len(charIDs)))
		}

		var syllables []jyutping.Syllable
		for _, tok := range jyutping.Split(in.Jyutping) {
			base, tone, _ := jyutping.ParseTone(tok)
			id, ok := d.syllables.lookup(base)
			if !ok {
				panic(fmt.Sprintf("dict: syllable base %q missing from alphabet", base))
			}
			syllables = append(syllables, jyutping.Pack(id, tone))
		}
		if len(syllables) > maxSyllablesPerEntry {
			panic(fmt.Sprintf("dict: entry %q has %d syllables", in.Traditional, len(syllables)))
		}

		if len(in.Definitions) > maxDefinitionsPerEntry {
			panic(fmt.Sprintf("dict: entry %q has %d definitions", in.Traditional, len(in.Definitions)))
		}
		englishStart := uint32(len(d.englishDataStarts) - 1)
		for _, def := range in.Definitions {
			d.englishData = append(d.englishData, def...)
			d.englishDataStarts = append(d.englishDataStarts, uint32(len(d.englishData)))
		}
		englishEnd := englishStart + uint32(len(in.Definitions))

		d.entries = append(d.entries, Entry{
			Characters:   charIDs,
			Jyutping:     syllables,
			EnglishStart: englishStart,
			EnglishEnd:   englishEnd,
			Cost:         in.Cost,
			Flags:        uint8(in.Source),
		})
	}

	return d
}
