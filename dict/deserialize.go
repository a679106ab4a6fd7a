package dict

import (
	"bytes"
	"fmt"
	"os"

	"github.com/jyutdict/jyutdict/datafile"
	"github.com/jyutdict/jyutdict/jyutping"
)

// Read deserializes a compiled dictionary from an in-memory index
// image. The returned Dictionary aliases data; the caller must not
// mutate it. Structural corruption beyond the checks below (a
// truncated stream) panics, matching the writer's assertions.
func Read(data []byte) (*Dictionary, error) {
	r := datafile.NewReader(data)

	magic := r.ReadBytes(8)
	if !bytes.Equal(magic, Magic[:]) {
		return nil, fmt.Errorf("invalid magic %q, want %q", magic, Magic[:])
	}
	if v := r.ReadU32(); v != Version {
		return nil, fmt.Errorf("unsupported index version %d, want %d", v, Version)
	}

	d := &Dictionary{}

	charCount := int(r.ReadU32())
	d.chars.characters = make([]rune, charCount)
	for i := 0; i < charCount; i++ {
		c := r.ReadUTF8Char()
		if i > 0 && c <= d.chars.characters[i-1] {
			return nil, fmt.Errorf("character alphabet not strictly ascending at index %d", i)
		}
		d.chars.characters[i] = c
	}

	syllableCount := int(r.ReadU32())
	if syllableCount >= jyutping.MaxBase {
		return nil, fmt.Errorf("syllable alphabet has %d bases, exceeds %d", syllableCount, jyutping.MaxBase-1)
	}
	d.syllables.bases = make([]string, syllableCount)
	for i := 0; i < syllableCount; i++ {
		b := r.ReadString()
		if i > 0 && b <= d.syllables.bases[i-1] {
			return nil, fmt.Errorf("syllable alphabet not strictly ascending at index %d", i)
		}
		d.syllables.bases[i] = b
	}

	entryCount := int(r.ReadU32())
	d.entries = make([]Entry, 0, entryCount)
	cost := uint32(0)
	englishStart := uint32(0)
	for i := 0; i < entryCount; i++ {
		flags := r.ReadU8()
		if flags&uint8(SourceCEDict|SourceCCanto) == 0 {
			return nil, fmt.Errorf("entry %d has no source flag", i)
		}

		charsLen := int(r.ReadU8())
		if charsLen > maxCharactersPerEntry {
			return nil, fmt.Errorf("entry %d has %d characters", i, charsLen)
		}
		charIDs := make([]uint16, charsLen)
		for j := range charIDs {
			id := r.ReadU16()
			if int(id) >= charCount {
				return nil, fmt.Errorf("entry %d references character id %d outside alphabet", i, id)
			}
			charIDs[j] = id
		}

		jyutLen := int(r.ReadU8())
		syllables := make([]jyutping.Syllable, jyutLen)
		for j := range syllables {
			s := jyutping.Syllable(r.ReadU16())
			if s.Tone() > jyutping.MaxTone {
				return nil, fmt.Errorf("entry %d has packed tone %d", i, s.Tone())
			}
			if int(s.Base()) >= syllableCount {
				return nil, fmt.Errorf("entry %d references syllable base %d outside alphabet", i, s.Base())
			}
			syllables[j] = s
		}

		englishDelta := uint32(r.ReadU8())
		cost += uint32(r.ReadVByte())

		d.entries = append(d.entries, Entry{
			Characters:   charIDs,
			Jyutping:     syllables,
			EnglishStart: englishStart,
			EnglishEnd:   englishStart + englishDelta,
			Cost:         cost,
			Flags:        flags,
		})
		englishStart += englishDelta
	}

	blobMagic := r.ReadBytes(8)
	if !bytes.Equal(blobMagic, BlobMagic[:]) {
		return nil, fmt.Errorf("invalid english blob magic %q, want %q", blobMagic, BlobMagic[:])
	}
	blobLen := int(r.ReadU32())
	d.englishData = r.ReadBytes(blobLen)

	startsCount := int(r.ReadU32())
	d.englishDataStarts = make([]uint32, startsCount)
	offset := uint32(0)
	for i := 0; i < startsCount; i++ {
		offset += uint32(r.ReadVByte())
		d.englishDataStarts[i] = offset
	}

	// The trailing zero u64 pad is left unconsumed.
	return d, nil
}

// Open reads a compiled dictionary from a file.
func Open(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read index %s: %w", path, err)
	}
	d, err := Read(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load index %s: %w", path, err)
	}
	return d, nil
}
