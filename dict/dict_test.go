package dict

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/jyutdict/jyutdict/datafile"
	"github.com/stretchr/testify/require"
)

func referenceEntries() []InputEntry {
	return []InputEntry{
		{
			Traditional: "老師",
			Jyutping:    "lou5 si1",
			Definitions: []string{"teacher"},
			Cost:        0,
			Source:      SourceCEDict,
		},
		{
			Traditional: "學生",
			Jyutping:    "hok6 saang1",
			Definitions: []string{"student"},
			Cost:        0,
			Source:      SourceCCanto,
		},
	}
}

func referenceDictionary(t *testing.T) *Dictionary {
	t.Helper()
	return Compile(referenceEntries())
}

func serialize(t *testing.T, d *Dictionary) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := datafile.NewWriter(&buf)
	require.NoError(t, d.WriteTo(w))
	return buf.Bytes()
}

func TestCompileAlphabets(t *testing.T) {
	d := referenceDictionary(t)

	require.Equal(t, 4, d.NumCharacters())
	require.Equal(t, 4, d.NumSyllableBases())
	require.Equal(t, []string{"hok", "lou", "saang", "si"}, d.syllables.bases)

	// Strictly ascending, binary-searchable.
	for i := 1; i < len(d.chars.characters); i++ {
		require.Less(t, d.chars.characters[i-1], d.chars.characters[i])
	}
	for i, c := range d.chars.characters {
		id, ok := d.chars.lookup(c)
		require.True(t, ok)
		require.Equal(t, uint16(i), id)
	}
	for i, b := range d.syllables.bases {
		id, ok := d.syllables.lookup(b)
		require.True(t, ok)
		require.Equal(t, uint16(i), id)
	}
	_, ok := d.syllables.lookup("zzz")
	require.False(t, ok)
}

func TestCompileSortsByCost(t *testing.T) {
	entries := []InputEntry{
		{Traditional: "三", Jyutping: "saam1", Definitions: []string{"three"}, Cost: 900, Source: SourceCEDict},
		{Traditional: "一", Jyutping: "jat1", Definitions: []string{"one"}, Cost: 100, Source: SourceCEDict},
		{Traditional: "二", Jyutping: "ji6", Definitions: []string{"two"}, Cost: 500, Source: SourceCCanto},
	}
	d := Compile(entries)

	require.Equal(t, 3, d.NumEntries())
	require.Equal(t, uint32(100), d.EntryCost(0))
	require.Equal(t, uint32(500), d.EntryCost(1))
	require.Equal(t, uint32(900), d.EntryCost(2))
	require.Equal(t, "一", d.EntryCharacters(0))
	require.Equal(t, []string{"one"}, d.EntryEnglishDefinitions(0))
	require.Equal(t, SourceCCanto, d.EntrySource(1))
}

func TestSerializeDeserializeIdentity(t *testing.T) {
	entries := []InputEntry{
		{Traditional: "老師", Jyutping: "lou5 si1", Definitions: []string{"teacher", "instructor"}, Cost: 5, Source: SourceCEDict},
		{Traditional: "學生", Jyutping: "hok6 saang1", Definitions: []string{"student"}, Cost: 70000, Source: SourceCCanto},
		{Traditional: "學", Jyutping: "hok6", Definitions: []string{"to learn"}, Cost: 70000, Source: SourceCEDict},
	}
	d := Compile(entries)
	data := serialize(t, d)

	got, err := Read(data)
	require.NoError(t, err)

	require.Equal(t, d.chars.characters, got.chars.characters)
	require.Equal(t, d.syllables.bases, got.syllables.bases)
	require.Equal(t, d.entries, got.entries)
	require.Equal(t, d.englishData, got.englishData)
	require.Equal(t, d.englishDataStarts, got.englishDataStarts)
}

func TestSerializedLayout(t *testing.T) {
	d := referenceDictionary(t)
	data := serialize(t, d)

	require.Equal(t, Magic[:], data[:8])
	require.Equal(t, Version, binary.LittleEndian.Uint32(data[8:12]))
	require.Equal(t, uint32(4), binary.LittleEndian.Uint32(data[12:16]))

	// The stream ends with the zero u64 pad for speculative vbyte reads.
	require.Equal(t, uint64(0), binary.LittleEndian.Uint64(data[len(data)-8:]))

	// The english blob section is findable by its magic.
	idx := bytes.Index(data, BlobMagic[:])
	require.Greater(t, idx, 0)
	blobLen := binary.LittleEndian.Uint32(data[idx+8 : idx+12])
	require.Equal(t, uint32(len("teacherstudent")), blobLen)
	require.Equal(t, []byte("teacherstudent"), data[idx+12:idx+12+int(blobLen)])
}

func TestReadRejectsCorruptHeaders(t *testing.T) {
	d := referenceDictionary(t)
	data := serialize(t, d)

	{
		bad := append([]byte(nil), data...)
		bad[0] = 'X'
		_, err := Read(bad)
		require.ErrorContains(t, err, "magic")
	}
	{
		bad := append([]byte(nil), data...)
		binary.LittleEndian.PutUint32(bad[8:12], 7)
		_, err := Read(bad)
		require.ErrorContains(t, err, "version")
	}
	{
		// Zero out the first entry's source flags.
		// Entry section begins after chars and syllables; find it by
		// re-reading the prefix.
		r := datafile.NewReader(data)
		r.Skip(8 + 4)
		charCount := int(r.ReadU32())
		for i := 0; i < charCount; i++ {
			r.ReadUTF8Char()
		}
		syllableCount := int(r.ReadU32())
		for i := 0; i < syllableCount; i++ {
			r.ReadString()
		}
		r.ReadU32() // entry count
		flagsPos := r.Pos()

		bad := append([]byte(nil), data...)
		bad[flagsPos] = 0
		_, err := Read(bad)
		require.ErrorContains(t, err, "source flag")
	}
}

func TestReadRejectsBadTone(t *testing.T) {
	d := referenceDictionary(t)

	// Corrupt an in-memory syllable to tone 7 and reserialize.
	d.entries[0].Jyutping[0] = d.entries[0].Jyutping[0] | 7<<13
	data := serialize(t, d)

	_, err := Read(data)
	require.ErrorContains(t, err, "tone")
}

func TestEnglishOffsetsNonDecreasing(t *testing.T) {
	d := referenceDictionary(t)
	starts := d.englishDataStarts
	require.Equal(t, uint32(0), starts[0])
	for i := 1; i < len(starts); i++ {
		require.GreaterOrEqual(t, starts[i], starts[i-1])
	}
	require.Equal(t, uint32(len(d.englishData)), starts[len(starts)-1])
}
