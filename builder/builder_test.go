package builder

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jyutdict/jyutdict/dict"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

const frequenciesSample = "" +
	"1\t的\t7922684\t4.094\tde/di2/di4\tof\n" +
	"2\t老\t100000\t4.194\tlao3\told\n" +
	"3\t師\t50000\t4.204\tshi1\tteacher\n"

const readingsSample = "" +
	"# comment line\n" +
	"老師 老师 [lao3 shi1] {lou5 si1}\n" +
	"學生 学生 [xue2 sheng5] {hok6 saang1}\n"

const cedictSample = "" +
	"# CC-CEDICT\n" +
	"老師 老师 [lao3 shi1] /teacher/schoolteacher/\n" +
	"學生 学生 [xue2 sheng1] /student/schoolchild/\n"

const ccantoSample = "" +
	"學生 学生 [xue2 sheng5] {hok6 saang1} /student/\n"

func parseAll(t *testing.T) *Builder {
	t.Helper()

	freq, err := ParseFrequencies(strings.NewReader(frequenciesSample))
	require.NoError(t, err)
	readings, err := ParseReadings(strings.NewReader(readingsSample))
	require.NoError(t, err)

	b := New(freq, readings)
	require.NoError(t, b.ParseCEDict(strings.NewReader(cedictSample)))
	require.NoError(t, b.ParseCCanto(strings.NewReader(ccantoSample)))
	b.Annotate()
	return b
}

func TestParseFrequencies(t *testing.T) {
	freq, err := ParseFrequencies(strings.NewReader(frequenciesSample))
	require.NoError(t, err)
	require.Equal(t, 3, freq.Len())

	// More common characters cost less.
	require.Less(t, freq.CostOf('的'), freq.CostOf('老'))
	require.Less(t, freq.CostOf('老'), freq.CostOf('師'))

	// Unknown characters get the ceiling.
	require.Equal(t, uint32(maxCharacterCost), freq.CostOf('學'))
}

func TestParseReadings(t *testing.T) {
	readings, err := ParseReadings(strings.NewReader(readingsSample))
	require.NoError(t, err)
	require.Equal(t, 2, readings.Len())

	j, ok := readings.Lookup("老師")
	require.True(t, ok)
	require.Equal(t, "lou5 si1", j)

	_, ok = readings.Lookup("唔")
	require.False(t, ok)
}

func TestAnnotateFillsCEDictJyutping(t *testing.T) {
	b := parseAll(t)

	var laoshi *Entry
	for i := range b.cedictEntries {
		if b.cedictEntries[i].Traditional == "老師" {
			laoshi = &b.cedictEntries[i]
		}
	}
	require.NotNil(t, laoshi)
	require.Equal(t, "lou5 si1", laoshi.Jyutping)
	require.Equal(t, dict.SourceCEDict, laoshi.Source)
	require.Equal(t, []string{"teacher", "schoolteacher"}, laoshi.Definitions)
}

func TestEntriesDropCEDictDuplicates(t *testing.T) {
	b := parseAll(t)
	entries := b.Entries()

	// 學生 exists in both sources with the same jyutping after
	// annotation; only the CC-Canto entry survives.
	count := 0
	for i := range entries {
		if entries[i].Traditional == "學生" {
			count++
			require.Equal(t, dict.SourceCCanto, entries[i].Source)
		}
	}
	require.Equal(t, 1, count)
	require.Len(t, entries, 2)
}

func TestCCantoCost(t *testing.T) {
	b := parseAll(t)

	var student *Entry
	for i := range b.ccantoEntries {
		if b.ccantoEntries[i].Traditional == "學生" {
			student = &b.ccantoEntries[i]
		}
	}
	require.NotNil(t, student)
	// Flat base + per-syllable weight + heuristics (no M:/CL: +5000,
	// no "(Cantonese)" +2000).
	require.Equal(t, uint32(15_000+2*1_000+5_000+2_000), student.Cost)
}

func TestCostHeuristic(t *testing.T) {
	require.Equal(t, uint32(2000), costHeuristic([]string{"CL:個|个[ge3]", "teacher"}))
	require.Equal(t, uint32(5000+5000+2000), costHeuristic([]string{"abbr. for something"}))
	require.Equal(t, uint32(5000+2000+2000), costHeuristic([]string{"Surname Lau"}))
	require.Equal(t, uint32(0), costHeuristic([]string{"(Cantonese) to chat", "M:個"}))
}

func TestCompileEndToEnd(t *testing.T) {
	b := parseAll(t)
	d := b.Compile()

	require.Equal(t, 2, d.NumEntries())

	res := d.Search("lou5 si1", 8, nil)
	require.NotEmpty(t, res.Matches)
	require.Equal(t, "老師", d.EntryCharacters(res.Matches[0].EntryID))

	res = d.Search("student", 8, nil)
	require.NotEmpty(t, res.Matches)
	require.Equal(t, "學生", d.EntryCharacters(res.Matches[0].EntryID))
}

func TestOpenSourcePlainAndGzip(t *testing.T) {
	dir := t.TempDir()

	plainPath := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(plainPath, []byte(cedictSample), 0o644))

	gzPath := filepath.Join(dir, "dict.txt.gz")
	{
		f, err := os.Create(gzPath)
		require.NoError(t, err)
		gz := gzip.NewWriter(f)
		_, err = gz.Write([]byte(cedictSample))
		require.NoError(t, err)
		require.NoError(t, gz.Close())
		require.NoError(t, f.Close())
	}

	for _, path := range []string{plainPath, gzPath} {
		r, err := OpenSource(path)
		require.NoError(t, err)
		freq := &Frequencies{}
		b := New(freq, &Readings{})
		require.NoError(t, b.ParseCEDict(r))
		require.NoError(t, r.Close())
		require.Len(t, b.cedictEntries, 2)
	}
}

func TestParseCEDictRejectsMalformedLine(t *testing.T) {
	b := New(&Frequencies{}, &Readings{})
	err := b.ParseCEDict(strings.NewReader("老師 老师 no-pinyin-bracket\n"))
	require.Error(t, err)
	require.ErrorContains(t, err, "line 1")
}
