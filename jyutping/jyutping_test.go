package jyutping

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitterBasic(t *testing.T) {
	sp := NewSplitter("hello ngo5 hai6 dan dan")
	tok, ok := sp.Next()
	require.True(t, ok)
	require.Equal(t, "ngo5", tok)
	tok, ok = sp.Next()
	require.True(t, ok)
	require.Equal(t, "hai6", tok)
	_, ok = sp.Next()
	require.False(t, ok)
}

func TestSplitterNonASCIIPunct(t *testing.T) {
	require.Equal(t,
		[]string{"bat1", "daa2", "soeng6", "fong4"},
		Split("bat1 daa2 ，soeng6 fong4"))
}

func TestSplitterNonASCIIChars(t *testing.T) {
	require.Equal(t, []string{"man4", "zuk6"}, Split("man4 zuk6ＬＯＯＫ"))
}

func TestSplitterASCIIPunctResets(t *testing.T) {
	require.Equal(t, []string{"m4", "jat1"}, Split("m4-goi jat1"))
	require.Equal(t, []string(nil), Split("..."))
	require.Equal(t, []string(nil), Split(""))
}

func TestSplitterOnlyOneTrailingDigit(t *testing.T) {
	require.Equal(t, []string{"ngo5"}, Split("ngo55"))
	require.Equal(t, []string{"ab3"}, Split("12ab3"))
}

func TestParseTone(t *testing.T) {
	base, tone, ok := ParseTone("lou5")
	require.True(t, ok)
	require.Equal(t, "lou", base)
	require.Equal(t, uint8(5), tone)

	base, _, ok = ParseTone("lou")
	require.False(t, ok)
	require.Equal(t, "lou", base)

	base, tone, ok = ParseTone("aa3")
	require.True(t, ok)
	require.Equal(t, "aa", base)
	require.Equal(t, uint8(3), tone)
}

func TestSyllablePackRoundTrip(t *testing.T) {
	for base := uint16(0); base < MaxBase; base += 7 {
		for tone := uint8(0); tone <= MaxTone; tone++ {
			s := Pack(base, tone)
			require.Equal(t, base, s.Base())
			require.Equal(t, tone, s.Tone())
		}
	}

	// Boundary values.
	s := Pack(MaxBase-1, MaxTone)
	require.Equal(t, uint16(MaxBase-1), s.Base())
	require.Equal(t, uint8(MaxTone), s.Tone())
}

func TestSyllablePackRejectsOutOfRange(t *testing.T) {
	require.Panics(t, func() { Pack(MaxBase, 0) })
	require.Panics(t, func() { Pack(0, MaxTone+1) })
}
