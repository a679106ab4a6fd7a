package builder

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/jyutdict/jyutdict/dict"
	"k8s.io/klog/v2"
)

// ParseCEDict reads CEDICT lines of the form
//
//	Traditional Simplified [pinyin] /Definition0/Definition1/.../
//
// Entries are weighted by per-character frequency cost plus the
// definition-content heuristics.
func (b *Builder) ParseCEDict(r io.Reader) error {
	sizeAtStart := len(b.cedictEntries)

	scanner := newLineScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if skipLine(line) {
			continue
		}

		traditional, rest, err := splitFields(line)
		if err != nil {
			return fmt.Errorf("cedict line %d: %w", scanner.lineNo, err)
		}

		english, err := afterBracket(rest, ']')
		if err != nil {
			return fmt.Errorf("cedict line %d: %w", scanner.lineNo, err)
		}

		defs := parseDefinitions(english)

		cost := uint32(0)
		for _, c := range traditional {
			cost += b.Frequencies.CostOf(c)
		}
		cost += costHeuristic(defs.inner)

		b.cedictEntries = append(b.cedictEntries, Entry{
			Traditional: traditional,
			Definitions: defs.inner,
			Cost:        cost,
			Source:      dict.SourceCEDict,
		})
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read cedict source: %w", err)
	}

	klog.Infof("read %d dictionary entries from CEDICT", len(b.cedictEntries)-sizeAtStart)
	return nil
}

// lineScanner is a bufio.Scanner that tracks line numbers for error
// reporting.
type lineScanner struct {
	*bufio.Scanner
	lineNo int
}

func newLineScanner(r io.Reader) *lineScanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &lineScanner{Scanner: s}
}

func (s *lineScanner) Scan() bool {
	ok := s.Scanner.Scan()
	if ok {
		s.lineNo++
	}
	return ok
}

func skipLine(line string) bool {
	return len(line) == 0 || strings.HasPrefix(line, "#")
}

// splitFields strips the leading "Traditional Simplified " fields.
func splitFields(line string) (traditional, rest string, err error) {
	traditional, rest, ok := strings.Cut(line, " ")
	if !ok {
		return "", "", fmt.Errorf("missing traditional field in %q", line)
	}
	_, rest, ok = strings.Cut(rest, " ")
	if !ok {
		return "", "", fmt.Errorf("missing simplified field in %q", line)
	}
	if len(rest) == 0 || rest[0] != '[' {
		return "", "", fmt.Errorf("expected pinyin bracket in %q", line)
	}
	return traditional, rest, nil
}

// afterBracket returns the text following "<delim> " in s.
func afterBracket(s string, delim byte) (string, error) {
	end := strings.IndexByte(s, delim)
	if end < 0 || end+2 > len(s) {
		return "", fmt.Errorf("unterminated %q segment in %q", delim, s)
	}
	return s[end+2:], nil
}

// parseDefinitions splits a /def/def/ segment, trimming, dropping
// empties and case-insensitive duplicates, and stripping a trailing
// #-comment.
func parseDefinitions(english string) stringSet {
	if end := strings.IndexByte(english, '#'); end >= 0 {
		english = english[:end]
	}

	var defs stringSet
	for _, def := range strings.Split(english, "/") {
		def = strings.TrimSpace(def)
		if len(def) == 0 {
			continue
		}
		defs.add(def)
	}
	return defs
}
