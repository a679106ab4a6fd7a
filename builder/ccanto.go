package builder

import (
	"fmt"
	"io"
	"strings"

	"github.com/jyutdict/jyutdict/dict"
	"github.com/jyutdict/jyutdict/jyutping"
	"k8s.io/klog/v2"
)

// CC-Canto entries have no character-frequency backing; they get a
// flat per-syllable weight instead.
const (
	ccantoBaseCost        = 15_000
	ccantoPerSyllableCost = 1_000
)

// ParseCCanto reads CC-Canto lines of the form
//
//	Traditional Simplified [pinyin] {jyutping} /Definition0/.../
func (b *Builder) ParseCCanto(r io.Reader) error {
	sizeAtStart := len(b.ccantoEntries)

	scanner := newLineScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if skipLine(line) {
			continue
		}

		traditional, rest, err := splitFields(line)
		if err != nil {
			return fmt.Errorf("cc-canto line %d: %w", scanner.lineNo, err)
		}

		rest, err = afterBracket(rest, ']')
		if err != nil {
			return fmt.Errorf("cc-canto line %d: %w", scanner.lineNo, err)
		}
		if len(rest) == 0 || rest[0] != '{' {
			return fmt.Errorf("cc-canto line %d: expected jyutping segment in %q", scanner.lineNo, line)
		}
		jyutpingEnd := strings.IndexByte(rest, '}')
		if jyutpingEnd < 0 || jyutpingEnd+2 > len(rest) {
			return fmt.Errorf("cc-canto line %d: unterminated jyutping segment in %q", scanner.lineNo, line)
		}
		jyut := rest[1:jyutpingEnd]
		english := rest[jyutpingEnd+2:]

		defs := parseDefinitions(english)

		cost := uint32(ccantoBaseCost + ccantoPerSyllableCost*len(jyutping.Split(jyut)))
		cost += costHeuristic(defs.inner)

		b.ccantoEntries = append(b.ccantoEntries, Entry{
			Traditional: traditional,
			Jyutping:    jyut,
			Definitions: defs.inner,
			Cost:        cost,
			Source:      dict.SourceCCanto,
		})
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read cc-canto source: %w", err)
	}

	klog.Infof("read %d dictionary entries from CC-Canto", len(b.ccantoEntries)-sizeAtStart)
	return nil
}
