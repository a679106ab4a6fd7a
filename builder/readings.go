package builder

import (
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/hashmap"
	"k8s.io/klog/v2"
)

// Readings maps Traditional forms to their Jyutping romanisations,
// parsed from the canto-readings supplement to CC-CEDICT.
type Readings struct {
	inner hashmap.Map[string, []string]
}

// Lookup returns the first recorded romanisation for chars.
func (r *Readings) Lookup(chars string) (string, bool) {
	list, ok := r.inner.Get(chars)
	if !ok || len(list) == 0 {
		return "", false
	}
	return list[0], true
}

// Len reports the number of Traditional forms with readings.
func (r *Readings) Len() int {
	return r.inner.Len()
}

func (r *Readings) add(chars, jyut string) {
	list, _ := r.inner.Get(chars)
	for _, existing := range list {
		if asciiEqualFold(existing, jyut) {
			return
		}
	}
	r.inner.Set(chars, append(list, jyut))
}

// ParseReadings reads lines of the form
//
//	Traditional Simplified [pinyin] {jyutping}
func ParseReadings(rd io.Reader) (*Readings, error) {
	out := &Readings{}

	scanner := newLineScanner(rd)
	for scanner.Scan() {
		line := scanner.Text()
		if skipLine(line) {
			continue
		}

		traditional, rest, err := splitFields(line)
		if err != nil {
			return nil, fmt.Errorf("readings line %d: %w", scanner.lineNo, err)
		}

		rest, err = afterBracket(rest, ']')
		if err != nil {
			return nil, fmt.Errorf("readings line %d: %w", scanner.lineNo, err)
		}
		if len(rest) < 2 || rest[0] != '{' {
			return nil, fmt.Errorf("readings line %d: expected jyutping segment in %q", scanner.lineNo, line)
		}
		end := strings.IndexByte(rest, '}')
		if end < 0 {
			return nil, fmt.Errorf("readings line %d: unterminated jyutping segment in %q", scanner.lineNo, line)
		}

		out.add(traditional, rest[1:end])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read readings source: %w", err)
	}

	klog.Infof("read %d jyutping romanisations", out.Len())
	return out, nil
}
