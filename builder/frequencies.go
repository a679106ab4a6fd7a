package builder

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/hashmap"
	"k8s.io/klog/v2"
)

// Character costs are negative log frequency, scaled and clamped.
const (
	frequencyCostScale = 1_000.0
	minCharacterCost   = 1
	maxCharacterCost   = 64_000
)

// FrequencyData is one character's row of the frequency table.
type FrequencyData struct {
	Index     int32
	Count     int32
	Frequency float32
	Cost      uint32
}

// Frequencies holds per-character usage statistics used to weight
// CEDICT entries.
type Frequencies struct {
	inner hashmap.Map[rune, FrequencyData]
}

// CostOf returns the character's cost, or the maximum for characters
// missing from the table.
func (f *Frequencies) CostOf(c rune) uint32 {
	if data, ok := f.inner.Get(c); ok {
		return data.Cost
	}
	return maxCharacterCost
}

// Len reports the number of characters with frequency data.
func (f *Frequencies) Len() int {
	return f.inner.Len()
}

// ParseFrequencies reads tab-separated rows of the form
//
//	index \t character \t count \t cumulative frequency percentile \t ...
//
// The per-character frequency is the difference of consecutive
// cumulative percentiles.
func ParseFrequencies(r io.Reader) (*Frequencies, error) {
	out := &Frequencies{}

	lastCumulative := 0.0
	scanner := newLineScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if skipLine(line) {
			continue
		}

		fields := strings.SplitN(line, "\t", 5)
		if len(fields) < 4 {
			return nil, fmt.Errorf("frequencies line %d: expected 4 tab-separated fields in %q", scanner.lineNo, line)
		}

		index, err := strconv.ParseInt(fields[0], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("frequencies line %d: bad index: %w", scanner.lineNo, err)
		}
		count, err := strconv.ParseInt(fields[2], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("frequencies line %d: bad count: %w", scanner.lineNo, err)
		}
		cumulative, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("frequencies line %d: bad cumulative percentile: %w", scanner.lineNo, err)
		}

		frequency := (cumulative - lastCumulative) / 100.0
		lastCumulative = cumulative

		var c rune
		for _, ch := range fields[1] {
			c = ch
			break
		}

		out.inner.Set(c, FrequencyData{
			Index:     int32(index),
			Count:     int32(count),
			Frequency: float32(frequency),
			Cost:      frequencyCost(frequency),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read frequencies source: %w", err)
	}

	klog.Infof("read %d character frequencies", out.Len())
	return out, nil
}

func frequencyCost(frequency float64) uint32 {
	if frequency <= 0 {
		return maxCharacterCost
	}
	cost := -frequencyCostScale * math.Log(frequency)
	if cost < minCharacterCost {
		return minCharacterCost
	}
	if cost > maxCharacterCost {
		return maxCharacterCost
	}
	return uint32(cost)
}
