package dict

import (
	"fmt"
	"os"

	"github.com/jyutdict/jyutdict/datafile"
	"k8s.io/klog/v2"
)

// Magic leads every index file; BlobMagic leads the English section.
var (
	Magic     = [8]byte{'j', 'y', 'p', '_', 'd', 'i', 'c', 't'}
	BlobMagic = [8]byte{'e', 'n', '_', 'd', 'a', 't', 'a', '_'}
)

// Version is the only file format version this build reads or writes.
const Version = uint32(8)

// WriteTo serializes the dictionary. The stream ends with a zero u64 so
// that the reader's speculative vbyte reads stay in bounds.
func (d *Dictionary) WriteTo(w *datafile.Writer) error {
	if err := w.WriteBytes(Magic[:]); err != nil {
		return err
	}
	if err := w.WriteU32(Version); err != nil {
		return err
	}

	if err := w.WriteU32(uint32(len(d.chars.characters))); err != nil {
		return err
	}
	for _, c := range d.chars.characters {
		if err := w.WriteUTF8Char(c); err != nil {
			return err
		}
	}

	if err := w.WriteU32(uint32(len(d.syllables.bases))); err != nil {
		return err
	}
	for _, b := range d.syllables.bases {
		if err := w.WriteString(b); err != nil {
			return err
		}
	}

	if err := w.WriteU32(uint32(len(d.entries))); err != nil {
		return err
	}
	prevCost := uint32(0)
	for i := range d.entries {
		e := &d.entries[i]
		if e.Cost < prevCost {
			panic(fmt.Sprintf("dict: entry %d cost %d below previous %d", i, e.Cost, prevCost))
		}
		if err := w.WriteU8(e.Flags); err != nil {
			return err
		}
		if err := w.WriteU8(uint8(len(e.Characters))); err != nil {
			return err
		}
		for _, id := range e.Characters {
			if err := w.WriteU16(id); err != nil {
				return err
			}
		}
		if err := w.WriteU8(uint8(len(e.Jyutping))); err != nil {
			return err
		}
		for _, s := range e.Jyutping {
			if err := w.WriteU16(uint16(s)); err != nil {
				return err
			}
		}
		if err := w.WriteU8(uint8(e.EnglishEnd - e.EnglishStart)); err != nil {
			return err
		}
		if err := w.WriteVByte(uint64(e.Cost - prevCost)); err != nil {
			return err
		}
		prevCost = e.Cost
	}

	if err := w.WriteBytes(BlobMagic[:]); err != nil {
		return err
	}
	if err := w.WriteBytesAndLength(d.englishData); err != nil {
		return err
	}

	if err := w.WriteU32(uint32(len(d.englishDataStarts))); err != nil {
		return err
	}
	prevStart := uint32(0)
	for i, s := range d.englishDataStarts {
		if s < prevStart {
			panic(fmt.Sprintf("dict: english offset %d at index %d below previous %d", s, i, prevStart))
		}
		if err := w.WriteVByte(uint64(s - prevStart)); err != nil {
			return err
		}
		prevStart = s
	}

	if err := w.WritePad(); err != nil {
		return err
	}
	return w.Flush()
}

// WriteFile serializes the dictionary to a file.
func (d *Dictionary) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	w := datafile.NewWriter(f)
	if err := d.WriteTo(w); err != nil {
		f.Close()
		return fmt.Errorf("failed to write index: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	klog.V(1).Infof("wrote %d bytes to %s", w.Count(), path)
	return f.Close()
}
