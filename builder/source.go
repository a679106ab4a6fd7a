package builder

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// OpenSource opens a dictionary source file, transparently decoding
// gzip (CC-CEDICT is distributed as .gz). The compression is sniffed
// from the magic bytes, not the file name.
func OpenSource(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source %s: %w", path, err)
	}

	br := bufio.NewReaderSize(f, 64*1024)
	magic, err := br.Peek(2)
	if err != nil && err != io.EOF {
		f.Close()
		return nil, fmt.Errorf("failed to sniff source %s: %w", path, err)
	}

	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to open gzip source %s: %w", path, err)
		}
		return &gzipSource{gz: gz, file: f}, nil
	}

	return &plainSource{Reader: br, file: f}, nil
}

type plainSource struct {
	io.Reader
	file *os.File
}

func (s *plainSource) Close() error {
	return s.file.Close()
}

type gzipSource struct {
	gz   *gzip.Reader
	file *os.File
}

func (s *gzipSource) Read(p []byte) (int, error) {
	return s.gz.Read(p)
}

func (s *gzipSource) Close() error {
	if err := s.gz.Close(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}
