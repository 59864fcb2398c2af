package console

import (
	"bufio"
	"io"
)

// ScannerReader reads lines from a non-interactive source such as a pipe.
type ScannerReader struct {
	scanner *bufio.Scanner
}

// NewScannerReader creates a LineReader over r.
func NewScannerReader(r io.Reader) *ScannerReader {
	return &ScannerReader{scanner: bufio.NewScanner(r)}
}

// Readline returns the next line without its terminator, or io.EOF.
func (s *ScannerReader) Readline() (string, error) {
	if s.scanner.Scan() {
		return s.scanner.Text(), nil
	}
	if err := s.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
