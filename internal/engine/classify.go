package engine

import (
	"bytes"
	"errors"
	"io"
	"os"
	"unicode/utf8"
)

const sampleSize = 2048

// isBinary reads the first bytes of path and reports whether they look like
// binary data.
func isBinary(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, sampleSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return false, err
	}
	return looksBinary(buf[:n], n == sampleSize), nil
}

// looksBinary reports whether sample contains a NUL byte or is not valid
// UTF-8. When the sample was cut short, a rune split at the end is not
// counted as invalid.
func looksBinary(sample []byte, truncated bool) bool {
	if len(sample) == 0 {
		return false
	}
	if bytes.IndexByte(sample, 0) >= 0 {
		return true
	}
	if truncated {
		sample = trimPartialRune(sample)
	}
	return !utf8.Valid(sample)
}

func trimPartialRune(b []byte) []byte {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if !utf8.RuneStart(b[i]) {
			continue
		}
		if !utf8.FullRune(b[i:]) {
			return b[:i]
		}
		break
	}
	return b
}
