// Package files implements small file helpers used when loading the startup resources.
package files

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/mmap"
)

// Exists returns true if the path exists and is not a directory.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// maxLineSize is the largest line accepted when scanning a resource file.
const maxLineSize = 1 << 20

// ScanLines calls fn for every line of r with its trailing "\r" removed. Scanning stops at the
// first error returned by fn.
func ScanLines(r io.Reader, fn func(lineNum int, line string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if err := fn(lineNum, strings.TrimRight(scanner.Text(), "\r")); err != nil {
			return err
		}
	}
	return errors.Wrap(scanner.Err(), "while scanning lines")
}

// ScanFileLines memory-maps the file at path and calls fn for each of its lines.
// Word lists and lexicons can be large, and mapping them avoids holding a second copy
// in the heap while they are indexed.
func ScanFileLines(path string, fn func(lineNum int, line string) error) error {
	reader, err := mmap.Open(path)
	if err != nil {
		return errors.Wrapf(err, "failed to open %q", path)
	}
	defer func() { _ = reader.Close() }()
	err = ScanLines(io.NewSectionReader(reader, 0, int64(reader.Len())), fn)
	if err != nil {
		return errors.WithMessagef(err, "while reading %q", path)
	}
	return nil
}
