// Package filestore keeps users and policies in line-oriented text files.
// Each store wraps an in-memory store and keeps it in step with its backing
// file: appends for new records, atomic rewrites for removals and updates.
package filestore

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/coverdesk/pkg/types"
)

// Backing is the persistent side of a file store.
type Backing interface {
	// Path names the file, for reports and logs.
	Path() string

	// ReadLines returns every non-empty line. An absent file yields an
	// error matching both types.ErrIO and fs.ErrNotExist.
	ReadLines() ([]string, error)

	// AppendLine adds one line at the end of the file, creating it if
	// needed. A failed append leaves the file at its previous length.
	AppendLine(line string) error

	// WriteLines replaces the file contents atomically.
	WriteLines(lines []string) error
}

var _ Backing = (*LineFile)(nil)

// maxLineBytes bounds a single record line.
const maxLineBytes = 1 << 20

// LineFile is a Backing on the local filesystem.
type LineFile struct {
	path string
}

// NewLineFile returns a LineFile for path. The file is not touched until
// the first read or write.
func NewLineFile(path string) *LineFile {
	return &LineFile{path: path}
}

// Path implements Backing.
func (f *LineFile) Path() string { return f.path }

// ReadLines implements Backing. Carriage returns left by editors on other
// platforms are trimmed.
func (f *LineFile) ReadLines() ([]string, error) {
	fh, err := os.Open(f.path)
	if err != nil {
		return nil, ioErr("opening", f.path, err)
	}
	defer fh.Close()

	var lines []string
	scanner := bufio.NewScanner(fh)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, ioErr("scanning", f.path, err)
	}
	return lines, nil
}

// AppendLine implements Backing. If the file does not end in a newline one
// is written first so the new record starts on its own line.
func (f *LineFile) AppendLine(line string) error {
	fh, err := os.OpenFile(f.path, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return ioErr("opening", f.path, err)
	}

	info, err := fh.Stat()
	if err != nil {
		fh.Close()
		return ioErr("stat", f.path, err)
	}
	size := info.Size()

	data := line + "\n"
	if size > 0 {
		last := make([]byte, 1)
		if _, err := fh.ReadAt(last, size-1); err != nil && !errors.Is(err, io.EOF) {
			fh.Close()
			return ioErr("reading", f.path, err)
		}
		if last[0] != '\n' {
			data = "\n" + data
		}
	}

	if _, err := fh.WriteString(data); err != nil {
		fh.Truncate(size)
		fh.Close()
		return ioErr("appending to", f.path, err)
	}
	if err := fh.Sync(); err != nil {
		fh.Truncate(size)
		fh.Close()
		return ioErr("syncing", f.path, err)
	}
	if err := fh.Close(); err != nil {
		return ioErr("closing", f.path, err)
	}
	return nil
}

// WriteLines implements Backing using the temp-file, fsync, rename pattern.
func (f *LineFile) WriteLines(lines []string) error {
	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+"-*.tmp")
	if err != nil {
		return ioErr("creating temp file for", f.path, err)
	}
	tmpName := tmp.Name()

	fail := func(what string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return ioErr(what, f.path, err)
	}

	w := bufio.NewWriter(tmp)
	for _, line := range lines {
		if _, err := w.WriteString(line); err != nil {
			return fail("writing", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail("writing", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fail("flushing", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("syncing", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return ioErr("closing temp file for", f.path, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return ioErr("replacing", f.path, err)
	}
	return nil
}

// ioErr wraps err so callers can match both types.ErrIO and the cause.
func ioErr(what, path string, err error) error {
	return fmt.Errorf("%s %s: %w: %w", what, path, types.ErrIO, err)
}
