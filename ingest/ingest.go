// Package ingest turns files and streams into batches of text units.
//
// Units are passed through byte for byte. Input that is not valid UTF-8 is
// rejected rather than transcoded.
package ingest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/edsrzf/mmap-go"
)

// maxLine bounds a single unit read from a stream.
const maxLine = 64 << 20

// InvalidUTF8Error names the unit that failed validation.
type InvalidUTF8Error struct {
	Source string
	Unit   int
}

func (e *InvalidUTF8Error) Error() string {
	return fmt.Sprintf("ingest: %s: unit %d is not valid UTF-8", e.Source, e.Unit+1)
}

// File maps path read-only and returns its units: one per line, or the
// whole file as a single unit when whole is set.
func File(path string, whole bool) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}
	if info.Size() == 0 {
		if whole {
			return []string{""}, nil
		}
		return nil, nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("ingest: mmap %s: %w", path, err)
	}
	// string() copies out of the mapping before it is released.
	data := string(m)
	if err := m.Unmap(); err != nil {
		return nil, fmt.Errorf("ingest: unmap %s: %w", path, err)
	}

	if whole {
		if !utf8.ValidString(data) {
			return nil, &InvalidUTF8Error{Source: path}
		}
		return []string{data}, nil
	}
	return split(path, data)
}

// Files concatenates the units of every path in order.
func Files(paths []string, whole bool) ([]string, error) {
	var units []string
	for _, p := range paths {
		u, err := File(p, whole)
		if err != nil {
			return nil, err
		}
		units = append(units, u...)
	}
	return units, nil
}

// Reader reads one unit per line from r.
func Reader(name string, r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	var units []string
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if !utf8.ValidString(line) {
			return nil, &InvalidUTF8Error{Source: name, Unit: len(units)}
		}
		units = append(units, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("ingest: %s: %w", name, err)
	}
	return units, nil
}

// ReadAll reads r to the end as a single unit.
func ReadAll(name string, r io.Reader) ([]string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("ingest: %s: %w", name, err)
	}
	if !utf8.Valid(b) {
		return nil, &InvalidUTF8Error{Source: name}
	}
	return []string{string(b)}, nil
}

// split breaks data into lines. A trailing newline does not produce an
// extra empty unit; empty lines in between do.
func split(name, data string) ([]string, error) {
	data = strings.TrimSuffix(data, "\n")
	lines := strings.Split(data, "\n")
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if !utf8.ValidString(line) {
			return nil, &InvalidUTF8Error{Source: name, Unit: i}
		}
		lines[i] = line
	}
	return lines, nil
}
