// Package tle parses two-line element sets in the common three-line form
// (name line followed by lines "1 ..." and "2 ...") as published by Celestrak
// and similar sources.
package tle

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Set is one parsed element set.
type Set struct {
	Name    string
	NoradID int64
	Line1   string
	Line2   string
}

var ErrBadChecksum = errors.New("tle: bad checksum")

// Parse reads element sets from r. Lines that do not belong to a complete
// name/1/2 triple are skipped; a malformed triple aborts with an error so a
// truncated download is not silently half-imported.
func Parse(r io.Reader) ([]Set, error) {
	scanner := bufio.NewScanner(r)

	var sets []Set
	var name string

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n ")
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "1 "):
			if name == "" {
				return nil, fmt.Errorf("tle: line 1 without a preceding name line: %q", line)
			}
			line1 := line
			if !scanner.Scan() {
				return nil, fmt.Errorf("tle: %q: missing line 2", name)
			}
			line2 := strings.TrimRight(scanner.Text(), "\r\n ")
			set, err := buildSet(name, line1, line2)
			if err != nil {
				return nil, err
			}
			sets = append(sets, set)
			name = ""
		case strings.HasPrefix(line, "2 "):
			return nil, fmt.Errorf("tle: orphan line 2: %q", line)
		default:
			name = strings.TrimSpace(line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return sets, nil
}

func buildSet(name, line1, line2 string) (Set, error) {
	if !strings.HasPrefix(line2, "2 ") {
		return Set{}, fmt.Errorf("tle: %q: expected line 2, got %q", name, line2)
	}
	if len(line1) < 69 || len(line2) < 69 {
		return Set{}, fmt.Errorf("tle: %q: element line too short", name)
	}
	for _, l := range []string{line1, line2} {
		if err := verifyChecksum(l); err != nil {
			return Set{}, fmt.Errorf("%w: %q", err, name)
		}
	}

	norad, err := strconv.ParseInt(strings.TrimSpace(line1[2:7]), 10, 64)
	if err != nil {
		return Set{}, fmt.Errorf("tle: %q: bad catalog number: %w", name, err)
	}

	return Set{Name: name, NoradID: norad, Line1: line1, Line2: line2}, nil
}

// verifyChecksum checks the modulo-10 checksum in column 69. Digits count as
// their value, '-' counts as 1, everything else as 0.
func verifyChecksum(line string) error {
	sum := 0
	for _, c := range line[:68] {
		switch {
		case c >= '0' && c <= '9':
			sum += int(c - '0')
		case c == '-':
			sum++
		}
	}
	want := int(line[68] - '0')
	if sum%10 != want {
		return ErrBadChecksum
	}
	return nil
}
