package catalog

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/sky/skypoint/internal/object"
	"github.com/sky/skypoint/internal/sexagesimal"
)

// Parse reads a pipe-separated catalog from r and returns the parsed entries.
//
// Line format (magnitude optional, '#' starts a comment):
//
//	Betelgeuse | 05h 55m 10.31s | +07° 24′ 25.4″ | 0.50
//
// Malformed lines are skipped with a warning log rather than failing the
// whole load.
func Parse(r io.Reader, logger *slog.Logger) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	var entries []Entry
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry, err := parseLine(line)
		if err != nil {
			logger.Warn("skipping malformed catalog line", "line", lineNo, "error", err)
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading catalog data: %w", err)
	}

	return entries, nil
}

func parseLine(line string) (Entry, error) {
	fields := strings.Split(line, "|")
	if len(fields) < 3 {
		return Entry{}, fmt.Errorf("%d fields, want at least 3 (name | ra | dec)", len(fields))
	}

	name := strings.TrimSpace(fields[0])
	if name == "" {
		return Entry{}, fmt.Errorf("empty object name")
	}

	obj, err := object.FromSexagesimal(name, strings.TrimSpace(fields[1]), strings.TrimSpace(fields[2]))
	if err != nil {
		return Entry{}, err
	}

	mag := 0.0
	if len(fields) >= 4 {
		mag, err = strconv.ParseFloat(strings.TrimSpace(fields[3]), 64)
		if err != nil {
			return Entry{}, fmt.Errorf("%w: magnitude %q", sexagesimal.ErrNumericParse, fields[3])
		}
	}

	return Entry{Object: obj, Mag: mag}, nil
}
