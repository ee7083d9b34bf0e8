// Package sexagesimal parses astronomical angle strings in sexagesimal
// notation (e.g. "05h 34m 31.94s", "+22° 00′ 52.2″") into decimal degrees.
package sexagesimal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind selects how a parsed value is scaled.
type Kind int

const (
	// RightAscension values are given in hours and converted to degrees (×15).
	RightAscension Kind = iota
	// Declination values are given in degrees and kept as-is.
	Declination
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case RightAscension:
		return "right_ascension"
	case Declination:
		return "declination"
	default:
		return "unknown"
	}
}

// Sentinel errors for the two parse failure classes. Callers can test with
// errors.Is and decide whether to abort or retry with corrected input.
var (
	// ErrMalformedAngle indicates the input did not tokenize into exactly
	// three numeric fields (whole units, minutes, seconds).
	ErrMalformedAngle = errors.New("malformed angle")

	// ErrNumericParse indicates a token was not a valid real number.
	ErrNumericParse = errors.New("invalid numeric token")
)

// separators are the characters stripped between numeric fields: whitespace,
// unit letters (h/m/s/d), degree/arcminute/arcsecond symbols (plus their ASCII
// stand-ins), commas, and signs. The leading sign is recovered separately
// before tokenization discards it.
const separators = " \thmsd°′″'\",+-"

func isSeparator(r rune) bool {
	return strings.ContainsRune(separators, r)
}

// Parse converts a sexagesimal angle string to decimal degrees.
//
// The input must contain exactly three numeric tokens interpreted as
// (whole-units, minutes, seconds). Right ascension values are multiplied
// by 15 (360°/24h). A leading '-' negates the result; this is detected
// before the splitter discards sign characters, so negative declinations
// round-trip correctly.
func Parse(input string, kind Kind) (float64, error) {
	trimmed := strings.TrimSpace(input)
	negative := strings.HasPrefix(trimmed, "-")

	tokens := strings.FieldsFunc(trimmed, isSeparator)
	if len(tokens) != 3 {
		return 0, fmt.Errorf("%w: %q yields %d numeric fields, want 3", ErrMalformedAngle, input, len(tokens))
	}

	var parts [3]float64
	for i, tok := range tokens {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q in %q", ErrNumericParse, tok, input)
		}
		parts[i] = v
	}

	deg := parts[0] + parts[1]/60.0 + parts[2]/3600.0
	if negative {
		deg = -deg
	}
	if kind == RightAscension {
		deg *= 15.0
	}

	return deg, nil
}
