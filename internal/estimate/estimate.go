// Package estimate converts task time estimates between the
// human-readable forms tool calls use ("30m", "1.5h", "1h 30m") and
// the millisecond integers the store persists. The conversion is not
// a byte round trip: "90m" parses to 5400000ms, which formats back as
// "1.5h".
package estimate

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	msPerMinute = 60 * 1000
	msPerHour   = 60 * msPerMinute
)

// ParseError reports an estimate string that could not be understood.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid time estimate %q: use formats like \"30m\", \"1.5h\", or \"1h 30m\"", e.Input)
}

// Parse converts an estimate string to milliseconds. Each
// space-separated part must be a number suffixed with "h" or "m"; the
// total must be positive.
func Parse(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &ParseError{Input: s}
	}

	var totalMinutes float64
	for _, part := range strings.Fields(s) {
		minutes, err := parsePart(part)
		if err != nil {
			return 0, &ParseError{Input: s}
		}
		totalMinutes += minutes
	}
	if totalMinutes <= 0 {
		return 0, &ParseError{Input: s}
	}
	return int64(totalMinutes * msPerMinute), nil
}

func parsePart(part string) (float64, error) {
	var scale float64
	switch {
	case strings.HasSuffix(part, "h"):
		scale = 60
	case strings.HasSuffix(part, "m"):
		scale = 1
	default:
		return 0, fmt.Errorf("unrecognized unit in %q", part)
	}
	n, err := strconv.ParseFloat(part[:len(part)-1], 64)
	if err != nil {
		return 0, err
	}
	return n * scale, nil
}

// Format renders milliseconds as a compact estimate: whole minutes
// below an hour, whole hours when even, otherwise hours to one
// decimal. Zero or negative input yields "" — the caller omits the
// field entirely rather than showing "0m".
func Format(ms int64) string {
	if ms <= 0 {
		return ""
	}
	if ms < msPerHour {
		return fmt.Sprintf("%dm", ms/msPerMinute)
	}
	if ms%msPerHour == 0 {
		return fmt.Sprintf("%dh", ms/msPerHour)
	}
	return fmt.Sprintf("%.1fh", float64(ms)/msPerHour)
}
