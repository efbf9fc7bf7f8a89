// Package timecode renders session offsets as colon-separated display
// timestamps and as the compact form used in stream URLs.
package timecode

import (
	"fmt"
	"strings"
	"time"
)

const day = 24 * 60 * 60

// components splits whole seconds into days, hours, minutes and seconds.
func components(d time.Duration) [4]int64 {
	s := int64(d / time.Second)
	return [4]int64{
		s / day,
		(s % day) / 3600,
		(s % 3600) / 60,
		s % 60,
	}
}

// Display formats d as DD:HH:MM:SS, dropping leading zero components while
// more than minimalPlaces remain. Fractions of a second are floored.
func Display(d time.Duration, minimalPlaces int) string {
	if d < 0 {
		return "-" + Display(-d, minimalPlaces)
	}
	if minimalPlaces < 1 {
		minimalPlaces = 1
	}
	if minimalPlaces > 4 {
		minimalPlaces = 4
	}

	parts := components(d)
	start := 0
	for start < len(parts)-minimalPlaces && parts[start] == 0 {
		start++
	}

	out := make([]string, 0, len(parts)-start)
	for _, p := range parts[start:] {
		out = append(out, fmt.Sprintf("%02d", p))
	}
	return strings.Join(out, ":")
}

// Compact formats d the way stream platforms accept it in a t= query
// parameter, e.g. 01h02m03s.
func Compact(d time.Duration, minimalPlaces int) string {
	parts := strings.Split(Display(d, minimalPlaces), ":")
	units := []string{"d", "h", "m"}

	var b strings.Builder
	for i, p := range parts {
		b.WriteString(p)
		if i < len(parts)-1 {
			b.WriteString(units[len(units)-(len(parts)-1)+i])
		}
	}
	b.WriteString("s")
	return b.String()
}

// Places returns how many components Display(d, 1) produces.
func Places(d time.Duration) int {
	if d < 0 {
		d = -d
	}
	return strings.Count(Display(d, 1), ":") + 1
}

// Seconds converts a whole number of seconds to a Duration.
func Seconds(s int64) time.Duration {
	return time.Duration(s) * time.Second
}
