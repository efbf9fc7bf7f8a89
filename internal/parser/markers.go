package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/starford/classlog/internal/timeline"
)

// ParseMarkers reads "<time>\t<label>" lines. The time field is seconds,
// minutes:seconds or hours:minutes:seconds. Everything after the first tab
// is kept verbatim as the label.
func ParseMarkers(data []byte) (*timeline.Map, error) {
	m := timeline.New()
	for i, line := range lines(data) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		field, label, _ := strings.Cut(line, "\t")
		at, err := parseClock(strings.TrimSpace(field))
		if err != nil {
			return nil, malformed(i+1, line, "time field: %w", err)
		}
		m.Set(at, label)
	}
	return m, nil
}

// parseClock converts s, m:s or h:m:s into a duration.
func parseClock(field string) (time.Duration, error) {
	parts := strings.Split(field, ":")
	if len(parts) > 3 {
		return 0, strconv.ErrSyntax
	}

	var total int64
	for _, p := range parts {
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return 0, err
		}
		total = total*60 + int64(n)
	}
	return time.Duration(total) * time.Second, nil
}

// lines splits data on newlines and drops carriage returns.
func lines(data []byte) []string {
	out := strings.Split(string(data), "\n")
	for i, l := range out {
		out[i] = strings.TrimSuffix(l, "\r")
	}
	return out
}
