package parser

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/starford/classlog/internal/timeline"
)

var captionClockRe = regexp.MustCompile(`^(\d{2}):(\d{2})$`)

// CaptionFile picks the caption transcript out of a captions directory
// listing: the first .txt file by name.
func CaptionFile(names []string) (string, bool) {
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	for _, n := range sorted {
		if strings.HasSuffix(n, ".txt") {
			return n, true
		}
	}
	return "", false
}

// ParseCaptions reads minute-precision caption blocks: a "HH:MM" line
// followed by the text spoken during that minute. Text before the first
// clock line is discarded.
func ParseCaptions(data []byte) (*timeline.Map, error) {
	m := timeline.New()

	var (
		at      time.Duration
		started bool
		content []string
	)
	flush := func() {
		if started {
			m.Set(at, strings.TrimSpace(strings.Join(content, " ")))
		}
		content = content[:0]
	}

	for _, line := range lines(data) {
		trimmed := strings.TrimSpace(line)
		if g := captionClockRe.FindStringSubmatch(trimmed); g != nil {
			flush()
			hi, _ := strconv.Atoi(g[1])
			lo, _ := strconv.Atoi(g[2])
			at = time.Duration(hi*60+lo) * time.Minute
			started = true
			continue
		}
		if trimmed != "" {
			content = append(content, trimmed)
		}
	}
	flush()
	return m, nil
}
