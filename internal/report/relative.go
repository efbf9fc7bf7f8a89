package report

import (
	"github.com/starford/classlog/internal/timecode"
	"github.com/starford/classlog/internal/timeline"
)

// Relative re-times markers from the first marker, dropping it. Timestamps
// keep the width of the original last marker.
func Relative(markers *timeline.Map) []string {
	last, ok := markers.Last()
	if !ok {
		return nil
	}
	places := timecode.Places(last.At)
	rebased := timeline.Rebase(markers)
	out := make([]string, 0, rebased.Len())
	for at, label := range rebased.All() {
		out = append(out, timecode.Display(at, places)+"\t"+label)
	}
	return out
}
