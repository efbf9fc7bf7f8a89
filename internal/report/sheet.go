package report

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/starford/classlog/internal/checksum"
	"github.com/starford/classlog/internal/parser"
	"github.com/starford/classlog/internal/session"
	"github.com/starford/classlog/internal/timecode"
	"github.com/starford/classlog/internal/timeline"
)

// Worksheet is the spreadsheet tab of one session: a header row, then one
// row per marker with Twitch and YouTube links.
type Worksheet struct {
	Title string     `json:"title"`
	Hash  string     `json:"hash"`
	Rows  [][]string `json:"rows"`
}

func hyperlink(url, text string) string {
	return fmt.Sprintf(`=HYPERLINK("%s", "%s")`, url, text)
}

func escapeFormula(s string) string {
	return strings.ReplaceAll(s, `"`, `""`)
}

// markerCell links raid targets to their channel and slide references to
// the slide.
func markerCell(s session.Session, marker string) string {
	if target, ok := strings.CutPrefix(marker, "Raiding "); ok {
		return hyperlink("https://twitch.tv/"+strings.TrimSpace(target), marker)
	}
	if deck := s.Links[parser.Slides]; deck != "" {
		if ref, ok := parser.ParseSlideRef(marker); ok {
			return hyperlink(deck+"#/"+strconv.Itoa(ref.Number), marker)
		}
	}
	return marker
}

// BuildWorksheet renders the worksheet for a session's markers.
func BuildWorksheet(s session.Session, markers *timeline.Map) Worksheet {
	twitch := s.Links[parser.Twitch]
	youtube := s.Links[parser.YouTube]

	header := []string{"Twitch", "YouTube", ""}
	if twitch != "" {
		header[0] = hyperlink(twitch, "Twitch")
	}
	if youtube != "" {
		header[1] = hyperlink(youtube, "YouTube")
	}
	rows := [][]string{header}

	places := 1
	if last, ok := markers.Last(); ok {
		places = timecode.Places(last.At)
	}
	offset := -s.Links.YouTubeStart()
	youtubeBase, _, _ := strings.Cut(youtube, "?t=")

	for at, marker := range markers.All() {
		display := timecode.Display(at, places)
		row := []string{display, "", markerCell(s, escapeFormula(marker))}
		if twitch != "" {
			row[0] = hyperlink(twitch+"?t="+timecode.Compact(at, places), display)
		}
		if shifted := at + offset; youtube != "" && shifted >= 0 {
			secs := strconv.FormatInt(int64(shifted.Seconds()), 10)
			row[1] = hyperlink(youtubeBase+"?t="+secs, timecode.Display(shifted, places))
		}
		rows = append(rows, row)
	}

	data, _ := json.Marshal(rows)
	return Worksheet{Title: s.Slug(), Hash: checksum.Sum(data), Rows: rows}
}

// ChangedWorksheets returns the worksheets whose hash differs from the one
// recorded remotely, or all of them when force is set.
func ChangedWorksheets(sheets []Worksheet, remote map[string]string, force bool) []Worksheet {
	if force {
		return sheets
	}
	var out []Worksheet
	for _, w := range sheets {
		if remote[w.Title] != w.Hash {
			out = append(out, w)
		}
	}
	return out
}
