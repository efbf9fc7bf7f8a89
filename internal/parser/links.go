package parser

import (
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Known link keys.
const (
	Twitch         = "Twitch"
	YouTube        = "YouTube"
	YouTubeComment = "YouTube Comment"
	Slides         = "Slides"
	Tweet          = "Tweet"
	Discord        = "Discord"
)

// Platforms lists the link keys every session carries, in file order.
var Platforms = []string{Twitch, YouTube, YouTubeComment, Slides, Tweet, Discord}

// Links maps a platform name to its URL. Every key of Platforms is present;
// missing platforms map to "".
type Links map[string]string

// EmptyLinks returns a link set with every known key blank.
func EmptyLinks() Links {
	l := make(Links, len(Platforms))
	for _, p := range Platforms {
		l[p] = ""
	}
	return l
}

// ParseLinks reads "Key: value" lines. Only the first colon separates the
// key, so URLs survive intact. Unknown keys are kept.
func ParseLinks(data []byte) (Links, error) {
	l := EmptyLinks()
	for i, line := range lines(data) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, malformed(i+1, line, "missing ':' separator")
		}
		l[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return l, nil
}

// Primary is the URL timestamps link to: Twitch when set, else YouTube.
func (l Links) Primary() string {
	if l[Twitch] != "" {
		return l[Twitch]
	}
	return l[YouTube]
}

// YouTubeStart returns the t= offset of the YouTube link, which marks where
// the upload begins relative to the stream.
func (l Links) YouTubeStart() time.Duration {
	u, err := url.Parse(l[YouTube])
	if err != nil {
		return 0
	}
	t := strings.TrimSuffix(u.Query().Get("t"), "s")
	n, err := strconv.Atoi(t)
	if err != nil {
		return 0
	}
	return time.Duration(n) * time.Second
}

// Entries returns name/value pairs, known platforms first then any extra
// keys sorted by name.
func (l Links) Entries() [][2]string {
	out := make([][2]string, 0, len(l))
	for _, p := range Platforms {
		out = append(out, [2]string{p, l[p]})
	}
	var extra []string
	for k := range l {
		if !slices.Contains(Platforms, k) {
			extra = append(extra, k)
		}
	}
	slices.Sort(extra)
	for _, k := range extra {
		out = append(out, [2]string{k, l[k]})
	}
	return out
}

var slideRefRe = regexp.MustCompile(`^#(\d+)\s+(.*)$`)

// SlideRef is a "#<n> <title>" marker pointing at a slide.
type SlideRef struct {
	Number int
	Title  string
}

// ParseSlideRef extracts the slide reference from a marker label.
func ParseSlideRef(label string) (SlideRef, bool) {
	if i := strings.Index(label, "|"); i >= 0 {
		label = strings.TrimSpace(label[:i])
	}
	g := slideRefRe.FindStringSubmatch(label)
	if g == nil {
		return SlideRef{}, false
	}
	n, err := strconv.Atoi(g[1])
	if err != nil {
		return SlideRef{}, false
	}
	return SlideRef{Number: n, Title: g[2]}, true
}
