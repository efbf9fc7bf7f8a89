// Package session discovers class session directories and lazily loads
// their timelines.
package session

import (
	"fmt"
	"path"
	"regexp"
	"slices"
	"time"

	"github.com/starford/classlog/internal/parser"
)

// Artifact names inside a session directory.
const (
	LinksFile       = "links"
	MarkersFile     = "markers"
	CaptionsDir     = "captions"
	ChatFile        = "chat.json"
	OfficeHoursFile = "is-office-hours"

	DefaultSlidesPage = "slides.html"
)

// DateLayout is the layout of a session identifier.
const DateLayout = "2006-01-02"

var idRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidID reports whether name looks like a session directory.
func ValidID(name string) bool {
	return idRe.MatchString(name)
}

// Files records which artifacts were present at discovery time.
type Files struct {
	Links       bool   `json:"links"`
	Markers     bool   `json:"markers"`
	Captions    bool   `json:"captions"`
	Chat        bool   `json:"chat"`
	Video       string `json:"video,omitempty"`
	SlidesPage  bool   `json:"slides_page"`
	OfficeHours bool   `json:"office_hours_override"`
}

// Session is one recorded class or office-hours stream.
type Session struct {
	ID          string       `json:"id"`
	Date        time.Time    `json:"date"`
	Path        string       `json:"path"`
	Files       Files        `json:"files"`
	Links       parser.Links `json:"links"`
	OfficeHours bool         `json:"office_hours"`
	Number      int          `json:"number"`
}

// Kind returns "OH" for office hours and "CL" for classes.
func (s Session) Kind() string {
	if s.OfficeHours {
		return "OH"
	}
	return "CL"
}

// Slug is the short display name, e.g. "CL #07 2024-01-09".
func (s Session) Slug() string {
	return fmt.Sprintf("%s #%02d %s", s.Kind(), s.Number, s.ID)
}

// File returns the provider-relative path of an artifact.
func (s Session) File(name string) string {
	return path.Join(s.ID, name)
}

// Number assigns ordinals in order, counting classes and office hours
// separately. The input is not modified.
func Number(sessions []Session) []Session {
	out := slices.Clone(sessions)
	var classes, officeHours int
	for i := range out {
		if out[i].OfficeHours {
			officeHours++
			out[i].Number = officeHours
		} else {
			classes++
			out[i].Number = classes
		}
	}
	return out
}
