// Package display prints CLI results, styled with lipgloss when stdout is
// a terminal.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/starford/classlog/internal/search"
	"github.com/starford/classlog/internal/validate"
)

var (
	colorHeading = lipgloss.Color("12")  // bright blue
	colorHit     = lipgloss.Color("11")  // bright yellow
	colorDim     = lipgloss.Color("240") // gray
	colorError   = lipgloss.Color("9")   // bright red
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Printer writes results to w.
type Printer struct {
	w     io.Writer
	color bool

	heading lipgloss.Style
	hit     lipgloss.Style
	dim     lipgloss.Style
	err     lipgloss.Style
}

// New returns a printer; styling is applied only when color is set.
func New(w io.Writer, color bool) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:       w,
		color:   color,
		heading: r.NewStyle().Bold(true).Foreground(colorHeading),
		hit:     r.NewStyle().Bold(true).Foreground(colorHit),
		dim:     r.NewStyle().Foreground(colorDim),
		err:     r.NewStyle().Foreground(colorError),
	}
}

// Stdout returns a printer on os.Stdout, colored when it is a terminal.
func Stdout() *Printer {
	return New(os.Stdout, IsTerminal(os.Stdout))
}

func (p *Printer) style(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

// Line prints text followed by a newline.
func (p *Printer) Line(text string) {
	fmt.Fprintln(p.w, text)
}

// Lines prints each line.
func (p *Printer) Lines(lines []string) {
	for _, l := range lines {
		p.Line(l)
	}
}

// Heading prints a section title.
func (p *Printer) Heading(text string) {
	p.Line(p.style(p.heading, text))
}

// Error prints an error line.
func (p *Printer) Error(text string) {
	p.Line(p.style(p.err, text))
}

// Highlight marks every occurrence of query in text.
func (p *Printer) Highlight(text, query string, caseInsensitive bool) string {
	if !p.color || query == "" {
		return text
	}
	hay, needle := text, query
	if caseInsensitive {
		hay, needle = strings.ToLower(text), strings.ToLower(query)
		// Byte offsets only line up when folding keeps the length.
		if len(hay) != len(text) || len(needle) != len(query) {
			hay, needle = text, query
		}
	}

	var b strings.Builder
	i := 0
	for {
		idx := strings.Index(hay[i:], needle)
		if idx < 0 {
			break
		}
		pos := i + idx
		b.WriteString(text[i:pos])
		b.WriteString(p.hit.Render(text[pos : pos+len(needle)]))
		i = pos + len(needle)
	}
	b.WriteString(text[i:])
	return b.String()
}

// SearchResults prints each session's hits under its slug and hit summary.
func (p *Printer) SearchResults(results []search.Result, q search.Query) {
	for _, r := range results {
		p.Heading(r.Session.Slug() + " " + p.style(p.dim, r.Matches.Abbr()))
		if r.Err != nil {
			p.Error("  error: " + r.Err.Error())
		}
		for _, sec := range r.Matches.Sections() {
			p.Line("  " + p.style(p.dim, sec.Name))
			for _, l := range sec.Lines {
				p.Line("    " + p.Highlight(l, q.Text, q.CaseInsensitive))
			}
		}
	}
}

// Reports prints the validation reports that found something. It returns
// how many sessions were not clean.
func (p *Printer) Reports(reports []validate.Report) int {
	dirty := 0
	for _, r := range reports {
		if r.Clean() {
			continue
		}
		dirty++
		p.Heading(r.Session.Slug())
		for _, l := range r.Lines() {
			if strings.HasPrefix(l, "error: ") {
				p.Error("  " + l)
				continue
			}
			p.Line("  " + l)
		}
	}
	return dirty
}
