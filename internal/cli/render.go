package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/bastiangx/symserve/pkg/engine"
	"github.com/bastiangx/symserve/pkg/fuzzy"
	"github.com/bastiangx/symserve/pkg/suggest"
	"github.com/bastiangx/symserve/pkg/symbol"
	"github.com/charmbracelet/lipgloss"
)

// Renderer formats results for the terminal.
type Renderer struct {
	highlight bool
	title     lipgloss.Style
	match     lipgloss.Style
	name      lipgloss.Style
	kind      lipgloss.Style
	location  lipgloss.Style
	score     lipgloss.Style
}

// NewRenderer builds the styles. With highlight off every style is plain.
func NewRenderer(highlight bool) *Renderer {
	r := &Renderer{highlight: highlight}
	if !highlight {
		return r
	}
	r.title = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	r.match = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#d7827e", Dark: "#ebbcba"})
	r.name = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"})
	r.kind = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#907aa9", Dark: "#c4a7e7"})
	r.location = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#797593", Dark: "#908caa"})
	r.score = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#56949f", Dark: "#f6c177"})
	return r
}

// Title renders a heading.
func (r *Renderer) Title(s string) string {
	return r.title.Render(s)
}

// Highlight renders name with the runes matched by query emphasised.
// Names that do not contain the query as a subsequence render plainly.
func (r *Renderer) Highlight(query, name string) string {
	m, ok := fuzzy.MatchPositions(query, name)
	if !r.highlight || !ok {
		return r.name.Render(name)
	}
	var b strings.Builder
	next := 0
	for i, c := range []rune(name) {
		if next < len(m.MatchedIndexes) && m.MatchedIndexes[next] == i {
			b.WriteString(r.match.Render(string(c)))
			next++
			continue
		}
		b.WriteString(r.name.Render(string(c)))
	}
	return b.String()
}

// Completion renders one ranked completion line.
func (r *Renderer) Completion(n int, query string, res suggest.Result) string {
	return fmt.Sprintf("%2d. %s %s %s %s",
		n,
		r.Highlight(query, res.Suggestion),
		r.kind.Render("["+res.Kind.String()+"]"),
		r.location.Render(fmt.Sprintf("%s:%d", res.File, res.Line)),
		r.score.Render(fmt.Sprintf("%.3f %s", res.Score, res.MatchType)),
	)
}

// Symbol renders one search hit.
func (r *Renderer) Symbol(n int, query string, s symbol.Symbol) string {
	line := fmt.Sprintf("%2d. %s %s %s",
		n,
		r.Highlight(query, s.Name),
		r.kind.Render("["+s.Kind.String()+"]"),
		r.location.Render(fmt.Sprintf("%s:%d", s.File, s.Line)),
	)
	if s.Context != "" {
		line += "\n    " + r.location.Render(s.Context)
	}
	return line
}

// Stats renders index statistics, languages sorted by name.
func (r *Renderer) Stats(st engine.Stats) string {
	var b strings.Builder
	b.WriteString(r.title.Render("Index"))
	fmt.Fprintf(&b, "\n  symbols: %d (%d names)\n  files:   %d (%d failed)\n  build:   %v",
		st.Symbols, st.UniqueNames, st.Files, st.Failed, st.Duration)
	if st.FilesPerSecond > 0 {
		fmt.Fprintf(&b, "\n  rate:    %.1f files/s, %.1f symbols/s", st.FilesPerSecond, st.SymbolsPerSecond)
	}
	for _, lang := range slices.Sorted(maps.Keys(st.Languages)) {
		fmt.Fprintf(&b, "\n  %-12s %d", lang, st.Languages[lang])
	}
	if len(st.Slowest) > 0 {
		b.WriteString("\n" + r.title.Render("Slowest"))
		for _, ft := range st.Slowest {
			fmt.Fprintf(&b, "\n  %-10v %s (%d symbols)", ft.Elapsed.Round(time.Microsecond), r.location.Render(ft.Path), ft.Symbols)
		}
	}
	return b.String()
}
