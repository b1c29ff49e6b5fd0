package extract

import (
	"regexp"
	"strings"

	"github.com/bastiangx/symserve/pkg/symbol"
)

var (
	textTodoRe      = regexp.MustCompile(`(?:TODO|FIXME|NOTE|HACK|BUG|WARNING)[\s:]+(.+)`)
	textURLRe       = regexp.MustCompile(`https?://[^\s]+`)
	textEmailRe     = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	textHeaderRe    = regexp.MustCompile(`^(?:Chapter|Section|Part|Book)\s+\d+|^\d+\.\s+[A-Z]`)
	textSubheaderRe = regexp.MustCompile(`^\d+\.\d+\s+\w+|^[A-Z]\.\d+\s+\w+`)
	textSubwordsRe  = regexp.MustCompile(`^(?:Introduction|Overview|Summary|Conclusion|Background|Method|Results|Discussion|Abstract)`)
	textListRe      = regexp.MustCompile(`^\s*(?:\*|-|\+|\d+\.)\s+.+`)
	textKeywordRe   = regexp.MustCompile(`\b(?:important|note|warning|error|success|failure|critical|urgent|required|mandatory|optional)\b`)
	textWordRe      = regexp.MustCompile(`\b[A-Z][a-zA-Z]{3,}\b|\b[a-zA-Z]{6,}\b`)
)

const (
	significantMinLen = 10
	significantMaxLen = 200
	leadWords         = 5
)

// stopWords are matched case-sensitively, so a capitalised "This" is kept.
var stopWords = map[string]bool{
	"this": true, "that": true, "with": true, "from": true, "they": true,
	"have": true, "will": true, "been": true, "were": true, "said": true,
	"each": true, "which": true, "their": true, "time": true, "would": true,
	"there": true,
}

// extractText handles prose. Annotations, headers and subheaders end the
// line's extraction; URLs, emails, significant lines and salient words
// accumulate.
func extractText(line string, emit Emit) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return
	}

	if m := textTodoRe.FindStringSubmatch(trimmed); m != nil {
		kind := symbol.TextTodo
		switch {
		case strings.Contains(trimmed, "FIXME"):
			kind = symbol.TextFixme
		case strings.Contains(trimmed, "NOTE"):
			kind = symbol.TextNote
		}
		emit(m[1], kind, trimmed)
		return
	}

	if url := textURLRe.FindString(trimmed); url != "" {
		emit(url, symbol.TextURL, trimmed)
	}
	if email := textEmailRe.FindString(trimmed); email != "" {
		emit(email, symbol.TextEmail, trimmed)
	}

	if isHeader(trimmed) {
		emit(trimmed, symbol.TextHeader, line)
		return
	}
	if isSubheader(trimmed) {
		emit(trimmed, symbol.TextSubheader, line)
		return
	}

	if isSignificant(trimmed) {
		emit(leadingWords(trimmed), symbol.TextLine, trimmed)
	}

	for _, w := range textWordRe.FindAllString(trimmed, -1) {
		if !stopWords[w] {
			emit(w, symbol.TextWord, trimmed)
		}
	}
}

func isHeader(line string) bool {
	if len(line) < 3 {
		return false
	}
	if isShouted(line) {
		return true
	}
	if strings.Contains(line, "===") || strings.Contains(line, "---") {
		return true
	}
	if line[0] == '#' {
		return true
	}
	return textHeaderRe.MatchString(line)
}

// isShouted reports an all-caps line: only ASCII upper case, space and
// punctuation, with at least one letter.
func isShouted(line string) bool {
	letter := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c >= 'A' && c <= 'Z':
			letter = true
		case c == ' ' || (c >= '\t' && c <= '\r'):
		case isASCIIPunct(c):
		default:
			return false
		}
	}
	return letter
}

func isASCIIPunct(c byte) bool {
	return (c >= '!' && c <= '/') || (c >= ':' && c <= '@') || (c >= '[' && c <= '`') || (c >= '{' && c <= '~')
}

func isSubheader(line string) bool {
	if len(line) < 3 {
		return false
	}
	return textSubheaderRe.MatchString(line) || textSubwordsRe.MatchString(line)
}

func isSignificant(line string) bool {
	if len(line) < significantMinLen || len(line) > significantMaxLen {
		return false
	}
	switch line[len(line)-1] {
	case '.', '!', '?':
		return true
	}
	return textListRe.MatchString(line) || textKeywordRe.MatchString(line)
}

// leadingWords joins the first few whitespace-separated words, marking
// truncation with "...".
func leadingWords(line string) string {
	words := strings.Fields(line)
	if len(words) > leadWords {
		words = words[:leadWords]
	}
	head := strings.Join(words, " ")
	if len(line) > len(head) {
		head += "..."
	}
	return head
}
