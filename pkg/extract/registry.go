/*
Package extract turns source files into symbol.Symbol records with
per-language, line-oriented heuristics. No parser or AST is involved: each
retained line is tested against every pattern of its language family and may
yield several symbols.

Files are routed to a Family by extension through a Registry. Extensions that
no family claims fall back to the generic brace/semicolon extractor.
*/
package extract

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/bastiangx/symserve/pkg/symbol"
)

// Emit records one symbol found on the current line.
type Emit func(name string, kind symbol.Kind, context string)

// LineFunc extracts symbols from a single line.
type LineFunc func(line string, emit Emit)

// Family describes one language family.
type Family struct {
	// Language is the tag reported for files of this family.
	Language   string
	Extensions []string
	// CommentPrefixes are skipped once leading whitespace is removed.
	CommentPrefixes []string
	// Raw families receive every line untouched, blank and comment lines included.
	Raw     bool
	Extract LineFunc
}

func (f *Family) isComment(line string) bool {
	for _, p := range f.CommentPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// Registry maps file extensions to families.
type Registry struct {
	families []*Family
	byExt    map[string]*Family
	fallback *Family
}

// NewRegistry creates an empty registry that routes unknown extensions to
// fallback.
func NewRegistry(fallback *Family) *Registry {
	return &Registry{
		byExt:    make(map[string]*Family),
		fallback: fallback,
	}
}

// Register adds f. An extension already claimed by another family is
// reassigned to f.
func (r *Registry) Register(f *Family) {
	r.families = append(r.families, f)
	for _, ext := range f.Extensions {
		r.byExt[strings.ToLower(ext)] = f
	}
}

// Lookup returns the family responsible for path.
func (r *Registry) Lookup(path string) *Family {
	if f, ok := r.byExt[strings.ToLower(filepath.Ext(path))]; ok {
		return f
	}
	return r.fallback
}

// Language returns the language tag for path.
func (r *Registry) Language(path string) string {
	if f := r.Lookup(path); f != nil {
		return f.Language
	}
	return LangUnknown
}

// Supports reports whether some registered family claims path's extension.
func (r *Registry) Supports(path string) bool {
	_, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Extensions lists every registered extension, sorted.
func (r *Registry) Extensions() []string {
	out := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		out = append(out, ext)
	}
	slices.Sort(out)
	return out
}

// Families returns the registered families in registration order.
func (r *Registry) Families() []*Family {
	return slices.Clone(r.families)
}

// Language tags.
const (
	LangC          = "C/C++"
	LangGo         = "Go"
	LangPython     = "Python"
	LangTypeScript = "TypeScript"
	LangJavaScript = "JavaScript"
	LangSwift      = "Swift"
	LangKotlin     = "Kotlin"
	LangJava       = "Java"
	LangPHP        = "PHP"
	LangShell      = "Shell"
	LangRuby       = "Ruby"
	LangRust       = "Rust"
	LangText       = "Text"
	LangUnknown    = "Unknown"
)

var (
	slashComment = []string{"//"}
	hashComment  = []string{"//", "#"}
)

// DefaultRegistry returns a registry with every built-in family.
func DefaultRegistry() *Registry {
	r := NewRegistry(&Family{
		Language:        LangUnknown,
		CommentPrefixes: slashComment,
		Extract:         extractCLike,
	})
	r.Register(&Family{
		Language:        LangC,
		Extensions:      []string{".c", ".h", ".cpp", ".hpp", ".cc", ".cxx", ".hh", ".hxx"},
		CommentPrefixes: slashComment,
		Extract:         extractCLike,
	})
	r.Register(&Family{
		Language:        LangGo,
		Extensions:      []string{".go"},
		CommentPrefixes: slashComment,
		Extract:         extractGo,
	})
	r.Register(&Family{
		Language:        LangPython,
		Extensions:      []string{".py", ".pyw", ".pyi"},
		CommentPrefixes: hashComment,
		Extract:         extractPython,
	})
	r.Register(&Family{
		Language:        LangTypeScript,
		Extensions:      []string{".ts", ".tsx", ".mts", ".cts"},
		CommentPrefixes: slashComment,
		Extract:         extractJS,
	})
	r.Register(&Family{
		Language:        LangJavaScript,
		Extensions:      []string{".js", ".jsx", ".mjs", ".cjs"},
		CommentPrefixes: slashComment,
		Extract:         extractJS,
	})
	r.Register(&Family{
		Language:        LangSwift,
		Extensions:      []string{".swift"},
		CommentPrefixes: slashComment,
		Extract:         extractSwift,
	})
	r.Register(&Family{
		Language:        LangKotlin,
		Extensions:      []string{".kt", ".kts"},
		CommentPrefixes: slashComment,
		Extract:         kotlinRules.extract,
	})
	r.Register(&Family{
		Language:        LangJava,
		Extensions:      []string{".java"},
		CommentPrefixes: slashComment,
		Extract:         javaRules.extract,
	})
	r.Register(&Family{
		Language:        LangPHP,
		Extensions:      []string{".php"},
		CommentPrefixes: slashComment,
		Extract:         phpRules.extract,
	})
	r.Register(&Family{
		Language:        LangShell,
		Extensions:      []string{".sh", ".bash", ".zsh"},
		CommentPrefixes: hashComment,
		Extract:         shellRules.extract,
	})
	r.Register(&Family{
		Language:        LangRuby,
		Extensions:      []string{".rb", ".rake"},
		CommentPrefixes: hashComment,
		Extract:         rubyRules.extract,
	})
	r.Register(&Family{
		Language:        LangRust,
		Extensions:      []string{".rs"},
		CommentPrefixes: slashComment,
		Extract:         rustRules.extract,
	})
	r.Register(&Family{
		Language:   LangText,
		Extensions: []string{".txt", ".text", ".md", ".rst", ".log", ".readme", ".doc"},
		Raw:        true,
		Extract:    extractText,
	})
	return r
}
