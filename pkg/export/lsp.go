package export

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bastiangx/symserve/pkg/symbol"
)

// Position is a zero-based LSP position.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is an LSP range.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Location is an LSP location.
type Location struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
}

// SymbolInformation is the LSP workspace/symbol result item.
type SymbolInformation struct {
	Name     string   `json:"name"`
	Kind     int      `json:"kind"`
	Location Location `json:"location"`
}

// FileURI turns a path into a file:// URI.
func FileURI(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return "file://" + p
}

// ToSymbolInformation converts one symbol. Lines become zero-based and the
// range spans the name.
func ToSymbolInformation(s symbol.Symbol) SymbolInformation {
	line := max(s.Line-1, 0)
	return SymbolInformation{
		Name: s.Name,
		Kind: s.Kind.LSPKind(),
		Location: Location{
			URI: FileURI(s.File),
			Range: Range{
				Start: Position{Line: line},
				End:   Position{Line: line, Character: len(s.Name)},
			},
		},
	}
}

func writeSymbolInformation(w io.Writer, symbols []symbol.Symbol, keep func(symbol.Symbol) bool) error {
	out := make([]SymbolInformation, 0, len(symbols))
	for _, s := range symbols {
		if keep(s) {
			out = append(out, ToSymbolInformation(s))
		}
	}
	if err := encode(w, out); err != nil {
		return fmt.Errorf("writing lsp symbols: %w", err)
	}
	return nil
}

// WorkspaceSymbols writes symbols whose name contains query, ignoring case.
// An empty query keeps everything.
func WorkspaceSymbols(w io.Writer, symbols []symbol.Symbol, query string) error {
	q := strings.ToLower(query)
	return writeSymbolInformation(w, symbols, func(s symbol.Symbol) bool {
		return q == "" || strings.Contains(strings.ToLower(s.Name), q)
	})
}

// DocumentSymbols writes the symbols declared in file.
func DocumentSymbols(w io.Writer, symbols []symbol.Symbol, file string) error {
	return writeSymbolInformation(w, symbols, func(s symbol.Symbol) bool {
		return s.File == file
	})
}

// ReadSymbolInformation decodes a WorkspaceSymbols document.
func ReadSymbolInformation(r io.Reader) ([]SymbolInformation, error) {
	var out []SymbolInformation
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding lsp symbols: %w", err)
	}
	return out, nil
}
