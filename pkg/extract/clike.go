package extract

import (
	"regexp"

	"github.com/bastiangx/symserve/pkg/symbol"
)

var (
	cFunctionRe  = regexp.MustCompile(`\b(\w+)\s*\([^)]*\)\s*[{;]`)
	cClassRe     = regexp.MustCompile(`\b(class|struct)\s+(\w+)`)
	cEnumRe      = regexp.MustCompile(`\benum\s+(?:class\s+)?(\w+)`)
	cNamespaceRe = regexp.MustCompile(`\bnamespace\s+(\w+)`)
	cVariableRe  = regexp.MustCompile(`\b(?:int|float|double|char|bool|string|auto)\s+(\w+)\s*[=;]`)
	cTypedefRe   = regexp.MustCompile(`\btypedef\s+.+\s+(\w+)\s*;`)
	cMacroRe     = regexp.MustCompile(`#define\s+(\w+)`)
)

// call-like keywords that the function pattern would otherwise pick up
var cNotFunctions = map[string]bool{
	"if": true, "while": true, "for": true, "switch": true,
	"return": true, "include": true, "define": true,
}

// extractCLike is the generic brace/semicolon heuristic, also used for
// unclassified files.
func extractCLike(line string, emit Emit) {
	if m := cFunctionRe.FindStringSubmatch(line); m != nil && !cNotFunctions[m[1]] {
		emit(m[1], symbol.Function, line)
	}
	if m := cClassRe.FindStringSubmatch(line); m != nil {
		kind := symbol.Class
		if m[1] == "struct" {
			kind = symbol.Struct
		}
		emit(m[2], kind, line)
	}
	if m := cEnumRe.FindStringSubmatch(line); m != nil {
		emit(m[1], symbol.Enum, line)
	}
	if m := cNamespaceRe.FindStringSubmatch(line); m != nil {
		emit(m[1], symbol.Namespace, line)
	}
	if m := cVariableRe.FindStringSubmatch(line); m != nil {
		emit(m[1], symbol.Variable, line)
	}
	if m := cTypedefRe.FindStringSubmatch(line); m != nil {
		emit(m[1], symbol.Typedef, line)
	}
	if m := cMacroRe.FindStringSubmatch(line); m != nil {
		emit(m[1], symbol.Macro, line)
	}
}
