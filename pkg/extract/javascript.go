package extract

import (
	"regexp"

	"github.com/bastiangx/symserve/pkg/symbol"
)

var (
	jsFunctionRe  = regexp.MustCompile(`\b(?:async\s+)?function\s+(\w+)\s*\(`)
	jsArrowRe     = regexp.MustCompile(`\b(?:const|let|var)\s+(\w+)\s*=\s*(?:async\s+)?\([^)]*\)\s*=>`)
	jsClassRe     = regexp.MustCompile(`\bclass\s+(\w+)`)
	jsInterfaceRe = regexp.MustCompile(`\binterface\s+(\w+)`)
	jsTypeRe      = regexp.MustCompile(`\btype\s+(\w+)\s*=`)
	jsConstRe     = regexp.MustCompile(`\bconst\s+(\w+)\s*[=:]`)
	jsLetRe       = regexp.MustCompile(`\blet\s+(\w+)\s*[=:]`)
	jsVarRe       = regexp.MustCompile(`\bvar\s+(\w+)\s*[=:]`)
	// named imports yield the first binding inside the braces
	jsImportRe = regexp.MustCompile(`\bimport\s+(?:(?:type\s+)?\{\s*(\w+)[^}]*\}|(\w+))\s+from`)
	jsExportRe = regexp.MustCompile(`\bexport\s+(?:default\s+)?(?:const|let|var|function|class|interface|type)\s+(\w+)`)
)

// extractJS covers both TypeScript and JavaScript.
func extractJS(line string, emit Emit) {
	if m := jsFunctionRe.FindStringSubmatch(line); m != nil {
		emit(m[1], symbol.JSFunction, line)
	}
	if m := jsArrowRe.FindStringSubmatch(line); m != nil {
		emit(m[1], symbol.JSArrowFunction, line)
	}
	if m := jsClassRe.FindStringSubmatch(line); m != nil {
		emit(m[1], symbol.JSClass, line)
	}
	if m := jsInterfaceRe.FindStringSubmatch(line); m != nil {
		emit(m[1], symbol.JSInterface, line)
	}
	if m := jsTypeRe.FindStringSubmatch(line); m != nil {
		emit(m[1], symbol.JSType, line)
	}
	if m := jsConstRe.FindStringSubmatch(line); m != nil {
		emit(m[1], symbol.JSConst, line)
	}
	if m := jsLetRe.FindStringSubmatch(line); m != nil {
		emit(m[1], symbol.JSLet, line)
	}
	if m := jsVarRe.FindStringSubmatch(line); m != nil {
		emit(m[1], symbol.JSVar, line)
	}
	if m := jsImportRe.FindStringSubmatch(line); m != nil {
		name := m[1]
		if name == "" {
			name = m[2]
		}
		emit(name, symbol.JSImport, line)
	}
	if m := jsExportRe.FindStringSubmatch(line); m != nil {
		emit(m[1], symbol.JSExport, line)
	}
}
