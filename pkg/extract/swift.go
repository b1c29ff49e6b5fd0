package extract

import (
	"regexp"

	"github.com/bastiangx/symserve/pkg/symbol"
)

var (
	swiftImportRe    = regexp.MustCompile(`^import\s+(?:(?:class|struct|enum|protocol|func|typealias)\s+)?([\w.]+)`)
	swiftFuncRe      = regexp.MustCompile(`\bfunc\s+(\w+)`)
	swiftMethodModRe = regexp.MustCompile(`\b(?:static|class|override|mutating)\s+(?:\w+\s+)*func\b`)
	swiftTypeRe      = regexp.MustCompile(`\b(class|struct|protocol|enum|extension)\s+(\w+)`)
	swiftComputedRe  = regexp.MustCompile(`\bvar\s+(\w+)\s*:\s*[^={]+\{\s*(?:get\b.*)?$`)
	swiftVarRe       = regexp.MustCompile(`\bvar\s+(\w+)`)
	swiftLetRe       = regexp.MustCompile(`\blet\s+(\w+)`)
	swiftInitRe      = regexp.MustCompile(`\binit\s*[?!]?\s*[(<]`)
	swiftSubscriptRe = regexp.MustCompile(`\bsubscript\s*[(<]`)
)

var swiftTypeKinds = map[string]symbol.Kind{
	"class":     symbol.SwiftClass,
	"struct":    symbol.SwiftStruct,
	"protocol":  symbol.SwiftProtocol,
	"enum":      symbol.SwiftEnum,
	"extension": symbol.SwiftExtension,
}

// words that can follow "class" as a modifier rather than a type name
var swiftNotTypeNames = map[string]bool{
	"func": true, "var": true, "let": true, "subscript": true, "init": true,
}

func extractSwift(line string, emit Emit) {
	if m := swiftImportRe.FindStringSubmatch(line); m != nil {
		emit(m[1], symbol.SwiftImport, line)
	}
	if m := swiftFuncRe.FindStringSubmatch(line); m != nil {
		kind := symbol.SwiftFunction
		if swiftMethodModRe.MatchString(line) {
			kind = symbol.SwiftMethod
		}
		emit(m[1], kind, line)
	}
	if m := swiftTypeRe.FindStringSubmatch(line); m != nil && !swiftNotTypeNames[m[2]] {
		emit(m[2], swiftTypeKinds[m[1]], line)
	}
	if m := swiftComputedRe.FindStringSubmatch(line); m != nil {
		emit(m[1], symbol.SwiftProperty, line)
	} else if m := swiftVarRe.FindStringSubmatch(line); m != nil {
		emit(m[1], symbol.SwiftVariable, line)
	}
	if m := swiftLetRe.FindStringSubmatch(line); m != nil {
		emit(m[1], symbol.SwiftConstant, line)
	}
	if swiftInitRe.MatchString(line) {
		emit("init", symbol.SwiftInitializer, line)
	}
	if swiftSubscriptRe.MatchString(line) {
		emit("subscript", symbol.SwiftSubscript, line)
	}
}
