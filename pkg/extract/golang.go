package extract

import (
	"regexp"
	"strings"

	"github.com/bastiangx/symserve/pkg/symbol"
)

var (
	goFuncRe      = regexp.MustCompile(`\bfunc\s+(?:\([^)]+\)\s+)?(\w+)\s*\(`)
	goStructRe    = regexp.MustCompile(`\btype\s+(\w+)\s+struct\b`)
	goInterfaceRe = regexp.MustCompile(`\btype\s+(\w+)\s+interface\b`)
	// the second group is checked against "interface" by hand; RE2 has no lookahead
	goTypeRe     = regexp.MustCompile(`\btype\s+(\w+)\s+(?:=\s*)?([\w\[*]+)`)
	goVarRe      = regexp.MustCompile(`\bvar\s+(\w+)\s+`)
	goConstRe    = regexp.MustCompile(`\bconst\s+(\w+)\s+`)
	goPackageRe  = regexp.MustCompile(`\bpackage\s+(\w+)`)
	goImportRe   = regexp.MustCompile(`\bimport\s+(?:(\w+)\s+)?"([^"]+)"`)
	goShortVarRe = regexp.MustCompile(`^\s*(\w+)\s*:=`)
)

var goNotShortVars = map[string]bool{
	"if": true, "for": true, "switch": true, "select": true,
	"range": true, "go": true, "defer": true,
}

func extractGo(line string, emit Emit) {
	if m := goFuncRe.FindStringSubmatch(line); m != nil {
		kind := symbol.GoFunction
		if strings.HasPrefix(line, "func (") {
			kind = symbol.GoMethod
		}
		emit(m[1], kind, line)
	}
	if m := goStructRe.FindStringSubmatch(line); m != nil {
		emit(m[1], symbol.GoStruct, line)
	}
	if m := goInterfaceRe.FindStringSubmatch(line); m != nil {
		emit(m[1], symbol.GoInterface, line)
	}
	if m := goTypeRe.FindStringSubmatch(line); m != nil && !strings.HasPrefix(m[2], "interface") {
		emit(m[1], symbol.GoType, line)
	}
	if m := goVarRe.FindStringSubmatch(line); m != nil {
		emit(m[1], symbol.GoVariable, line)
	}
	if m := goConstRe.FindStringSubmatch(line); m != nil {
		emit(m[1], symbol.GoConstant, line)
	}
	if m := goPackageRe.FindStringSubmatch(line); m != nil {
		emit(m[1], symbol.GoPackage, line)
	}
	if m := goImportRe.FindStringSubmatch(line); m != nil {
		name := m[1]
		if name == "" {
			name = m[2]
		}
		emit(name, symbol.GoImport, line)
	}
	if m := goShortVarRe.FindStringSubmatch(line); m != nil && !goNotShortVars[m[1]] {
		emit(m[1], symbol.GoVariable, line)
	}
}
