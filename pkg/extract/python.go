package extract

import (
	"regexp"

	"github.com/bastiangx/symserve/pkg/symbol"
)

var (
	pyDefRe        = regexp.MustCompile(`\bdef\s+(\w+)\s*\(`)
	pyClassRe      = regexp.MustCompile(`\bclass\s+(\w+)`)
	pyAssignRe     = regexp.MustCompile(`^(\w+)\s*=\s*`)
	pyImportRe     = regexp.MustCompile(`\bimport\s+(\w+)`)
	pyFromImportRe = regexp.MustCompile(`\bfrom\s+\w+\s+import\s+(\w+)`)
	pyDecoratorRe  = regexp.MustCompile(`@(\w+)`)
	pyLambdaRe     = regexp.MustCompile(`(\w+)\s*=\s*lambda`)
)

var pyNotVariables = map[string]bool{
	"import": true, "from": true, "if": true, "for": true,
	"while": true, "try": true, "except": true, "with": true,
}

func extractPython(line string, emit Emit) {
	if m := pyDefRe.FindStringSubmatch(line); m != nil {
		emit(m[1], symbol.PyFunction, line)
	}
	if m := pyClassRe.FindStringSubmatch(line); m != nil {
		emit(m[1], symbol.PyClass, line)
	}
	if m := pyAssignRe.FindStringSubmatch(line); m != nil && !pyNotVariables[m[1]] {
		emit(m[1], symbol.PyVariable, line)
	}
	if m := pyImportRe.FindStringSubmatch(line); m != nil {
		emit(m[1], symbol.PyImport, line)
	}
	if m := pyFromImportRe.FindStringSubmatch(line); m != nil {
		emit(m[1], symbol.PyFromImport, line)
	}
	if m := pyDecoratorRe.FindStringSubmatch(line); m != nil {
		emit(m[1], symbol.PyDecorator, line)
	}
	if m := pyLambdaRe.FindStringSubmatch(line); m != nil {
		emit(m[1], symbol.PyLambda, line)
	}
}
