package extract

import (
	"regexp"

	"github.com/bastiangx/symserve/pkg/symbol"
)

// rule is a single declaration pattern. With keywords set, group 1 is the
// declaring keyword selecting the kind and group 2 the name; otherwise the
// name is the first non-empty group.
type rule struct {
	re       *regexp.Regexp
	kind     symbol.Kind
	keywords map[string]symbol.Kind
}

// ruleSet backs the single-pass families: every rule is tried on each line.
type ruleSet []rule

func (rs ruleSet) extract(line string, emit Emit) {
	for _, r := range rs {
		m := r.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if r.keywords != nil {
			if kind, ok := r.keywords[m[1]]; ok {
				emit(m[2], kind, line)
			}
			continue
		}
		for _, g := range m[1:] {
			if g != "" {
				emit(g, r.kind, line)
				break
			}
		}
	}
}

var kotlinRules = ruleSet{
	{
		re: regexp.MustCompile(`\b(fun|class|interface|object|val|var)\s+(?:<[^>]*>\s*)?(?:\w+\.)?(\w+)`),
		keywords: map[string]symbol.Kind{
			"fun":       symbol.KotlinFunction,
			"class":     symbol.KotlinClass,
			"interface": symbol.KotlinInterface,
			"object":    symbol.KotlinObject,
			"val":       symbol.KotlinProperty,
			"var":       symbol.KotlinProperty,
		},
	},
}

var javaRules = ruleSet{
	{
		re: regexp.MustCompile(`\b(class|interface|enum|record)\s+(\w+)`),
		keywords: map[string]symbol.Kind{
			"class":     symbol.JavaClass,
			"record":    symbol.JavaClass,
			"interface": symbol.JavaInterface,
			"enum":      symbol.JavaEnum,
		},
	},
	{
		re:   regexp.MustCompile(`^(?:(?:public|private|protected|static|final|abstract|synchronized|native|default)\s+)+(?:<[^>]*>\s*)?[\w<>\[\],.?]+\s+(\w+)\s*\(`),
		kind: symbol.JavaMethod,
	},
}

var phpRules = ruleSet{
	{
		re: regexp.MustCompile(`\b(function|class|interface|trait)\s+&?(\w+)`),
		keywords: map[string]symbol.Kind{
			"function":  symbol.PHPFunction,
			"class":     symbol.PHPClass,
			"interface": symbol.PHPInterface,
			"trait":     symbol.PHPTrait,
		},
	},
}

var shellRules = ruleSet{
	{
		re:   regexp.MustCompile(`^(?:function\s+([\w:-]+)|([\w:-]+)\s*\(\s*\))`),
		kind: symbol.ShellFunction,
	},
}

var rubyRules = ruleSet{
	{
		re: regexp.MustCompile(`^(def|class|module)\s+(?:self\.)?([\w?!=]+)`),
		keywords: map[string]symbol.Kind{
			"def":    symbol.RubyMethod,
			"class":  symbol.RubyClass,
			"module": symbol.RubyModule,
		},
	},
}

var rustRules = ruleSet{
	{
		re: regexp.MustCompile(`\b(fn|struct|enum|trait|impl|mod)\s+(\w+)`),
		keywords: map[string]symbol.Kind{
			"fn":     symbol.RustFunction,
			"struct": symbol.RustStruct,
			"enum":   symbol.RustEnum,
			"trait":  symbol.RustTrait,
			"impl":   symbol.RustImpl,
			"mod":    symbol.RustModule,
		},
	},
}
