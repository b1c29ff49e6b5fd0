package symbol

import "fmt"

// Kind tags a Symbol with its language family and declaration category.
type Kind uint8

const (
	Unknown Kind = iota

	// generic brace/semicolon family
	Function
	Class
	Struct
	Variable
	Enum
	Typedef
	Macro
	Namespace

	JSFunction
	JSArrowFunction
	JSClass
	JSInterface
	JSType
	JSConst
	JSLet
	JSVar
	JSImport
	JSExport
	JSModule

	PyFunction
	PyClass
	PyMethod
	PyVariable
	PyImport
	PyFromImport
	PyDecorator
	PyLambda

	GoFunction
	GoMethod
	GoStruct
	GoInterface
	GoType
	GoVariable
	GoConstant
	GoPackage
	GoImport

	SwiftFunction
	SwiftMethod
	SwiftClass
	SwiftStruct
	SwiftProtocol
	SwiftEnum
	SwiftExtension
	SwiftVariable
	SwiftConstant
	SwiftProperty
	SwiftInitializer
	SwiftSubscript
	SwiftImport

	KotlinFunction
	KotlinClass
	KotlinObject
	KotlinInterface
	KotlinProperty

	JavaClass
	JavaInterface
	JavaEnum
	JavaMethod

	PHPFunction
	PHPClass
	PHPInterface
	PHPTrait

	ShellFunction

	RubyMethod
	RubyClass
	RubyModule

	RustFunction
	RustStruct
	RustEnum
	RustTrait
	RustImpl
	RustModule

	TextHeader
	TextSubheader
	TextURL
	TextEmail
	TextTodo
	TextNote
	TextFixme
	TextLine
	TextWord

	numKinds
)

// LSP SymbolKind values.
const (
	LSPFile          = 1
	LSPModule        = 2
	LSPNamespace     = 3
	LSPPackage       = 4
	LSPClass         = 5
	LSPMethod        = 6
	LSPProperty      = 7
	LSPField         = 8
	LSPConstructor   = 9
	LSPEnum          = 10
	LSPInterface     = 11
	LSPFunction      = 12
	LSPVariable      = 13
	LSPConstant      = 14
	LSPString        = 15
	LSPObject        = 19
	LSPStruct        = 23
	LSPTypeParameter = 26
)

type kindInfo struct {
	name string
	lsp  int
}

// kinds is the only place a Kind is mapped to its display name and LSP kind.
var kinds = [numKinds]kindInfo{
	Unknown: {"unknown", LSPFile},

	Function:  {"function", LSPFunction},
	Class:     {"class", LSPClass},
	Struct:    {"struct", LSPStruct},
	Variable:  {"variable", LSPVariable},
	Enum:      {"enum", LSPEnum},
	Typedef:   {"typedef", LSPTypeParameter},
	Macro:     {"macro", LSPConstant},
	Namespace: {"namespace", LSPNamespace},

	JSFunction:      {"js-function", LSPFunction},
	JSArrowFunction: {"arrow-func", LSPFunction},
	JSClass:         {"js-class", LSPClass},
	JSInterface:     {"interface", LSPInterface},
	JSType:          {"type", LSPTypeParameter},
	JSConst:         {"const", LSPConstant},
	JSLet:           {"let", LSPVariable},
	JSVar:           {"var", LSPVariable},
	JSImport:        {"import", LSPModule},
	JSExport:        {"export", LSPVariable},
	JSModule:        {"module", LSPModule},

	PyFunction:   {"py-function", LSPFunction},
	PyClass:      {"py-class", LSPClass},
	PyMethod:     {"py-method", LSPMethod},
	PyVariable:   {"py-variable", LSPVariable},
	PyImport:     {"py-import", LSPModule},
	PyFromImport: {"py-from-import", LSPModule},
	PyDecorator:  {"py-decorator", LSPFunction},
	PyLambda:     {"py-lambda", LSPFunction},

	GoFunction:  {"go-function", LSPFunction},
	GoMethod:    {"go-method", LSPMethod},
	GoStruct:    {"go-struct", LSPStruct},
	GoInterface: {"go-interface", LSPInterface},
	GoType:      {"go-type", LSPTypeParameter},
	GoVariable:  {"go-variable", LSPVariable},
	GoConstant:  {"go-constant", LSPConstant},
	GoPackage:   {"go-package", LSPPackage},
	GoImport:    {"go-import", LSPModule},

	SwiftFunction:    {"swift-function", LSPFunction},
	SwiftMethod:      {"swift-method", LSPMethod},
	SwiftClass:       {"swift-class", LSPClass},
	SwiftStruct:      {"swift-struct", LSPStruct},
	SwiftProtocol:    {"swift-protocol", LSPInterface},
	SwiftEnum:        {"swift-enum", LSPEnum},
	SwiftExtension:   {"swift-extension", LSPClass},
	SwiftVariable:    {"swift-variable", LSPVariable},
	SwiftConstant:    {"swift-constant", LSPConstant},
	SwiftProperty:    {"swift-property", LSPProperty},
	SwiftInitializer: {"swift-init", LSPConstructor},
	SwiftSubscript:   {"swift-subscript", LSPMethod},
	SwiftImport:      {"swift-import", LSPModule},

	KotlinFunction:  {"kt-function", LSPFunction},
	KotlinClass:     {"kt-class", LSPClass},
	KotlinObject:    {"kt-object", LSPObject},
	KotlinInterface: {"kt-interface", LSPInterface},
	KotlinProperty:  {"kt-property", LSPProperty},

	JavaClass:     {"java-class", LSPClass},
	JavaInterface: {"java-interface", LSPInterface},
	JavaEnum:      {"java-enum", LSPEnum},
	JavaMethod:    {"java-method", LSPMethod},

	PHPFunction:  {"php-function", LSPFunction},
	PHPClass:     {"php-class", LSPClass},
	PHPInterface: {"php-interface", LSPInterface},
	PHPTrait:     {"php-trait", LSPInterface},

	ShellFunction: {"sh-function", LSPFunction},

	RubyMethod: {"rb-method", LSPMethod},
	RubyClass:  {"rb-class", LSPClass},
	RubyModule: {"rb-module", LSPModule},

	RustFunction: {"rs-function", LSPFunction},
	RustStruct:   {"rs-struct", LSPStruct},
	RustEnum:     {"rs-enum", LSPEnum},
	RustTrait:    {"rs-trait", LSPInterface},
	RustImpl:     {"rs-impl", LSPClass},
	RustModule:   {"rs-module", LSPModule},

	TextHeader:    {"header", LSPFile},
	TextSubheader: {"subheader", LSPFile},
	TextURL:       {"url", LSPString},
	TextEmail:     {"email", LSPString},
	TextTodo:      {"todo", LSPString},
	TextNote:      {"note", LSPString},
	TextFixme:     {"fixme", LSPString},
	TextLine:      {"line", LSPFile},
	TextWord:      {"word", LSPFile},
}

var byName = func() map[string]Kind {
	m := make(map[string]Kind, numKinds)
	for k := Unknown; k < numKinds; k++ {
		m[kinds[k].name] = k
	}
	return m
}()

// String returns the display name used by exporters and the wire protocol.
func (k Kind) String() string {
	if k >= numKinds {
		return kinds[Unknown].name
	}
	return kinds[k].name
}

// LSPKind returns the Language Server Protocol SymbolKind number.
func (k Kind) LSPKind() int {
	if k >= numKinds {
		return LSPFile
	}
	return kinds[k].lsp
}

// ParseKind resolves a display name back to its Kind.
func ParseKind(name string) (Kind, bool) {
	k, ok := byName[name]
	return k, ok
}

// Kinds returns every defined kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, numKinds)
	for k := Unknown; k < numKinds; k++ {
		out = append(out, k)
	}
	return out
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, ok := ParseKind(string(text))
	if !ok {
		return fmt.Errorf("unknown symbol kind %q", text)
	}
	*k = parsed
	return nil
}

// IsText reports whether k belongs to the plain-text family.
func (k Kind) IsText() bool {
	return k >= TextHeader && k <= TextWord
}
