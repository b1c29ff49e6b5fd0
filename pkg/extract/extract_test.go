package extract

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/bastiangx/symserve/pkg/report"
	"github.com/bastiangx/symserve/pkg/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type found struct {
	Name string
	Kind symbol.Kind
}

func extractString(t *testing.T, path, src string) []symbol.Symbol {
	t.Helper()
	return slices.Collect(New().Lines(path, strings.NewReader(src)))
}

func names(syms []symbol.Symbol) []found {
	out := make([]found, 0, len(syms))
	for _, s := range syms {
		out = append(out, found{s.Name, s.Kind})
	}
	return out
}

func TestExtractLines(t *testing.T) {
	tests := []struct {
		name string
		path string
		line string
		want []found
	}{
		// Go
		{"go method", "a.go", "func (r *T) Method(x int) error {", []found{{"Method", symbol.GoMethod}}},
		{"go function", "a.go", "func Parse(s string) error {", []found{{"Parse", symbol.GoFunction}}},
		{"go interface", "a.go", "type Reader interface {", []found{{"Reader", symbol.GoInterface}}},
		{"go struct also matches type", "a.go", "type Store struct {", []found{{"Store", symbol.GoStruct}, {"Store", symbol.GoType}}},
		{"go named type", "a.go", "type ID string", []found{{"ID", symbol.GoType}}},
		{"go alias", "a.go", "type Alias = Other", []found{{"Alias", symbol.GoType}}},
		{"go var", "a.go", "var ErrClosed = errors.New(\"closed\")", []found{{"ErrClosed", symbol.GoVariable}}},
		{"go const", "a.go", "const MaxDepth = 3", []found{{"MaxDepth", symbol.GoConstant}}},
		{"go package", "a.go", "package index", []found{{"index", symbol.GoPackage}}},
		{"go import", "a.go", `import "strings"`, []found{{"strings", symbol.GoImport}}},
		{"go aliased import", "a.go", `import str "strings"`, []found{{"str", symbol.GoImport}}},
		{"go short var", "a.go", "count := 0", []found{{"count", symbol.GoVariable}}},
		{"go keyword not var", "a.go", "go := 1", nil},

		// Python
		{"py def", "m.py", "def load(path):", []found{{"load", symbol.PyFunction}}},
		{"py class", "m.py", "class Loader(Base):", []found{{"Loader", symbol.PyClass}}},
		{"py assign", "m.py", "LIMIT = 10", []found{{"LIMIT", symbol.PyVariable}}},
		{"py import", "m.py", "import os", []found{{"os", symbol.PyImport}}},
		{"py from import", "m.py", "from os import path", []found{{"path", symbol.PyImport}, {"path", symbol.PyFromImport}}},
		{"py decorator", "m.py", "@staticmethod", []found{{"staticmethod", symbol.PyDecorator}}},
		{"py lambda", "m.py", "square = lambda x: x * x", []found{{"square", symbol.PyVariable}, {"square", symbol.PyLambda}}},
		{"py comment skipped", "m.py", "# class NotReal:", nil},

		// TypeScript / JavaScript
		{"js async function", "a.js", "async function fetchAll(urls) {", []found{{"fetchAll", symbol.JSFunction}}},
		{"ts arrow", "a.ts", "const handler = async (req) => {", []found{{"handler", symbol.JSArrowFunction}, {"handler", symbol.JSConst}}},
		{"ts export const", "a.ts", "export const LIMIT = 5;", []found{{"LIMIT", symbol.JSConst}, {"LIMIT", symbol.JSExport}}},
		{"ts interface", "a.ts", "export interface Props {", []found{{"Props", symbol.JSInterface}, {"Props", symbol.JSExport}}},
		{"ts type", "a.ts", "type Mode = 'a' | 'b';", []found{{"Mode", symbol.JSType}}},
		{"js named import", "a.jsx", "import { useState, useEffect } from 'react';", []found{{"useState", symbol.JSImport}}},
		{"js default import", "a.mjs", "import React from 'react';", []found{{"React", symbol.JSImport}}},
		{"js class", "a.js", "class Widget extends Base {", []found{{"Widget", symbol.JSClass}}},
		{"js let", "a.js", "let total: number = 0", []found{{"total", symbol.JSLet}}},

		// C-like
		{"c function", "a.c", "int main(int argc, char **argv) {", []found{{"main", symbol.Function}}},
		{"c keyword not function", "a.c", "if (x) {", nil},
		{"cpp class", "a.cpp", "class Parser {", []found{{"Parser", symbol.Class}}},
		{"cpp struct", "a.hpp", "struct Point {", []found{{"Point", symbol.Struct}}},
		{"cpp enum class", "a.cpp", "enum class Color {", []found{{"Color", symbol.Class}, {"Color", symbol.Enum}}},
		{"cpp namespace", "a.cc", "namespace util {", []found{{"util", symbol.Namespace}}},
		{"c variable", "a.c", "int counter = 0;", []found{{"counter", symbol.Variable}}},
		{"c typedef", "a.h", "typedef unsigned long size_type;", []found{{"size_type", symbol.Typedef}}},
		{"c macro", "a.h", "#define BUFFER_SIZE 1024", []found{{"BUFFER_SIZE", symbol.Macro}}},
		{"unknown ext uses generic", "Makefile", "void run(void);", []found{{"run", symbol.Function}}},

		// Swift
		{"swift import", "a.swift", "import Foundation", []found{{"Foundation", symbol.SwiftImport}}},
		{"swift class", "a.swift", "class Shape: Drawable {", []found{{"Shape", symbol.SwiftClass}}},
		{"swift struct", "a.swift", "struct Rectangle: Drawable {", []found{{"Rectangle", symbol.SwiftStruct}}},
		{"swift protocol", "a.swift", "protocol Drawable {", []found{{"Drawable", symbol.SwiftProtocol}}},
		{"swift extension", "a.swift", "extension Shape: CustomStringConvertible {", []found{{"Shape", symbol.SwiftExtension}}},
		{"swift func", "a.swift", "func draw() {", []found{{"draw", symbol.SwiftFunction}}},
		{"swift static method", "a.swift", "static func make() -> Shape {", []found{{"make", symbol.SwiftMethod}}},
		{"swift class method", "a.swift", "class func shared() -> Self {", []found{{"shared", symbol.SwiftMethod}}},
		{"swift computed property", "a.swift", "var area: Double {", []found{{"area", symbol.SwiftProperty}}},
		{"swift stored var", "a.swift", "var fillColor: UIColor = .blue", []found{{"fillColor", symbol.SwiftVariable}}},
		{"swift let", "a.swift", "let width: Double", []found{{"width", symbol.SwiftConstant}}},
		{"swift init", "a.swift", "init(name: String) {", []found{{"init", symbol.SwiftInitializer}}},
		{"swift deinit ignored", "a.swift", "deinit {", nil},
		{"swift subscript", "a.swift", "subscript(key: String) -> Int {", []found{{"subscript", symbol.SwiftSubscript}}},

		// one-pattern families
		{"kotlin fun", "a.kt", "fun String.shout(): String {", []found{{"shout", symbol.KotlinFunction}}},
		{"kotlin data class", "a.kt", "data class User(val id: Int)", []found{{"User", symbol.KotlinClass}}},
		{"kotlin object", "a.kts", "object Registry {", []found{{"Registry", symbol.KotlinObject}}},
		{"java class", "A.java", "public class Service {", []found{{"Service", symbol.JavaClass}}},
		{"java method", "A.java", "public static void main(String[] args) {", []found{{"main", symbol.JavaMethod}}},
		{"java enum", "A.java", "enum State { ON, OFF }", []found{{"State", symbol.JavaEnum}}},
		{"php method", "a.php", "public function handle($request) {", []found{{"handle", symbol.PHPFunction}}},
		{"php trait", "a.php", "trait Loggable {", []found{{"Loggable", symbol.PHPTrait}}},
		{"php attribute kept", "a.php", "#[Route('/x')] class Home {", []found{{"Home", symbol.PHPClass}}},
		{"bash function keyword", "a.sh", "function deploy {", []found{{"deploy", symbol.ShellFunction}}},
		{"bash function parens", "a.bash", "build() {", []found{{"build", symbol.ShellFunction}}},
		{"bash comment skipped", "a.sh", "# build() {", nil},
		{"ruby def self", "a.rb", "def self.call(env)", []found{{"call", symbol.RubyMethod}}},
		{"ruby predicate", "a.rb", "def valid?", []found{{"valid?", symbol.RubyMethod}}},
		{"ruby module", "a.rb", "module Billing", []found{{"Billing", symbol.RubyModule}}},
		{"rust fn", "a.rs", "pub fn new() -> Self {", []found{{"new", symbol.RustFunction}}},
		{"rust trait", "a.rs", "pub trait Shape {", []found{{"Shape", symbol.RustTrait}}},
		{"rust impl", "a.rs", "impl Shape for Circle {", []found{{"Shape", symbol.RustImpl}}},
		{"rust attribute line", "a.rs", "#[derive(Debug)]", nil},

		// comments and blanks
		{"slash comment", "a.go", "   // func Hidden() {", nil},
		{"blank", "a.go", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(extractString(t, tt.path, tt.line))
			want := tt.want
			if want == nil {
				want = []found{}
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestExtractText(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []found
	}{
		{"todo", "TODO: rewrite the loader", []found{{"rewrite the loader", symbol.TextTodo}}},
		{"fixme", "  FIXME handle EOF", []found{{"handle EOF", symbol.TextFixme}}},
		{"note", "NOTE: cache is per process", []found{{"cache is per process", symbol.TextNote}}},
		{"markdown header", "# Getting Started", []found{{"# Getting Started", symbol.TextHeader}}},
		{"shouted header", "INSTALLATION GUIDE", []found{{"INSTALLATION GUIDE", symbol.TextHeader}}},
		{"chapter header", "Chapter 3 The Return", []found{{"Chapter 3 The Return", symbol.TextHeader}}},
		{"numbered subheader", "2.1 Setup steps", []found{{"2.1 Setup steps", symbol.TextSubheader}}},
		{"worded subheader", "Overview of the system", []found{{"Overview of the system", symbol.TextSubheader}}},
		{"url and words", "see https://example.com/docs", []found{{"https://example.com/docs", symbol.TextURL}, {"example", symbol.TextWord}}},
		{"email", "mail ops@example.org", []found{{"ops@example.org", symbol.TextEmail}, {"example", symbol.TextWord}}},
		{"significant sentence", "The parser handles every Unicode input gracefully.", []found{
			{"The parser handles every Unicode...", symbol.TextLine},
			{"parser", symbol.TextWord},
			{"handles", symbol.TextWord},
			{"Unicode", symbol.TextWord},
			{"gracefully", symbol.TextWord},
		}},
		{"capitalised stop words kept", "Which would they prefer", []found{{"Which", symbol.TextWord}, {"prefer", symbol.TextWord}}},
		{"stop words case sensitive", "This and There remain", []found{
			{"This", symbol.TextWord},
			{"There", symbol.TextWord},
			{"remain", symbol.TextWord},
		}},
		{"short plain", "ok", []found{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(extractString(t, "notes.md", tt.line)))
		})
	}
}

func TestTextContextKeepsIndentForHeaders(t *testing.T) {
	syms := extractString(t, "a.txt", "   # Title")
	require.Len(t, syms, 1)
	assert.Equal(t, "# Title", syms[0].Name)
	assert.Equal(t, "   # Title", syms[0].Context)

	syms = extractString(t, "a.txt", "   TODO: ship it   ")
	require.Len(t, syms, 1)
	assert.Equal(t, "TODO: ship it", syms[0].Context)
}

func TestLineNumbersAndOrder(t *testing.T) {
	src := "package demo\n\n// comment\nfunc A() {}\n\tfunc (s *S) B() {}\n"
	syms := extractString(t, "demo.go", src)
	require.Len(t, syms, 3)

	assert.Equal(t, found{"demo", symbol.GoPackage}, found{syms[0].Name, syms[0].Kind})
	assert.Equal(t, 1, syms[0].Line)
	assert.Equal(t, found{"A", symbol.GoFunction}, found{syms[1].Name, syms[1].Kind})
	assert.Equal(t, 4, syms[1].Line)
	assert.Equal(t, found{"B", symbol.GoMethod}, found{syms[2].Name, syms[2].Kind})
	assert.Equal(t, 5, syms[2].Line)
	assert.Equal(t, "func (s *S) B() {}", syms[2].Context)

	for _, s := range syms {
		assert.Equal(t, "demo.go", s.File)
		assert.GreaterOrEqual(t, s.Line, 1)
	}
}

func TestStopEarly(t *testing.T) {
	src := "int a = 1;\nint b = 2;\nint c = 3;\n"
	var got []string
	for s := range New().Lines("x.c", strings.NewReader(src)) {
		got = append(got, s.Name)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestFileReportsParsedAndErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "svc.py")
	require.NoError(t, os.WriteFile(path, []byte("import os\ndef run():\n    pass\n"), 0o644))

	m := report.NewMetrics()
	e := New(WithReporter(m))

	syms := slices.Collect(e.File(path))
	assert.Len(t, syms, 2)

	missing := filepath.Join(dir, "missing.go")
	assert.Empty(t, slices.Collect(e.File(missing)))

	snap := m.Snapshot()
	assert.Equal(t, 1, snap.Files)
	assert.Equal(t, 2, snap.Symbols)
	assert.Equal(t, report.LanguageStats{Files: 1, Symbols: 2}, snap.Languages[LangPython])
	assert.Contains(t, snap.Errors, missing)
}

func TestOverlongLineSkipped(t *testing.T) {
	m := report.NewMetrics()
	e := New(WithReporter(m))
	src := "def first():\n" + strings.Repeat("x", MaxLineBytes+10) + "\ndef second():\n"
	syms := slices.Collect(e.Lines("big.py", strings.NewReader(src)))
	require.Len(t, syms, 2)
	assert.Equal(t, found{"first", symbol.PyFunction}, found{syms[0].Name, syms[0].Kind})
	assert.Equal(t, 1, syms[0].Line)
	assert.Equal(t, found{"second", symbol.PyFunction}, found{syms[1].Name, syms[1].Kind})
	assert.Equal(t, 3, syms[1].Line)
	assert.Empty(t, m.Snapshot().Errors)
}

func TestOverlongFileStillParsed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.py")
	src := strings.Repeat("y", 3*MaxLineBytes) + "\n\ndef tail():\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	m := report.NewMetrics()
	syms := slices.Collect(New(WithReporter(m)).File(path))
	require.Len(t, syms, 1)
	assert.Equal(t, "tail", syms[0].Name)
	assert.Equal(t, 3, syms[0].Line)

	snap := m.Snapshot()
	assert.Equal(t, 1, snap.Files)
	assert.Zero(t, snap.Failed)
	require.Len(t, snap.Slowest, 1)
	assert.Equal(t, path, snap.Slowest[0].Path)
	assert.Equal(t, LangPython, snap.Slowest[0].Language)
	assert.Positive(t, snap.Slowest[0].Elapsed)
}

func TestLineEndings(t *testing.T) {
	syms := extractString(t, "crlf.py", "def a():\r\n\r\ndef b():")
	require.Len(t, syms, 2)
	assert.Equal(t, "def a():", syms[0].Context)
	assert.Equal(t, 1, syms[0].Line)
	assert.Equal(t, "b", syms[1].Name)
	assert.Equal(t, 3, syms[1].Line)
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		path string
		lang string
	}{
		{"main.go", LangGo},
		{"x/y/app.TSX", LangTypeScript},
		{"lib.d.ts", LangTypeScript},
		{"index.cjs", LangJavaScript},
		{"tool.pyi", LangPython},
		{"engine.hpp", LangC},
		{"App.swift", LangSwift},
		{"Main.kt", LangKotlin},
		{"Main.java", LangJava},
		{"index.php", LangPHP},
		{"run.zsh", LangShell},
		{"Rakefile.rake", LangRuby},
		{"lib.rs", LangRust},
		{"README.md", LangText},
		{"Makefile", LangUnknown},
		{"data.bin", LangUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.lang, r.Language(tt.path))
		})
	}

	assert.True(t, r.Supports("a.go"))
	assert.False(t, r.Supports("a.bin"))
	assert.Contains(t, r.Extensions(), ".swift")
	assert.True(t, slices.IsSorted(r.Extensions()))
}

func TestRegistryCustomFamily(t *testing.T) {
	r := DefaultRegistry()
	r.Register(&Family{
		Language:        "Lua",
		Extensions:      []string{".lua"},
		CommentPrefixes: []string{"--"},
		Extract: func(line string, emit Emit) {
			if rest, ok := strings.CutPrefix(line, "function "); ok {
				name, _, _ := strings.Cut(rest, "(")
				emit(name, symbol.Function, line)
			}
		},
	})

	e := New(WithRegistry(r))
	syms := slices.Collect(e.Lines("init.lua", strings.NewReader("-- function skip()\nfunction setup()\n")))
	require.Len(t, syms, 1)
	assert.Equal(t, "setup", syms[0].Name)
	assert.Equal(t, 2, syms[0].Line)
	assert.Equal(t, "Lua", r.Language("init.lua"))
}
