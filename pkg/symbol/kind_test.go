package symbol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindNamesAreUnique(t *testing.T) {
	seen := make(map[string]Kind)
	for _, k := range Kinds() {
		name := k.String()
		require.NotEmpty(t, name, "kind %d has no display name", k)
		if prev, dup := seen[name]; dup {
			t.Fatalf("display name %q shared by kinds %d and %d", name, prev, k)
		}
		seen[name] = k
	}
}

func TestParseKindRoundTrip(t *testing.T) {
	for _, k := range Kinds() {
		got, ok := ParseKind(k.String())
		require.True(t, ok, k.String())
		assert.Equal(t, k, got)
	}
	_, ok := ParseKind("no-such-kind")
	assert.False(t, ok)
}

func TestKindDisplayAndLSP(t *testing.T) {
	tests := []struct {
		kind Kind
		name string
		lsp  int
	}{
		{Function, "function", LSPFunction},
		{Class, "class", LSPClass},
		{JSArrowFunction, "arrow-func", LSPFunction},
		{PyFromImport, "py-from-import", LSPModule},
		{GoMethod, "go-method", LSPMethod},
		{GoPackage, "go-package", LSPPackage},
		{SwiftProtocol, "swift-protocol", LSPInterface},
		{SwiftInitializer, "swift-init", LSPConstructor},
		{RustTrait, "rs-trait", LSPInterface},
		{TextTodo, "todo", LSPString},
		{Kind(250), "unknown", LSPFile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.kind.String())
			assert.Equal(t, tt.lsp, tt.kind.LSPKind())
		})
	}
}

func TestSymbolJSONUsesDisplayKind(t *testing.T) {
	s := Symbol{Name: "Parse", Kind: GoFunction, File: "a.go", Line: 3, Context: "func Parse() {"}
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"go-function"`)

	var back Symbol
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, s, back)
}

func TestSymbolKey(t *testing.T) {
	s := Symbol{Name: "x", File: "f.py", Line: 12}
	assert.Equal(t, "x|f.py|12", s.Key())
}

func TestIsText(t *testing.T) {
	assert.True(t, TextHeader.IsText())
	assert.True(t, TextWord.IsText())
	assert.False(t, Function.IsText())
	assert.False(t, RustModule.IsText())
}
