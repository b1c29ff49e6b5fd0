// Package symbol defines the record every extractor emits and every index
// consumes, along with the closed set of symbol kinds.
package symbol

import "strconv"

// Symbol is one extracted declaration. Values are never mutated after an
// extractor emits them.
type Symbol struct {
	Name    string `json:"name" msgpack:"name"`
	Kind    Kind   `json:"kind" msgpack:"kind"`
	File    string `json:"file" msgpack:"file"`
	Line    int    `json:"line" msgpack:"line"`
	Context string `json:"context" msgpack:"context"`
}

// Key identifies a symbol occurrence by name and location.
func (s Symbol) Key() string {
	return s.Name + "|" + s.File + "|" + strconv.Itoa(s.Line)
}
