/*
Package server implements msgpack IPC for symbol completion services.

The server reads a stream of msgpack-encoded requests from stdin and writes
one msgpack-encoded response per request to stdout. Logs go to stderr.

# IPC

Every request carries an ID, echoed in its response, and an action. The
action defaults to "complete":

	{"id": "req_001", "q": "pars", "l": 20}

The server responds with ranked suggestions and the time taken in
microseconds:

	{"id": "req_001", "s": [{"w": "parseFile", "k": "go-function", "f": "/src/parse.go", "n": 10, "c": "func parseFile() {", "m": "prefix", "r": 1}], "c": 1, "t": 145}

Store lookups use the "search" (tiered fuzzy) and "exact" actions:

	{"id": "req_002", "a": "search", "q": "parse", "l": 50}
	{"id": "req_003", "a": "exact", "q": "Parser"}

Index management uses "stats" and "reload"; both answer with a
StatsResponse, "reload" after rebuilding the index from disk:

	{"id": "req_004", "a": "reload"}

Failures answer with a CompletionError holding a message and an HTTP-like
code: 400 for invalid queries, 404 for unknown actions, 500 for failed
reloads. A malformed message yields an error response and the loop continues;
end of input stops the server.
*/
package server

// Actions understood by the server.
const (
	ActionComplete = "complete"
	ActionSearch   = "search"
	ActionExact    = "exact"
	ActionStats    = "stats"
	ActionReload   = "reload"
)

// Request is the single request envelope.
type Request struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"a,omitempty"`
	Query  string `msgpack:"q"`
	Limit  int    `msgpack:"l,omitempty"`
	File   string `msgpack:"f,omitempty"`
}

// CompletionSuggestion is one ranked completion.
type CompletionSuggestion struct {
	Word      string  `msgpack:"w"`
	Kind      string  `msgpack:"k"`
	File      string  `msgpack:"f"`
	Line      int     `msgpack:"n"`
	Context   string  `msgpack:"c"`
	MatchType string  `msgpack:"m"`
	Score     float64 `msgpack:"r"`
}

// CompletionResponse - completion response
type CompletionResponse struct {
	ID          string                 `msgpack:"id"`
	Suggestions []CompletionSuggestion `msgpack:"s"`
	Count       int                    `msgpack:"c"`
	TimeTaken   int64                  `msgpack:"t"`
}

// SymbolHit is one store search result.
type SymbolHit struct {
	Word    string `msgpack:"w"`
	Kind    string `msgpack:"k"`
	File    string `msgpack:"f"`
	Line    int    `msgpack:"n"`
	Context string `msgpack:"x"`
}

// SearchResponse answers search and exact requests.
type SearchResponse struct {
	ID        string      `msgpack:"id"`
	Symbols   []SymbolHit `msgpack:"y"`
	Count     int         `msgpack:"c"`
	TimeTaken int64       `msgpack:"t"`
}

// StatsResponse describes the published index.
type StatsResponse struct {
	ID          string         `msgpack:"id"`
	Status      string         `msgpack:"status"`
	Symbols     int            `msgpack:"symbols"`
	UniqueNames int            `msgpack:"unique_names"`
	Files       int            `msgpack:"files"`
	Failed      int            `msgpack:"failed"`
	Languages   map[string]int `msgpack:"languages,omitempty"`
	BuildMillis int64          `msgpack:"build_ms"`
	BuiltAt     int64          `msgpack:"built_at"`
	Requests    int            `msgpack:"requests"`
}

// CompletionError holds basic error information for failed requests
type CompletionError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
