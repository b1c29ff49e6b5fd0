// Package cli handles cmd line input for querying an index interactively.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bastiangx/symserve/internal/utils"
	"github.com/bastiangx/symserve/pkg/engine"
	"github.com/bastiangx/symserve/pkg/suggest"
	"github.com/bastiangx/symserve/pkg/symbol"
	"github.com/charmbracelet/log"
)

// Backend is what the CLI queries.
type Backend interface {
	Complete(query string, limit int) []suggest.Result
	Search(query string, fuzzy bool) []symbol.Symbol
	Stats() engine.Stats
	Rebuild() (*engine.Snapshot, error)
}

// errQuit ends the loop without an error.
var errQuit = errors.New("quit")

// InputHandler processes user input, printing completions or search
// results. Lines starting with ':' are commands:
//
//	:s <query>   tiered fuzzy search
//	:e <query>   exact search
//	:stats       index statistics
//	:reload      rebuild the index
//	:q           quit
type InputHandler struct {
	backend  Backend
	in       io.Reader
	out      io.Writer
	limit    int
	noFilter bool
	render   *Renderer
}

// Option configures an InputHandler.
type Option func(*InputHandler)

// WithIO replaces stdin and stdout.
func WithIO(r io.Reader, w io.Writer) Option {
	return func(h *InputHandler) {
		h.in = r
		h.out = w
	}
}

// WithLimit sets how many results are printed.
func WithLimit(n int) Option {
	return func(h *InputHandler) {
		if n > 0 {
			h.limit = n
		}
	}
}

// WithoutFilter disables query validation.
func WithoutFilter() Option {
	return func(h *InputHandler) { h.noFilter = true }
}

// WithHighlight toggles match highlighting.
func WithHighlight(on bool) Option {
	return func(h *InputHandler) { h.render = NewRenderer(on) }
}

// NewInputHandler handles initialization of the InputHandler.
func NewInputHandler(backend Backend, opts ...Option) *InputHandler {
	h := &InputHandler{
		backend: backend,
		in:      os.Stdin,
		out:     os.Stdout,
		limit:   suggest.DefaultMaxResults,
		render:  NewRenderer(true),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Start begins the interface loop. It returns nil at end of input or on :q.
func (h *InputHandler) Start() error {
	fmt.Fprintln(h.out, h.render.Title("symserve CLI"))
	fmt.Fprintln(h.out, "type a query and press Enter (:s search, :e exact, :stats, :reload, :q quit)")

	scanner := bufio.NewScanner(h.in)
	for {
		fmt.Fprint(h.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(h.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := h.handleInput(line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			return err
		}
	}
}

func (h *InputHandler) handleInput(line string) error {
	if !strings.HasPrefix(line, ":") {
		h.complete(utils.NormalizeQuery(line))
		return nil
	}
	cmd, arg, _ := strings.Cut(line[1:], " ")
	arg = utils.NormalizeQuery(arg)
	switch cmd {
	case "q", "quit":
		return errQuit
	case "s":
		h.search(arg, true)
	case "e":
		h.search(arg, false)
	case "stats":
		h.stats()
	case "reload":
		if _, err := h.backend.Rebuild(); err != nil {
			log.Errorf("Reload failed: %v", err)
			return nil
		}
		h.stats()
	default:
		log.Errorf("Unknown command: %s", line)
	}
	return nil
}

func (h *InputHandler) valid(query string) bool {
	if query == "" {
		log.Errorf("Missing query")
		return false
	}
	if !h.noFilter && !utils.IsValidQuery(query) {
		log.Warnf("No results for query: '%s' (filtered out)", query)
		return false
	}
	return true
}

func (h *InputHandler) complete(query string) {
	if !h.valid(query) {
		return
	}
	start := time.Now()
	results := h.backend.Complete(query, h.limit)
	log.Debugf("Took [ %v ] for query '%s'", time.Since(start), query)

	if len(results) == 0 {
		fmt.Fprintf(h.out, "No completions for '%s'\n", query)
		return
	}
	fmt.Fprintf(h.out, "Found %d completions for '%s':\n", len(results), query)
	for i, r := range results {
		fmt.Fprintln(h.out, h.render.Completion(i+1, query, r))
	}
}

func (h *InputHandler) search(query string, fuzzy bool) {
	if !h.valid(query) {
		return
	}
	symbols := h.backend.Search(query, fuzzy)
	if len(symbols) == 0 {
		fmt.Fprintf(h.out, "No symbols for '%s'\n", query)
		return
	}
	shown := symbols[:min(len(symbols), h.limit)]
	fmt.Fprintf(h.out, "Found %d symbols for '%s' (showing %d):\n", len(symbols), query, len(shown))
	for i, s := range shown {
		fmt.Fprintln(h.out, h.render.Symbol(i+1, query, s))
	}
}

func (h *InputHandler) stats() {
	fmt.Fprintln(h.out, h.render.Stats(h.backend.Stats()))
}
