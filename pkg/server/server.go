package server

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bastiangx/symserve/internal/utils"
	"github.com/bastiangx/symserve/pkg/engine"
	"github.com/bastiangx/symserve/pkg/suggest"
	"github.com/bastiangx/symserve/pkg/symbol"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// maxDecodeFailures ends the loop when the stream cannot be resynchronised.
const maxDecodeFailures = 8

// Backend is what the server queries.
type Backend interface {
	Complete(query string, limit int) []suggest.Result
	Search(query string, fuzzy bool) []symbol.Symbol
	Stats() engine.Stats
	Rebuild() (*engine.Snapshot, error)
}

// Config bounds the requests the server accepts.
type Config struct {
	// DefaultLimit applies to requests without a limit.
	DefaultLimit int
	MaxLimit     int
	MinQuery     int
	MaxQuery     int
	EnableFilter bool
}

// DefaultConfig returns the stock request bounds.
func DefaultConfig() Config {
	return Config{DefaultLimit: suggest.DefaultMaxResults, MaxLimit: 64, MinQuery: 1, MaxQuery: 128, EnableFilter: true}
}

// Server handles the IPC for symbol completions
type Server struct {
	backend  Backend
	cfg      Config
	dec      *msgpack.Decoder
	enc      *msgpack.Encoder
	logger   *log.Logger
	requests int
}

// Option configures a Server.
type Option func(*Server)

// WithIO replaces stdin and stdout.
func WithIO(r io.Reader, w io.Writer) Option {
	return func(s *Server) {
		s.dec = msgpack.NewDecoder(r)
		s.enc = msgpack.NewEncoder(w)
	}
}

// WithLogger sets the server's logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewServer creates a server using stdin/stdout for IPC.
func NewServer(backend Backend, cfg Config, opts ...Option) *Server {
	s := &Server{
		backend: backend,
		cfg:     cfg,
		dec:     msgpack.NewDecoder(os.Stdin),
		enc:     msgpack.NewEncoder(os.Stdout),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.cfg.MaxLimit < 1 {
		s.cfg.MaxLimit = DefaultConfig().MaxLimit
	}
	if s.cfg.DefaultLimit < 1 {
		s.cfg.DefaultLimit = suggest.DefaultMaxResults
	}
	return s
}

// Start handles requests until the input ends.
func (s *Server) Start() error {
	s.logger.Debug("Starting Server.")

	failures := 0
	for {
		var req Request
		err := s.dec.Decode(&req)
		switch {
		case err == nil:
			failures = 0
		case errors.Is(err, io.EOF):
			s.logger.Debugf("Input closed after %d requests", s.requests)
			return nil
		case errors.Is(err, io.ErrUnexpectedEOF):
			return fmt.Errorf("reading request: %w", err)
		default:
			failures++
			s.logger.Errorf("Decoding request: %v", err)
			if err := s.send(CompletionError{Error: "invalid msgpack request", Code: 400}); err != nil {
				return err
			}
			if failures >= maxDecodeFailures {
				return fmt.Errorf("reading request: %w", err)
			}
			continue
		}

		s.requests++
		if err := s.send(s.handle(req)); err != nil {
			return err
		}
	}
}

func (s *Server) handle(req Request) any {
	req.Query = utils.NormalizeQuery(req.Query)
	switch req.Action {
	case ActionComplete, "":
		return s.handleComplete(req)
	case ActionSearch:
		return s.handleSearch(req, true)
	case ActionExact:
		return s.handleSearch(req, false)
	case ActionStats:
		return s.stats(req.ID)
	case ActionReload:
		if _, err := s.backend.Rebuild(); err != nil {
			s.logger.Errorf("Reload failed: %v", err)
			return CompletionError{ID: req.ID, Error: fmt.Sprintf("reload failed: %v", err), Code: 500}
		}
		return s.stats(req.ID)
	}
	return CompletionError{ID: req.ID, Error: fmt.Sprintf("unknown action: %s", req.Action), Code: 404}
}

// validate returns an error response for queries outside the configured
// bounds.
func (s *Server) validate(req Request) *CompletionError {
	switch {
	case req.Query == "":
		return &CompletionError{ID: req.ID, Error: "missing query", Code: 400}
	case len(req.Query) < s.cfg.MinQuery:
		return &CompletionError{ID: req.ID, Error: fmt.Sprintf("query must be at least %d characters", s.cfg.MinQuery), Code: 400}
	case s.cfg.MaxQuery > 0 && len(req.Query) > s.cfg.MaxQuery:
		return &CompletionError{ID: req.ID, Error: fmt.Sprintf("query exceeds maximum length of %d characters", s.cfg.MaxQuery), Code: 400}
	}
	return nil
}

func (s *Server) limit(req Request) int {
	if req.Limit < 1 {
		return min(s.cfg.DefaultLimit, s.cfg.MaxLimit)
	}
	return min(req.Limit, s.cfg.MaxLimit)
}

func (s *Server) handleComplete(req Request) any {
	if e := s.validate(req); e != nil {
		return *e
	}
	start := time.Now()
	resp := CompletionResponse{ID: req.ID, Suggestions: []CompletionSuggestion{}}
	if s.cfg.EnableFilter && !utils.IsValidQuery(req.Query) {
		s.logger.Debugf("Filtered query %q", req.Query)
		resp.TimeTaken = time.Since(start).Microseconds()
		return resp
	}

	for _, r := range s.backend.Complete(req.Query, s.limit(req)) {
		resp.Suggestions = append(resp.Suggestions, CompletionSuggestion{
			Word:      r.Suggestion,
			Kind:      r.Kind.String(),
			File:      r.File,
			Line:      r.Line,
			Context:   r.Context,
			MatchType: string(r.MatchType),
			Score:     r.Score,
		})
	}
	resp.Count = len(resp.Suggestions)
	resp.TimeTaken = time.Since(start).Microseconds()
	return resp
}

func (s *Server) handleSearch(req Request, fuzzy bool) any {
	if e := s.validate(req); e != nil {
		return *e
	}
	start := time.Now()
	symbols := s.backend.Search(req.Query, fuzzy)
	if req.File != "" {
		kept := symbols[:0:0]
		for _, sym := range symbols {
			if sym.File == req.File {
				kept = append(kept, sym)
			}
		}
		symbols = kept
	}
	if limit := s.limit(req); len(symbols) > limit {
		symbols = symbols[:limit]
	}

	resp := SearchResponse{ID: req.ID, Symbols: make([]SymbolHit, len(symbols))}
	for i, sym := range symbols {
		resp.Symbols[i] = SymbolHit{Word: sym.Name, Kind: sym.Kind.String(), File: sym.File, Line: sym.Line, Context: sym.Context}
	}
	resp.Count = len(resp.Symbols)
	resp.TimeTaken = time.Since(start).Microseconds()
	return resp
}

func (s *Server) stats(id string) StatsResponse {
	st := s.backend.Stats()
	return StatsResponse{
		ID:          id,
		Status:      "ok",
		Symbols:     st.Symbols,
		UniqueNames: st.UniqueNames,
		Files:       st.Files,
		Failed:      st.Failed,
		Languages:   st.Languages,
		BuildMillis: st.Duration.Milliseconds(),
		BuiltAt:     st.BuiltAt.Unix(),
		Requests:    s.requests,
	}
}

func (s *Server) send(response any) error {
	if err := s.enc.Encode(response); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
		return fmt.Errorf("writing response: %w", err)
	}
	return nil
}
