package extract

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"iter"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/bastiangx/symserve/pkg/report"
	"github.com/bastiangx/symserve/pkg/symbol"
)

// MaxLineBytes bounds a single scanned line. Longer lines are skipped, and
// still count toward line numbers.
const MaxLineBytes = 1 << 20

// Extractor runs the registered families over files.
type Extractor struct {
	registry *Registry
	reporter report.Reporter
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithRegistry replaces the default family registry.
func WithRegistry(r *Registry) Option {
	return func(e *Extractor) { e.registry = r }
}

// WithReporter sets the sink for unreadable files and per-file counts.
func WithReporter(r report.Reporter) Option {
	return func(e *Extractor) {
		if r != nil {
			e.reporter = r
		}
	}
}

// New creates an Extractor over DefaultRegistry with no reporting.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		registry: DefaultRegistry(),
		reporter: report.Nop{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the family registry in use.
func (e *Extractor) Registry() *Registry {
	return e.registry
}

// File lazily extracts the symbols of the file at path. The file is opened
// when iteration starts; if it cannot be opened the sequence is empty and
// the failure goes to the reporter. A fully consumed file is reported with
// its symbol count and extraction time.
func (e *Extractor) File(path string) iter.Seq[symbol.Symbol] {
	return func(yield func(symbol.Symbol) bool) {
		start := time.Now()
		f, err := os.Open(path)
		if err != nil {
			e.reporter.FileError(path, err.Error())
			return
		}
		defer f.Close()

		count := 0
		done := e.scan(path, f, func(s symbol.Symbol) bool {
			count++
			return yield(s)
		})
		if done {
			e.reporter.FileParsed(path, count, e.registry.Language(path), time.Since(start))
		}
	}
}

// Lines extracts symbols from r as if it were the contents of path. Only the
// extension of path matters for classification.
func (e *Extractor) Lines(path string, r io.Reader) iter.Seq[symbol.Symbol] {
	return func(yield func(symbol.Symbol) bool) {
		e.scan(path, r, yield)
	}
}

// scan reports whether the reader was consumed to the end without error.
func (e *Extractor) scan(path string, r io.Reader, yield func(symbol.Symbol) bool) bool {
	fam := e.registry.Lookup(path)
	if fam == nil {
		return true
	}

	lr := newLineReader(r)
	var pending []symbol.Symbol
	lineNo := 0
	for {
		raw, skipped, err := lr.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			e.reporter.FileError(path, err.Error())
			return false
		}
		lineNo++
		if skipped {
			continue
		}
		input := string(raw)
		if !fam.Raw {
			input = strings.TrimLeftFunc(input, unicode.IsSpace)
			if input == "" || fam.isComment(input) {
				continue
			}
		}

		pending = pending[:0]
		fam.Extract(input, func(name string, kind symbol.Kind, context string) {
			if name == "" && !kind.IsText() {
				return
			}
			pending = append(pending, symbol.Symbol{
				Name:    name,
				Kind:    kind,
				File:    path,
				Line:    lineNo,
				Context: context,
			})
		})
		for _, s := range pending {
			if !yield(s) {
				return false
			}
		}
	}
	return true
}

// lineReader splits input on '\n' like bufio.ScanLines, but discards lines
// longer than MaxLineBytes instead of failing.
type lineReader struct {
	br  *bufio.Reader
	buf []byte
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{br: bufio.NewReaderSize(r, 64*1024)}
}

// next returns the next line without its terminator. skipped reports a line
// that was too long; its content is dropped. io.EOF is returned only once no
// bytes remain.
func (lr *lineReader) next() (line []byte, skipped bool, err error) {
	lr.buf = lr.buf[:0]
	read := false
	for {
		chunk, rerr := lr.br.ReadSlice('\n')
		read = read || len(chunk) > 0
		if !skipped {
			lr.buf = append(lr.buf, chunk...)
			// room for the "\r\n" terminator
			if len(lr.buf) > MaxLineBytes+2 {
				skipped = true
				lr.buf = lr.buf[:0]
			}
		}
		switch {
		case errors.Is(rerr, bufio.ErrBufferFull):
			continue
		case rerr == io.EOF:
			if !read {
				return nil, false, io.EOF
			}
		case rerr != nil:
			return nil, false, rerr
		}
		break
	}
	if skipped {
		return nil, true, nil
	}
	line = bytes.TrimSuffix(lr.buf, []byte{'\n'})
	line = bytes.TrimSuffix(line, []byte{'\r'})
	if len(line) > MaxLineBytes {
		return nil, true, nil
	}
	return line, false, nil
}
