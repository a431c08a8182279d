// =============================================================================
// FEC to CSV Converter - File Orchestrator Module
// =============================================================================
//
// This module ties the decoding stages together. A FecFile wraps a byte
// source and lazily walks it through a fixed progression:
//
//   Uninitialized -> HeaderParsed -> CoverParsed -> Streaming -> Exhausted
//
// No transition skips a predecessor: asking for the cover parses the header
// first, asking for a record parses the cover first. Each step is memoized —
// value or error — and computed at most once, so repeated calls perform no
// extra I/O and a failed header or cover stays failed.
//
// OWNERSHIP:
//   The byte source is exclusively owned by exactly one component at a time.
//   The orchestrator owns it first; the header decoder borrows it for exactly
//   one logical line; the first body access then moves it into the tokenizer
//   for the rest of the file's lifetime. After the move the orchestrator's
//   own reference is nil, so the source can never be read by two components
//   at once. A body access finding neither a source nor a tokenizer is a
//   violated internal invariant and panics; it is not a recoverable error.
//
// CONCURRENCY:
//   A FecFile is single-threaded and pull-based. Each NextRecord call does
//   exactly the I/O needed for one record. Records come back in file order;
//   nothing is reordered, deduplicated or batched.
//
// =============================================================================

package fecfile

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/ginjaninja78/FEC-to-CSV-conversion/internal/header"
	"github.com/ginjaninja78/FEC-to-CSV-conversion/internal/record"
	"github.com/ginjaninja78/FEC-to-CSV-conversion/internal/schemas"
	"github.com/ginjaninja78/FEC-to-CSV-conversion/internal/tokenizer"
	"github.com/ginjaninja78/FEC-to-CSV-conversion/internal/types"
)

// =============================================================================
// ERROR TYPE
// =============================================================================

// CoverError reports a filing whose cover record is missing or undecodable.
// Downstream logic assumes a valid cover, so a CoverError is fatal for the
// whole file; it is memoized and returned on every later body access.
type CoverError struct {
	Err error
}

func (e *CoverError) Error() string {
	return fmt.Sprintf("could not parse cover record: %v", e.Err)
}

func (e *CoverError) Unwrap() error {
	return e.Err
}

// =============================================================================
// FECFILE STRUCTURE
// =============================================================================

// FecFile is the lazy, streaming view of one .fec filing. It is the single
// public entry point used by the CLI, the writers and any other consumer.
//
// All methods are lazy: nothing is read from the source until a method needs
// it, so a caller who only wants the header pays nothing for the body.
type FecFile struct {
	// src is the byte source while the orchestrator owns it. Nil once the
	// source has moved into the tokenizer.
	src io.Reader

	// buf is the buffered view of src the header decoder reads from. The
	// same buffer moves into the tokenizer so no bytes are lost across the
	// handoff. Nil once moved.
	buf *bufio.Reader

	// closer releases the underlying source, when it has one (FromPath).
	closer io.Closer
	closed bool

	registry types.SchemaRegistry
	logger   types.Logger

	// Header step, computed at most once.
	headerDone bool
	headerErr  error
	header     *types.Header
	sep        types.Separator

	// Cover step, computed at most once.
	coverDone bool
	coverErr  error
	cover     *types.Cover

	// tok owns the source for the rest of the file once body access begins.
	tok *tokenizer.Tokenizer

	// exhausted is set on the first clean end-of-stream; io.EOF is terminal.
	exhausted bool
}

// Option customizes a FecFile.
type Option func(*FecFile)

// WithRegistry replaces the default embedded schema registry.
func WithRegistry(registry types.SchemaRegistry) Option {
	return func(f *FecFile) { f.registry = registry }
}

// WithLogger installs a logger for non-fatal decode anomalies.
func WithLogger(logger types.Logger) Option {
	return func(f *FecFile) { f.logger = logger }
}

// =============================================================================
// CONSTRUCTORS
// =============================================================================

// New creates a FecFile over any sequential byte source: a local file, an
// HTTP response body, an in-memory buffer. The FecFile owns the reader from
// here on.
func New(src io.Reader, opts ...Option) *FecFile {
	f := &FecFile{
		src:      src,
		registry: schemas.Default(),
		logger:   types.NopLogger{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FromPath creates a FecFile over a local file. The file is closed by Close.
func FromPath(path string, opts ...Option) (*FecFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	f := New(file, opts...)
	f.closer = file
	return f, nil
}

// =============================================================================
// PUBLIC OPERATIONS
// =============================================================================

// Header returns the filing's header, parsing it on first call.
// Idempotent: repeated calls return the cached value with no extra I/O.
func (f *FecFile) Header() (*types.Header, error) {
	if err := f.parseHeader(); err != nil {
		return nil, err
	}
	return f.header, nil
}

// Separator returns the body dialect derived from the header, parsing the
// header on first call.
func (f *FecFile) Separator() (types.Separator, error) {
	if err := f.parseHeader(); err != nil {
		return types.Comma, err
	}
	return f.sep, nil
}

// Cover returns the filing's cover record, parsing the header and cover on
// first call. A missing or undecodable cover is fatal for the file.
func (f *FecFile) Cover() (*types.Cover, error) {
	if err := f.parseCover(); err != nil {
		return nil, err
	}
	return f.cover, nil
}

// NextRecord returns the next body record after the cover.
//
// RETURNS:
//   - (record, nil) for each well-formed record, in file order.
//   - (nil, err) for a malformed record — a registry miss or a coercion
//     failure. The stream is NOT terminated; the next call attempts the
//     next record, so callers get "skip bad rows" by continuing and
//     "abort on first bad row" by stopping.
//   - (nil, io.EOF) at the end of the stream, permanently.
func (f *FecFile) NextRecord() (*types.Record, error) {
	if err := f.parseCover(); err != nil {
		return nil, err
	}
	if f.exhausted {
		return nil, io.EOF
	}

	raw, err := f.tok.Next()
	if err == io.EOF {
		f.exhausted = true
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}

	return record.Decode(f.header.FECVersion, raw, f.registry, f.logger)
}

// Close releases the underlying source, exactly once. Safe to call at any
// point in the progression; whichever stage currently owns the source, the
// resource behind it is the same and is closed here.
func (f *FecFile) Close() error {
	if f.closed || f.closer == nil {
		return nil
	}
	f.closed = true
	return f.closer.Close()
}

// =============================================================================
// STATE TRANSITIONS
// =============================================================================

// parseHeader performs Uninitialized -> HeaderParsed, at most once.
func (f *FecFile) parseHeader() error {
	if f.headerDone {
		return f.headerErr
	}
	f.headerDone = true

	if f.buf == nil {
		if f.src == nil {
			// The source can only be gone if it moved into a tokenizer,
			// which requires the header step to have completed first.
			panic("fecfile: no byte source and no tokenizer; internal state invariant violated")
		}
		f.buf = bufio.NewReader(f.src)
	}

	parsing, err := header.Parse(f.buf)
	if err != nil {
		f.headerErr = err
		return err
	}

	f.header = &parsing.Header
	f.sep = parsing.Separator
	return nil
}

// moveSourceToTokenizer performs the one-time ownership handoff of the byte
// source into the tokenizer. Requires HeaderParsed.
func (f *FecFile) moveSourceToTokenizer() error {
	if f.tok != nil {
		return nil
	}
	if err := f.parseHeader(); err != nil {
		return err
	}
	if f.buf == nil {
		panic("fecfile: byte source already moved away with no tokenizer; internal state invariant violated")
	}

	f.logger.Debug("handing byte source to %s tokenizer", f.sep)
	f.tok = tokenizer.New(f.buf, f.sep)

	// The move is one-way: null out our own references so nothing here can
	// ever read the source again.
	f.buf = nil
	f.src = nil
	return nil
}

// parseCover performs HeaderParsed -> CoverParsed, at most once.
func (f *FecFile) parseCover() error {
	if f.coverDone {
		return f.coverErr
	}
	f.coverDone = true

	if err := f.moveSourceToTokenizer(); err != nil {
		f.coverErr = err
		return err
	}

	raw, err := f.tok.Next()
	if err == io.EOF {
		f.exhausted = true
		f.coverErr = &CoverError{Err: fmt.Errorf("filing has no body records")}
		return f.coverErr
	}
	if err != nil {
		f.coverErr = &CoverError{Err: err}
		return f.coverErr
	}

	cover, err := record.DecodeCover(f.header.FECVersion, raw, f.registry, f.logger)
	if err != nil {
		f.coverErr = &CoverError{Err: err}
		return f.coverErr
	}

	f.cover = cover
	return nil
}
