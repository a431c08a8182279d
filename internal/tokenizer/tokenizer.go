// =============================================================================
// FEC to CSV Converter - Tokenizer Module
// =============================================================================
//
// This module splits the body of a .fec filing into records (lines) and each
// record into raw text fields, using the separator the header decoder derived
// from the declared format version.
//
// DIALECTS:
//   - Comma (versions before 6): real CSV. Fields may be double-quoted and
//     quoted fields may span lines, so the comma dialect is tokenized with
//     encoding/csv configured for flexible row widths and lazy quotes.
//   - ASCII 28 (versions 6 and above): plain split on the control byte. The
//     newer format has no quoting convention at all (the separator was
//     chosen precisely so free text never needs quoting), so quote
//     characters are ordinary data and must not be interpreted.
//
// TOLERANCE:
//   - Rows may have any number of fields; width is never an error here.
//   - Fields containing invalid UTF-8 are decoded with U+FFFD substitution.
//     Filings are known to contain mis-encoded free text, and a bad byte in
//     one memo field must never abort the stream.
//   - End of input is a clean io.EOF, distinguishable from read errors, and
//     is sticky: once EOF is returned every later call returns EOF.
//
// =============================================================================

package tokenizer

import (
	"bufio"
	"encoding/csv"
	"io"
	"strings"

	"github.com/ginjaninja78/FEC-to-CSV-conversion/internal/types"
)

// =============================================================================
// TOKENIZER STRUCTURE
// =============================================================================

// Tokenizer produces a lazy, forward-only, non-restartable sequence of raw
// records. It takes exclusive ownership of the reader passed to New: nothing
// else may read from that reader afterwards.
type Tokenizer struct {
	// csvReader tokenizes the comma dialect. Nil for ASCII 28 files.
	csvReader *csv.Reader

	// lineReader tokenizes the ASCII 28 dialect. Nil for comma files.
	lineReader *bufio.Reader

	// sep is the dialect in effect.
	sep types.Separator

	// done is set once the end of input has been reached; EOF is terminal.
	done bool
}

// New creates a tokenizer over the remaining bytes of a filing.
//
// PARAMETERS:
//   - src: The byte source, positioned just past the header. The tokenizer
//     owns it from here on.
//   - sep: The body field separator derived from the header.
func New(src io.Reader, sep types.Separator) *Tokenizer {
	t := &Tokenizer{sep: sep}

	if sep == types.Comma {
		r := csv.NewReader(src)
		r.Comma = sep.Rune()
		// Rows may have any number of fields; width mismatches are a
		// decoding concern, not a tokenizing error.
		r.FieldsPerRecord = -1
		// Filings do not follow strict CSV quoting rules.
		r.LazyQuotes = true
		t.csvReader = r
	} else {
		t.lineReader = bufio.NewReader(src)
	}

	return t
}

// =============================================================================
// TOKENIZING
// =============================================================================

// Next returns the next record as an ordered slice of raw field strings.
//
// RETURNS:
//   - (fields, nil) for each record, in file order.
//   - (nil, io.EOF) at the end of input, permanently.
//   - (nil, err) for a read failure. A non-EOF error does not mark the
//     tokenizer done; the caller decides whether to keep pulling.
func (t *Tokenizer) Next() ([]string, error) {
	if t.done {
		return nil, io.EOF
	}

	var fields []string
	var err error
	if t.csvReader != nil {
		fields, err = t.csvReader.Read()
	} else {
		fields, err = t.readPlainRecord()
	}

	if err == io.EOF {
		t.done = true
		return nil, io.EOF
	}
	if err != nil {
		return nil, err
	}

	for i := range fields {
		fields[i] = sanitize(fields[i])
	}
	return fields, nil
}

// Separator returns the dialect this tokenizer was built with.
func (t *Tokenizer) Separator() types.Separator {
	return t.sep
}

// readPlainRecord reads one line and splits it on the ASCII 28 byte.
// Blank lines are skipped, matching the comma dialect where encoding/csv
// does the same.
func (t *Tokenizer) readPlainRecord() ([]string, error) {
	for {
		line, err := t.lineReader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		if line == "" && err == io.EOF {
			return nil, io.EOF
		}

		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == "" {
			if err == io.EOF {
				return nil, io.EOF
			}
			continue
		}

		return strings.Split(trimmed, "\x1c"), nil
	}
}

// sanitize replaces invalid UTF-8 sequences with the replacement character.
// Decoding lossily instead of failing keeps one mis-encoded memo field from
// killing the whole stream.
func sanitize(s string) string {
	return strings.ToValidUTF8(s, "�")
}
