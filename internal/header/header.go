// =============================================================================
// FEC to CSV Converter - Header Decoder Module
// =============================================================================
//
// This module decodes the header of a .fec filing. The header is the only
// part of the file with its own micro-format: the body field separator is not
// known until the header has been decoded, so the header line must be
// self-describing.
//
// HEADER FORMATS:
//   1. Modern (format version 3 and above): a single line of the form
//        HDR<sep>FEC<sep>version[<sep>software name[<sep>software version
//        [<sep>report id[<sep>report number]]]]
//      where <sep> is ASCII 28 if the line contains one, comma otherwise.
//   2. Legacy (format versions 1 and 2): a comment-style block
//        /* Header
//        FEC_Ver_# = 2.02
//        Soft_Name = "FECfile"
//        ...
//        /* End Header
//
// SEPARATOR SELECTION:
//   The body separator is derived from the declared version, not from the
//   delimiter seen on the header line: versions at or above
//   UnitSeparatorVersion use ASCII 28, earlier versions use comma. The
//   boundary comes from the FEC format-version table and is kept as a
//   configuration constant here, not as inline arithmetic at call sites.
//
// =============================================================================

package header

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/ginjaninja78/FEC-to-CSV-conversion/internal/types"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// UnitSeparatorVersion is the first format version whose body uses the
// ASCII 28 field separator. Sourced from the FEC electronic filing
// specification's version table.
const UnitSeparatorVersion = 6.0

// legacyHeaderStart marks the beginning of a legacy comment-style header
// block. The closing marker is "/* End Header".
const legacyHeaderStart = "/*"

// =============================================================================
// ERROR TYPE
// =============================================================================

// ParseError reports a header that could not be decoded. A header failure is
// fatal for the whole file: without a version there is no dialect, and
// without a dialect no body record can be tokenized.
type ParseError struct {
	// Reason describes what was wrong with the header.
	Reason string

	// Line is the offending header line, when one was read.
	Line string

	// Err is the underlying error, if any (e.g. an I/O failure).
	Err error
}

func (e *ParseError) Error() string {
	msg := "invalid header: " + e.Reason
	if e.Line != "" {
		msg += fmt.Sprintf(" (line %q)", e.Line)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// =============================================================================
// PARSING RESULT
// =============================================================================

// Parsing is the result of decoding a header: the header values plus the
// body separator derived from the declared version.
type Parsing struct {
	Header    types.Header
	Separator types.Separator
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads the header from the given reader and decodes it.
//
// PARAMETERS:
//   - r: A buffered reader positioned at the start of the file. Parse
//     consumes exactly the header bytes (one line, or the legacy block);
//     the reader is left positioned at the first body record.
//
// RETURNS:
//   - The decoded header and derived separator.
//   - A *ParseError if the header is malformed, declares an unparseable
//     version, or the underlying read fails.
func Parse(r *bufio.Reader) (*Parsing, error) {
	line, err := readLine(r)
	if err != nil {
		return nil, &ParseError{Reason: "could not read header line", Err: err}
	}

	var hdr types.Header
	if strings.HasPrefix(strings.TrimSpace(line), legacyHeaderStart) {
		hdr, err = parseLegacyBlock(r)
	} else {
		hdr, err = parseModernLine(line)
	}
	if err != nil {
		return nil, err
	}

	sep, err := separatorForVersion(hdr.FECVersion)
	if err != nil {
		return nil, err
	}

	return &Parsing{Header: hdr, Separator: sep}, nil
}

// parseModernLine decodes a single-line header.
//
// The line is split on ASCII 28 if it contains one, comma otherwise; the
// header line predates dialect detection, so it carries its own delimiter
// hint. Positional fields: HDR marker, "FEC" literal, version, then the
// optional software name, software version, report id and report number.
func parseModernLine(line string) (types.Header, error) {
	delim := ","
	if strings.ContainsRune(line, '\x1c') {
		delim = "\x1c"
	}

	parts := strings.Split(line, delim)
	for i := range parts {
		parts[i] = cleanField(parts[i])
	}

	if len(parts) < 3 {
		return types.Header{}, &ParseError{
			Reason: "expected at least 3 fields (HDR, FEC, version)",
			Line:   line,
		}
	}
	if !strings.EqualFold(parts[0], "HDR") {
		return types.Header{}, &ParseError{
			Reason: fmt.Sprintf("first field is %q, want HDR", parts[0]),
			Line:   line,
		}
	}
	if !strings.EqualFold(parts[1], "FEC") {
		return types.Header{}, &ParseError{
			Reason: fmt.Sprintf("second field is %q, want FEC", parts[1]),
			Line:   line,
		}
	}

	hdr := types.Header{FECVersion: parts[2]}
	if len(parts) > 3 {
		hdr.SoftwareName = parts[3]
	}
	if len(parts) > 4 {
		hdr.SoftwareVersion = parts[4]
	}
	if len(parts) > 5 {
		hdr.ReportID = parts[5]
	}
	if len(parts) > 6 {
		hdr.ReportNumber = parts[6]
	}

	return hdr, nil
}

// parseLegacyBlock decodes the comment-style header block used by format
// versions 1 and 2. The opening "/* Header" line has already been consumed;
// this reads "Key = Value" lines until the "/* End Header" marker.
func parseLegacyBlock(r *bufio.Reader) (types.Header, error) {
	var hdr types.Header

	for {
		line, err := readLine(r)
		if err != nil {
			return types.Header{}, &ParseError{
				Reason: "legacy header block not terminated",
				Err:    err,
			}
		}

		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, legacyHeaderStart) {
			// "/* End Header" closes the block.
			break
		}

		key, value, found := strings.Cut(trimmed, "=")
		if !found {
			// Blank or free-form comment lines inside the block are ignored.
			continue
		}

		key = strings.TrimSpace(key)
		value = cleanField(value)

		switch strings.ToUpper(key) {
		case "FEC_VER_#":
			hdr.FECVersion = value
		case "SOFT_NAME":
			hdr.SoftwareName = value
		case "SOFT_VER":
			hdr.SoftwareVersion = value
		case "REPORT_ID":
			hdr.ReportID = value
		case "REPORT_NUMBER":
			hdr.ReportNumber = value
		}
	}

	if hdr.FECVersion == "" {
		return types.Header{}, &ParseError{Reason: "legacy header block has no FEC_Ver_#"}
	}

	return hdr, nil
}

// separatorForVersion classifies a version token against the separator
// threshold.
func separatorForVersion(version string) (types.Separator, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(version), 64)
	if err != nil {
		return types.Comma, &ParseError{
			Reason: fmt.Sprintf("unrecognized version token %q", version),
			Err:    err,
		}
	}
	if v >= UnitSeparatorVersion {
		return types.UnitSeparator, nil
	}
	return types.Comma, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// readLine reads one logical line, tolerating \n and \r\n endings.
// Only the header is read this way; body lines belong to the tokenizer.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// cleanField trims whitespace and the surrounding double quotes some filing
// software wraps header fields in.
func cleanField(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"`)
	return strings.TrimSpace(s)
}
