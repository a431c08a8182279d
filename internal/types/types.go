// =============================================================================
// FEC to CSV Converter - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - header (produces Header, Separator)
//   - tokenizer (consumes Separator)
//   - record (produces Record, Cover; consumes LineSchema via SchemaRegistry)
//   - fecfile (caches Header and Cover, streams Records)
//   - writers (consumes Records)
//
// =============================================================================

package types

import (
	"strconv"
	"strings"
)

// =============================================================================
// SEPARATOR (DIALECT)
// =============================================================================

// Separator is the field separator in effect for the body of a filing.
//
// Filings at format version 6 and above use the ASCII 28 control byte instead
// of a comma, so that commas embedded in free-text fields (occupation,
// employer, memo text) cannot corrupt field boundaries. The separator is
// derived from the version declared in the header, never stored in the file
// itself.
type Separator int

const (
	// Comma is the separator for filings before format version 6.
	Comma Separator = iota

	// UnitSeparator is the ASCII 28 control byte used by format version 6
	// and above.
	UnitSeparator
)

// Rune returns the separator as a rune, suitable for configuring a tokenizer.
func (s Separator) Rune() rune {
	if s == UnitSeparator {
		return '\x1c'
	}
	return ','
}

// String returns a human-readable name for the separator.
func (s Separator) String() string {
	if s == UnitSeparator {
		return "ascii28"
	}
	return "comma"
}

// =============================================================================
// HEADER
// =============================================================================

// Header holds the decoded first line of a .fec filing.
// It is immutable once parsed; the orchestrator caches it for the lifetime
// of the file.
type Header struct {
	// FECVersion is the declared format version, e.g. "8.3".
	// Every later decoding step is keyed on this value.
	FECVersion string

	// SoftwareName is the name of the software that produced the filing,
	// e.g. "FECfile" or "NGP".
	SoftwareName string

	// SoftwareVersion is the version of that software. May be empty.
	SoftwareVersion string

	// ReportID is set on amended filings and identifies the original
	// report being amended. May be empty.
	ReportID string

	// ReportNumber is the amendment number. May be empty.
	ReportNumber string
}

// =============================================================================
// VALUES
// =============================================================================

// ValueKind identifies which member of a Value is meaningful.
type ValueKind int

const (
	KindString ValueKind = iota
	KindInteger
	KindFloat
	KindDate
	KindBoolean
)

// String returns the schema name of the kind, matching the type names used
// in the schema database.
func (k ValueKind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindDate:
		return "date"
	case KindBoolean:
		return "boolean"
	default:
		return "string"
	}
}

// ParseValueKind maps a schema type name to a ValueKind.
// Unknown names fall back to string, the most tolerant interpretation.
func ParseValueKind(name string) ValueKind {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "integer", "int":
		return KindInteger
	case "float", "number":
		return KindFloat
	case "date":
		return KindDate
	case "boolean", "bool":
		return KindBoolean
	default:
		return KindString
	}
}

// Value is a decoded field value: a tagged union over the five value kinds.
//
// Date values are deliberately left as text. Filing dates appear in several
// layouts across format versions and are not calendar-validated here; a Date
// is a labeled string.
type Value struct {
	Kind ValueKind

	// Str holds the value for KindString and KindDate.
	Str string

	// Int holds the value for KindInteger.
	Int int64

	// Float holds the value for KindFloat.
	Float float64

	// Bool holds the value for KindBoolean.
	Bool bool
}

// StringValue creates a Value of KindString.
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// DateValue creates a Value of KindDate.
func DateValue(s string) Value { return Value{Kind: KindDate, Str: s} }

// IntegerValue creates a Value of KindInteger.
func IntegerValue(i int64) Value { return Value{Kind: KindInteger, Int: i} }

// FloatValue creates a Value of KindFloat.
func FloatValue(f float64) Value { return Value{Kind: KindFloat, Float: f} }

// BooleanValue creates a Value of KindBoolean.
func BooleanValue(b bool) Value { return Value{Kind: KindBoolean, Bool: b} }

// String renders the value as text, the form used by the CSV and XLSX writers.
func (v Value) String() string {
	switch v.Kind {
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	case KindBoolean:
		return strconv.FormatBool(v.Bool)
	default:
		return v.Str
	}
}

// =============================================================================
// SCHEMAS
// =============================================================================

// FieldSchema describes one expected field of a record: its name and the
// type its raw text should be coerced to.
type FieldSchema struct {
	Name string
	Kind ValueKind
}

// LineSchema describes the expected ordered field list for one record type
// code under one format version.
type LineSchema struct {
	// Code is the record type code, e.g. "F3XN" or "SA11AI".
	Code string

	// Fields is the ordered expected field list, including the leading
	// form_type column, so Fields[i] describes Record.Values[i].
	Fields []FieldSchema
}

// Equal reports whether two schemas describe the same record type.
//
// Identity is the code alone: a registry indexed by code must treat the
// field list as derived data, not identifying data.
func (s *LineSchema) Equal(other *LineSchema) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.Code == other.Code
}

// FieldNames returns the ordered field names, used by writers as column
// headers.
func (s *LineSchema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// SchemaRegistry is the lookup contract consumed by the record decoder.
//
// Lookup returns the expected field schema for a record type code under a
// given format version, or an error (schemas.NotFoundError) when the
// (version, code) pair is unknown. The registry is read-only from the
// decoder's perspective; the same code may map to different field lists
// across versions, and the registry owns that mapping.
type SchemaRegistry interface {
	Lookup(version, code string) (*LineSchema, error)
}

// =============================================================================
// RECORDS
// =============================================================================

// Record is one decoded body line of a filing.
type Record struct {
	// Schema is the schema the record was decoded against.
	Schema *LineSchema

	// Values are the decoded field values, in file order. Values[0] is the
	// record's type code.
	//
	// Values may hold fewer or more entries than Schema.Fields declares:
	// filings drift from the published schemas, and width mismatches are
	// tolerated by design. Extra trailing values carry the synthetic
	// "extra" field schema.
	Values []Value
}

// Code returns the record's type code.
func (r *Record) Code() string {
	return r.Schema.Code
}

// Get returns the value for a named schema field, or false if the schema
// does not declare the field or the record was too short to fill it.
func (r *Record) Get(name string) (Value, bool) {
	for i, f := range r.Schema.Fields {
		if f.Name == name {
			if i < len(r.Values) {
				return r.Values[i], true
			}
			return Value{}, false
		}
	}
	return Value{}, false
}

// =============================================================================
// COVER
// =============================================================================

// Cover is the first body record of a filing, carrying filing-level summary
// data. Structurally it is an ordinary Record, but it is surfaced as its own
// type because callers always want it and it is always record #1 of the body.
type Cover struct {
	// Record is the fully decoded cover record.
	Record *Record

	// FormType is the filing's form code, e.g. "F3XN".
	FormType string

	// FilerCommitteeID is the committee identifier from the cover, e.g.
	// "C00123456". Empty if the schema does not carry the field.
	FilerCommitteeID string
}

// =============================================================================
// LOGGING
// =============================================================================

// Logger is an interface for logging.
// CUSTOMIZATION: Implement this interface with your preferred logging library.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// NopLogger is a Logger that discards everything. It is the default for
// library callers that do not care about decode anomalies.
type NopLogger struct{}

func (NopLogger) Debug(msg string, args ...interface{}) {}
func (NopLogger) Info(msg string, args ...interface{})  {}
func (NopLogger) Warn(msg string, args ...interface{})  {}
func (NopLogger) Error(msg string, args ...interface{}) {}
