// =============================================================================
// FEC to CSV Converter - Record Decoder Module
// =============================================================================
//
// This module decodes one tokenized body record into typed values using the
// schema registry. The first raw field of every record is its type code; it
// is both data (stored back as the first decoded value) and the key used,
// together with the format version, to look up the expected field list.
//
// TOLERANT DECODING:
//   Filings are not strictly validated at write time, so the schema's field
//   list and the record's actual width frequently disagree. The decoder
//   walks the two sequences in lock-step and never fails on width alone:
//     - More raw fields than the schema declares: the surplus decodes
//       against a synthetic {name: "extra", type: string} field.
//     - Fewer raw fields than the schema declares: the shortfall is logged
//       as an anomaly and the record succeeds with fewer values; no filler
//       values are synthesized.
//   Only two things fail a record, and each fails that record alone: a
//   registry miss (schemas.NotFoundError) and a genuine type-coercion
//   failure on an integer, float or boolean field.
//
// =============================================================================

package record

import (
	"fmt"
	"strconv"

	"github.com/ginjaninja78/FEC-to-CSV-conversion/internal/types"
)

// =============================================================================
// ERROR TYPE
// =============================================================================

// ParseError reports a type-coercion failure on a single field. It is fatal
// for the record it occurred in, and for that record only: the stream stays
// live and the caller may pull the next record.
type ParseError struct {
	// Code is the record's type code.
	Code string

	// Field is the name of the schema field that failed to coerce.
	Field string

	// Index is the zero-based position of the field within the record.
	Index int

	// Err is the underlying coercion error.
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("record %s: field %q (index %d): %v", e.Code, e.Field, e.Index, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// =============================================================================
// DECODER FUNCTIONS
// =============================================================================

// extraField is the synthetic schema used for raw fields beyond the declared
// field list. A row is never rejected solely for being too long.
var extraField = types.FieldSchema{Name: "extra", Kind: types.KindString}

// Decode decodes one raw record.
//
// PARAMETERS:
//   - version: The filing's declared format version, from the header.
//   - raw: The ordered raw field strings of one tokenized record.
//   - registry: The schema lookup table.
//   - logger: Receives the non-fatal "row shorter than schema" anomaly.
//
// RETURNS:
//   - The decoded record. Values holds exactly one entry per raw field
//     present, which may be fewer or more than the schema declares.
//   - A *schemas.NotFoundError when the registry has no entry for the
//     record's code, or a *ParseError on a type-coercion failure.
func Decode(version string, raw []string, registry types.SchemaRegistry, logger types.Logger) (*types.Record, error) {
	if len(raw) == 0 || raw[0] == "" {
		return nil, &ParseError{
			Code:  "",
			Field: "form_type",
			Index: 0,
			Err:   fmt.Errorf("record has no type code"),
		}
	}

	code := raw[0]
	schema, err := registry.Lookup(version, code)
	if err != nil {
		return nil, err
	}

	values := make([]types.Value, 0, len(raw))

	// The code itself is the first decoded value. It decoded the moment the
	// registry recognized it, so it is stored as plain text regardless of
	// what the schema's leading column says.
	values = append(values, types.StringValue(schema.Code))

	for i := 1; i < len(raw); i++ {
		fieldSchema := extraField
		if i < len(schema.Fields) {
			fieldSchema = schema.Fields[i]
		}

		value, err := coerce(raw[i], fieldSchema.Kind)
		if err != nil {
			return nil, &ParseError{
				Code:  schema.Code,
				Field: fieldSchema.Name,
				Index: i,
				Err:   err,
			}
		}
		values = append(values, value)
	}

	// Row shorter than the schema: an anomaly worth logging, never an error.
	if missing := len(schema.Fields) - len(raw); missing > 0 {
		logger.Warn("record %s: %d trailing schema field(s) have no value", schema.Code, missing)
	}

	return &types.Record{Schema: schema, Values: values}, nil
}

// coerce converts one raw text field to its declared type.
//
// String and Date pass through as text. Integer, Float and Boolean use
// standard parsing and fail on anything unrecognizable, including the empty
// string: a blank amount field is schema drift the caller should see, not
// silently zero.
func coerce(raw string, kind types.ValueKind) (types.Value, error) {
	switch kind {
	case types.KindInteger:
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return types.Value{}, fmt.Errorf("cannot parse %q as integer", raw)
		}
		return types.IntegerValue(i), nil

	case types.KindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return types.Value{}, fmt.Errorf("cannot parse %q as float", raw)
		}
		return types.FloatValue(f), nil

	case types.KindBoolean:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return types.Value{}, fmt.Errorf("cannot parse %q as boolean", raw)
		}
		return types.BooleanValue(b), nil

	case types.KindDate:
		return types.DateValue(raw), nil

	default:
		return types.StringValue(raw), nil
	}
}
