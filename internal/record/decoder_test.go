package record

import (
	"fmt"
	"testing"

	"github.com/ginjaninja78/FEC-to-CSV-conversion/internal/schemas"
	"github.com/ginjaninja78/FEC-to-CSV-conversion/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRegistry serves fixed schemas keyed by code, ignoring the version.
type stubRegistry struct {
	schemas map[string]*types.LineSchema
}

func (r *stubRegistry) Lookup(version, code string) (*types.LineSchema, error) {
	if s, ok := r.schemas[code]; ok {
		return s, nil
	}
	return nil, &schemas.NotFoundError{Version: version, Code: code}
}

// capturingLogger records warning lines so tests can assert on anomalies.
type capturingLogger struct {
	types.Logger
	warnings []string
}

func (l *capturingLogger) Warn(format string, args ...any) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

func newCapturingLogger() *capturingLogger {
	return &capturingLogger{Logger: types.NopLogger{}}
}

func testRegistry() *stubRegistry {
	return &stubRegistry{schemas: map[string]*types.LineSchema{
		"SA11AI": {
			Code: "SA11AI",
			Fields: []types.FieldSchema{
				{Name: "form_type", Kind: types.KindString},
				{Name: "filer_committee_id_number", Kind: types.KindString},
				{Name: "contributor_last_name", Kind: types.KindString},
				{Name: "contribution_date", Kind: types.KindDate},
				{Name: "contribution_amount", Kind: types.KindFloat},
				{Name: "election_cycle", Kind: types.KindInteger},
			},
		},
	}}
}

func TestDecodeWellFormedRecord(t *testing.T) {
	raw := []string{"SA11AI", "C00123456", "Smith", "20240115", "250.00", "2024"}

	rec, err := Decode("8.3", raw, testRegistry(), newCapturingLogger())
	require.NoError(t, err)

	require.Len(t, rec.Values, 6)
	assert.Equal(t, "SA11AI", rec.Code())
	assert.Equal(t, types.KindString, rec.Values[0].Kind)

	amount, ok := rec.Get("contribution_amount")
	require.True(t, ok)
	assert.Equal(t, types.KindFloat, amount.Kind)
	assert.Equal(t, 250.00, amount.Float)

	cycle, ok := rec.Get("election_cycle")
	require.True(t, ok)
	assert.Equal(t, int64(2024), cycle.Int)

	date, ok := rec.Get("contribution_date")
	require.True(t, ok)
	assert.Equal(t, "20240115", date.Str)
}

func TestDecodeRowLongerThanSchema(t *testing.T) {
	raw := []string{"SA11AI", "C00123456", "Smith", "20240115", "250.00", "2024",
		"surplus one", "surplus two"}
	logger := newCapturingLogger()

	rec, err := Decode("8.3", raw, testRegistry(), logger)
	require.NoError(t, err, "a row longer than its schema is never an error")

	require.Len(t, rec.Values, 8)
	assert.Equal(t, types.KindString, rec.Values[6].Kind)
	assert.Equal(t, "surplus one", rec.Values[6].Str)
	assert.Equal(t, "surplus two", rec.Values[7].Str)
	assert.Empty(t, logger.warnings)
}

func TestDecodeRowShorterThanSchema(t *testing.T) {
	raw := []string{"SA11AI", "C00123456", "Smith"}
	logger := newCapturingLogger()

	rec, err := Decode("8.3", raw, testRegistry(), logger)
	require.NoError(t, err, "a row shorter than its schema is an anomaly, not an error")

	assert.Len(t, rec.Values, 3, "no filler values are synthesized")
	require.Len(t, logger.warnings, 1)
	assert.Contains(t, logger.warnings[0], "SA11AI")

	_, ok := rec.Get("contribution_amount")
	assert.False(t, ok, "fields with no value are simply absent")
}

func TestDecodeCoercionFailure(t *testing.T) {
	raw := []string{"SA11AI", "C00123456", "Smith", "20240115", "two hundred", "2024"}

	_, err := Decode("8.3", raw, testRegistry(), newCapturingLogger())

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "SA11AI", parseErr.Code)
	assert.Equal(t, "contribution_amount", parseErr.Field)
	assert.Equal(t, 4, parseErr.Index)
}

func TestDecodeEmptyNumericFieldFails(t *testing.T) {
	// Blank amounts are schema drift the caller should see, not silent zeros.
	raw := []string{"SA11AI", "C00123456", "Smith", "20240115", "", "2024"}

	_, err := Decode("8.3", raw, testRegistry(), newCapturingLogger())

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "contribution_amount", parseErr.Field)
}

func TestDecodeUnknownCode(t *testing.T) {
	raw := []string{"ZZ99", "C00123456"}

	_, err := Decode("8.3", raw, testRegistry(), newCapturingLogger())

	var notFound *schemas.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "ZZ99", notFound.Code)
}

func TestDecodeMissingCode(t *testing.T) {
	for _, raw := range [][]string{nil, {}, {""}} {
		_, err := Decode("8.3", raw, testRegistry(), newCapturingLogger())
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
	}
}

func coverRegistry() *stubRegistry {
	return &stubRegistry{schemas: map[string]*types.LineSchema{
		"F3XN": {
			Code: "F3XN",
			Fields: []types.FieldSchema{
				{Name: "form_type", Kind: types.KindString},
				{Name: "filer_committee_id_number", Kind: types.KindString},
				{Name: "committee_name", Kind: types.KindString},
			},
		},
		"F3": {
			Code: "F3",
			Fields: []types.FieldSchema{
				{Name: "form_type", Kind: types.KindString},
				{Name: "filer_committee_id", Kind: types.KindString},
			},
		},
	}}
}

func TestDecodeCover(t *testing.T) {
	raw := []string{"F3XN", "C00123456", "Friends of Example"}

	cover, err := DecodeCover("8.3", raw, coverRegistry(), newCapturingLogger())
	require.NoError(t, err)

	assert.Equal(t, "F3XN", cover.FormType)
	assert.Equal(t, "C00123456", cover.FilerCommitteeID)
	require.NotNil(t, cover.Record)
	assert.Len(t, cover.Record.Values, 3)
}

func TestDecodeCoverLegacyCommitteeIDField(t *testing.T) {
	raw := []string{"F3", "C00987654"}

	cover, err := DecodeCover("5.00", raw, coverRegistry(), newCapturingLogger())
	require.NoError(t, err)

	assert.Equal(t, "C00987654", cover.FilerCommitteeID)
}

func TestDecodeCoverUnknownForm(t *testing.T) {
	_, err := DecodeCover("8.3", []string{"F99", "C00123456"}, coverRegistry(), newCapturingLogger())

	var notFound *schemas.NotFoundError
	require.ErrorAs(t, err, &notFound)
}
