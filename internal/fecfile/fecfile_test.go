package fecfile

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ginjaninja78/FEC-to-CSV-conversion/internal/header"
	"github.com/ginjaninja78/FEC-to-CSV-conversion/internal/record"
	"github.com/ginjaninja78/FEC-to-CSV-conversion/internal/schemas"
	"github.com/ginjaninja78/FEC-to-CSV-conversion/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ascii28File builds a version 8.3 filing with the given body lines.
func ascii28File(bodyLines ...string) string {
	var b strings.Builder
	b.WriteString("HDR\x1cFEC\x1c8.3\x1cFECfile\x1c8.3.0.0\n")
	for _, line := range bodyLines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func a28(fields ...string) string {
	return strings.Join(fields, "\x1c")
}

func TestHeaderAndSeparator(t *testing.T) {
	f := New(strings.NewReader(ascii28File(a28("F3XN", "C00123456"))))

	h, err := f.Header()
	require.NoError(t, err)
	assert.Equal(t, "8.3", h.FECVersion)
	assert.Equal(t, "FECfile", h.SoftwareName)

	sep, err := f.Separator()
	require.NoError(t, err)
	assert.Equal(t, types.UnitSeparator, sep)
}

// countingReader counts calls into Read, exposing whether a consumer went
// back to the source.
type countingReader struct {
	r     io.Reader
	reads int
}

func (c *countingReader) Read(p []byte) (int, error) {
	c.reads++
	return c.r.Read(p)
}

func TestHeaderIsMemoized(t *testing.T) {
	src := &countingReader{r: strings.NewReader(ascii28File(a28("F3XN", "C00123456")))}
	f := New(src)

	first, err := f.Header()
	require.NoError(t, err)
	after := src.reads

	for i := 0; i < 5; i++ {
		again, err := f.Header()
		require.NoError(t, err)
		assert.Same(t, first, again)
	}
	assert.Equal(t, after, src.reads, "repeated Header calls must do no extra I/O")
}

func TestCoverIsParsedLazilyAndOnce(t *testing.T) {
	f := New(strings.NewReader(ascii28File(
		a28("F3XN", "C00123456", "Friends of Example"),
		a28("SA11AI", "C00123456", "T001"),
	)))

	cover, err := f.Cover()
	require.NoError(t, err)
	assert.Equal(t, "F3XN", cover.FormType)
	assert.Equal(t, "C00123456", cover.FilerCommitteeID)

	again, err := f.Cover()
	require.NoError(t, err)
	assert.Same(t, cover, again)

	// The cover is not replayed as a body record.
	rec, err := f.NextRecord()
	require.NoError(t, err)
	assert.Equal(t, "SA11AI", rec.Code())
}

func TestRecordsComeBackInFileOrder(t *testing.T) {
	f := New(strings.NewReader(ascii28File(
		a28("F3XN", "C00123456"),
		a28("SA11AI", "C00123456", "T001"),
		a28("SB21B", "C00123456", "T002"),
		a28("SA11AI", "C00123456", "T003"),
		a28("TEXT", "C00123456", "T004"),
	)))

	var codes []string
	for {
		rec, err := f.NextRecord()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		codes = append(codes, rec.Code())
	}
	assert.Equal(t, []string{"SA11AI", "SB21B", "SA11AI", "TEXT"}, codes)
}

func TestEOFIsTerminal(t *testing.T) {
	f := New(strings.NewReader(ascii28File(
		a28("F3XN", "C00123456"),
		a28("TEXT", "C00123456", "T001"),
	)))

	_, err := f.NextRecord()
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = f.NextRecord()
		assert.Equal(t, io.EOF, err, "once the stream ends it stays ended")
	}
}

func TestUnknownCodeDoesNotKillTheStream(t *testing.T) {
	f := New(strings.NewReader(ascii28File(
		a28("F3XN", "C00123456"),
		a28("ZZ99", "C00123456"),
		a28("TEXT", "C00123456", "T001"),
	)))

	_, err := f.NextRecord()
	var notFound *schemas.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "ZZ99", notFound.Code)

	rec, err := f.NextRecord()
	require.NoError(t, err, "one bad record must not terminate the stream")
	assert.Equal(t, "TEXT", rec.Code())

	_, err = f.NextRecord()
	assert.Equal(t, io.EOF, err)
}

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

func TestCoercionFailureIsRecordScoped(t *testing.T) {
	registry := &stubRegistry{schemas: map[string]*types.LineSchema{
		"F3XN": {Code: "F3XN", Fields: []types.FieldSchema{
			{Name: "form_type", Kind: types.KindString},
			{Name: "filer_committee_id_number", Kind: types.KindString},
		}},
		"SA11AI": {Code: "SA11AI", Fields: []types.FieldSchema{
			{Name: "form_type", Kind: types.KindString},
			{Name: "amount", Kind: types.KindFloat},
		}},
	}}

	f := New(strings.NewReader(ascii28File(
		a28("F3XN", "C00123456"),
		a28("SA11AI", "not-a-number"),
		a28("SA11AI", "250.00"),
	)), WithRegistry(registry))

	_, err := f.NextRecord()
	var parseErr *record.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "amount", parseErr.Field)

	rec, err := f.NextRecord()
	require.NoError(t, err)
	v, ok := rec.Get("amount")
	require.True(t, ok)
	assert.Equal(t, 250.00, v.Float)
}

func TestAscii28BodyKeepsLiteralCommasAndQuotes(t *testing.T) {
	f := New(strings.NewReader(ascii28File(
		a28("F3XN", "C00123456"),
		a28("TEXT", "C00123456", "T001", "", "SA11AI",
			`He said "thanks", twice`),
	)))

	rec, err := f.NextRecord()
	require.NoError(t, err)

	text, ok := rec.Get("text4000")
	require.True(t, ok)
	assert.Equal(t, `He said "thanks", twice`, text.Str)
}

func TestCommaDialectFiling(t *testing.T) {
	input := strings.Join([]string{
		"HDR,FEC,5.00,FECfile,5.2",
		"F3N,C00123456,Friends of Example",
		`SA11,C00123456,IND,"Smith, John",123 Main St,,Springfield,IL,62701,P,20240115,250.00,250.00`,
	}, "\n") + "\n"

	f := New(strings.NewReader(input))

	sep, err := f.Separator()
	require.NoError(t, err)
	assert.Equal(t, types.Comma, sep)

	cover, err := f.Cover()
	require.NoError(t, err)
	assert.Equal(t, "F3N", cover.FormType)

	rec, err := f.NextRecord()
	require.NoError(t, err)
	assert.Equal(t, "SA11", rec.Code())

	name, ok := rec.Get("contributor_name")
	require.True(t, ok)
	assert.Equal(t, "Smith, John", name.Str, "quoted commas are data under the comma dialect")

	amount, ok := rec.Get("contribution_amount")
	require.True(t, ok)
	assert.Equal(t, 250.00, amount.Float)
}

func TestFilingWithNoBody(t *testing.T) {
	f := New(strings.NewReader("HDR\x1cFEC\x1c8.3\n"))

	_, err := f.Cover()
	var coverErr *CoverError
	require.ErrorAs(t, err, &coverErr)

	// The failure is memoized and every body access reports it.
	_, err2 := f.NextRecord()
	assert.Equal(t, err, err2)
}

func TestHeaderFailureIsMemoizedAndFatal(t *testing.T) {
	f := New(strings.NewReader("not a filing at all\n"))

	_, err := f.Header()
	var parseErr *header.ParseError
	require.ErrorAs(t, err, &parseErr)

	_, err2 := f.Header()
	assert.Equal(t, err, err2)

	_, err3 := f.NextRecord()
	require.ErrorAs(t, err3, &parseErr, "body access surfaces the same header failure")
}

func TestFromPathAndClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filing.fec")
	content := ascii28File(
		a28("F3XN", "C00123456"),
		a28("TEXT", "C00123456", "T001"),
	)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	f, err := FromPath(path)
	require.NoError(t, err)

	cover, err := f.Cover()
	require.NoError(t, err)
	assert.Equal(t, "F3XN", cover.FormType)

	require.NoError(t, f.Close())
	require.NoError(t, f.Close(), "Close is idempotent")
}

func TestFromPathMissingFile(t *testing.T) {
	_, err := FromPath(filepath.Join(t.TempDir(), "nope.fec"))
	assert.Error(t, err)
}
