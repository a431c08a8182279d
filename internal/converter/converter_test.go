package converter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ginjaninja78/FEC-to-CSV-conversion/internal/config"
	"github.com/ginjaninja78/FEC-to-CSV-conversion/internal/schemas"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// a filing with a cover, two receipts, one disbursement and a memo line
var testFiling = strings.Join([]string{
	"HDR\x1cFEC\x1c8.3\x1cFECfile\x1c8.3.0.0",
	"F3XN\x1cC00123456\x1cFriends of Example",
	"SA11AI\x1cC00123456\x1cT001",
	"SA11AI\x1cC00123456\x1cT002",
	"SB21B\x1cC00123456\x1cT003",
	"TEXT\x1cC00123456\x1cT004",
}, "\n") + "\n"

func testConfig(t *testing.T) *config.MainConfig {
	t.Helper()
	base := t.TempDir()
	cfg := config.DefaultMainConfig()
	cfg.InputDir = filepath.Join(base, "input")
	cfg.OutputDir = filepath.Join(base, "output")
	cfg.InputArchiveDir = filepath.Join(base, "archive")
	cfg.OutputNameFormat = "{name}"
	require.NoError(t, os.MkdirAll(cfg.InputDir, 0o755))
	return cfg
}

func writeFiling(t *testing.T, cfg *config.MainConfig, name, content string) string {
	t.Helper()
	path := filepath.Join(cfg.InputDir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConvertToCSV(t *testing.T) {
	cfg := testConfig(t)
	path := writeFiling(t, cfg, "filing.fec", testFiling)

	result := New(path, cfg, schemas.Default(), uuid.New()).Run()

	require.NoError(t, result.Error)
	assert.True(t, result.Success)
	assert.Equal(t, "8.3", result.Stats.FECVersion)
	assert.Equal(t, "F3XN", result.Stats.FormType)
	assert.Equal(t, 5, result.Stats.RecordsWritten, "cover plus four body records")
	assert.Equal(t, 0, result.Stats.RecordsSkipped)
	assert.Equal(t, map[string]int{
		"F3XN":   1,
		"SA11AI": 2,
		"SB21B":  1,
		"TEXT":   1,
	}, result.Stats.RecordsByCode)

	outDir := filepath.Join(cfg.OutputDir, "filing")
	assert.Equal(t, outDir, result.OutputPath)
	for _, code := range []string{"F3XN", "SA11AI", "SB21B", "TEXT"} {
		_, err := os.Stat(filepath.Join(outDir, code+".csv"))
		assert.NoError(t, err, "expected %s.csv", code)
	}

	// The processed filing is moved to the archive.
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(cfg.InputArchiveDir, "filing.fec"))
	assert.NoError(t, err)
}

func TestConvertToXLSX(t *testing.T) {
	cfg := testConfig(t)
	cfg.OutputFormat = "xlsx"
	path := writeFiling(t, cfg, "filing.fec", testFiling)

	result := New(path, cfg, schemas.Default(), uuid.New()).Run()

	require.NoError(t, result.Error)
	assert.Equal(t, filepath.Join(cfg.OutputDir, "filing.xlsx"), result.OutputPath)

	book, err := excelize.OpenFile(result.OutputPath)
	require.NoError(t, err)
	defer book.Close()
	assert.ElementsMatch(t, []string{"F3XN", "SA11AI", "SB21B", "TEXT"}, book.GetSheetList())
}

func TestSkipBadRecords(t *testing.T) {
	filing := strings.Join([]string{
		"HDR\x1cFEC\x1c8.3",
		"F3XN\x1cC00123456",
		"ZZ99\x1cC00123456",
		"TEXT\x1cC00123456\x1cT001",
	}, "\n") + "\n"

	cfg := testConfig(t)
	path := writeFiling(t, cfg, "filing.fec", filing)

	result := New(path, cfg, schemas.Default(), uuid.New()).Run()

	require.NoError(t, result.Error)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Stats.RecordsWritten, "cover and the TEXT record")
	assert.Equal(t, 1, result.Stats.RecordsSkipped)
}

func TestAbortOnBadRecord(t *testing.T) {
	filing := strings.Join([]string{
		"HDR\x1cFEC\x1c8.3",
		"F3XN\x1cC00123456",
		"ZZ99\x1cC00123456",
	}, "\n") + "\n"

	cfg := testConfig(t)
	cfg.SkipBadRecords = false
	path := writeFiling(t, cfg, "filing.fec", filing)

	result := New(path, cfg, schemas.Default(), uuid.New()).Run()

	assert.False(t, result.Success)
	require.Error(t, result.Error)
	assert.Contains(t, result.Error.Error(), "ZZ99")

	// Failed filings stay in the input directory.
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestHeaderFailureFailsTheFiling(t *testing.T) {
	cfg := testConfig(t)
	path := writeFiling(t, cfg, "bad.fec", "this is not a filing\n")

	result := New(path, cfg, schemas.Default(), uuid.New()).Run()

	assert.False(t, result.Success)
	require.Error(t, result.Error)
	assert.Contains(t, result.Error.Error(), "header")
}

func TestMissingCoverFailsTheFiling(t *testing.T) {
	cfg := testConfig(t)
	path := writeFiling(t, cfg, "empty.fec", "HDR\x1cFEC\x1c8.3\n")

	result := New(path, cfg, schemas.Default(), uuid.New()).Run()

	assert.False(t, result.Success)
	require.Error(t, result.Error)
	assert.Contains(t, result.Error.Error(), "cover")
}

func TestArchivingDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.ArchiveInputs = false
	path := writeFiling(t, cfg, "filing.fec", testFiling)

	result := New(path, cfg, schemas.Default(), uuid.New()).Run()

	require.NoError(t, result.Error)
	_, err := os.Stat(path)
	assert.NoError(t, err, "input stays put when archiving is off")
}

func TestMissingInputFile(t *testing.T) {
	cfg := testConfig(t)

	result := New(filepath.Join(cfg.InputDir, "nope.fec"), cfg, schemas.Default(), uuid.New()).Run()

	assert.False(t, result.Success)
	assert.Error(t, result.Error)
}
