// =============================================================================
// FEC to CSV Converter - Default Logger
// =============================================================================
//
// A minimal leveled logger printing "[LEVEL] message" lines to stdout.
// CUSTOMIZATION: Implement types.Logger with your preferred logging library
// and pass it via fecfile.WithLogger.
//
// =============================================================================

package converter

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/FEC-to-CSV-conversion/internal/types"
)

// logLevel orders the levels for filtering.
var logLevels = map[string]int{
	"debug": 0,
	"info":  1,
	"warn":  2,
	"error": 3,
}

// stdoutLogger is a simple logger that prints to stdout.
type stdoutLogger struct {
	min int
}

// NewLogger creates a stdout logger filtered at the given level.
// Unknown level names fall back to "info".
func NewLogger(level string) types.Logger {
	min, ok := logLevels[strings.ToLower(level)]
	if !ok {
		min = logLevels["info"]
	}
	return &stdoutLogger{min: min}
}

func (l *stdoutLogger) log(level int, tag, msg string, args []interface{}) {
	if level < l.min {
		return
	}
	fmt.Printf("["+tag+"] "+msg+"\n", args...)
}

func (l *stdoutLogger) Debug(msg string, args ...interface{}) { l.log(0, "DEBUG", msg, args) }
func (l *stdoutLogger) Info(msg string, args ...interface{})  { l.log(1, "INFO", msg, args) }
func (l *stdoutLogger) Warn(msg string, args ...interface{})  { l.log(2, "WARN", msg, args) }
func (l *stdoutLogger) Error(msg string, args ...interface{}) { l.log(3, "ERROR", msg, args) }
