package logger

import (
	"io"
	"sync"

	"github.com/fatih/color" // Import the fatih/color package for colored console output
)

// Output is where every log line is written. It defaults to color.Output, which
// handles Windows consoles, and can be replaced (for example in tests).
var Output io.Writer = color.Output

// Colorized printing functions for the different log levels.
// Each behaves like fmt.Fprintf with the text colored for its level.
var (
	infoPrinter  = color.New(color.FgGreen).FprintfFunc()
	warnPrinter  = color.New(color.FgHiMagenta).FprintfFunc()
	errorPrinter = color.New(color.FgRed).FprintfFunc()
	debugPrinter = color.New(color.FgCyan).FprintfFunc()
)

// debugEnabled is toggled by Init. Debug is a no-op while it is false.
var debugEnabled bool

// Info logs informational messages in green color.
func Info(format string, a ...any) {
	infoPrinter(Output, format, a...)
}

// Warn logs warning messages in bright magenta color.
func Warn(format string, a ...any) {
	warnPrinter(Output, format, a...)
}

// Error logs error messages in red color.
func Error(format string, a ...any) {
	errorPrinter(Output, format, a...)
}

// Debug logs debug messages in cyan color if enabled, otherwise it does nothing.
func Debug(format string, a ...any) {
	if debugEnabled {
		debugPrinter(Output, format, a...)
	}
}

// Init initializes the logger package, specifically enabling or disabling debug logging.
// Parameters:
// - enableDebug: boolean flag to turn debug messages on or off.
func Init(enableDebug bool) {
	debugEnabled = enableDebug
}

// PathCache suppresses repeated "found at" log lines for executable discovery.
// Discovery runs before every CLI invocation, so without it the same path would be
// logged on every command. The zero value is ready to use.
type PathCache struct {
	mu   sync.Mutex
	last map[string]string
}

// Found logs that the executable kind was found at path, unless the same path was
// the last one logged for that kind. It reports whether a line was written.
func (c *PathCache) Found(kind, path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.last == nil {
		c.last = make(map[string]string)
	}
	if c.last[kind] == path {
		return false
	}
	c.last[kind] = path
	Info("[INFO] Found %s at %s\n", kind, path)
	return true
}

// Reset forgets every logged path.
func (c *PathCache) Reset() {
	c.mu.Lock()
	c.last = nil
	c.mu.Unlock()
}
