package logger

import (
	"io"

	"github.com/fatih/color" // Colored console output
)

// Colorized printf-style loggers for each level. They write to color.Output
// unless SetOutput redirects them (tests capture output this way).

// Info logs informational messages in green.
var Info func(format string, a ...any)

// Step logs the start of a workflow step in blue.
var Step func(format string, a ...any)

// Warn logs warnings in bright magenta.
var Warn func(format string, a ...any)

// Error logs errors in red.
var Error func(format string, a ...any)

// Debug logs debug messages in cyan when enabled, otherwise it is a no-op.
var Debug = func(format string, a ...any) {}

var (
	out          io.Writer = color.Output
	debugEnabled bool
)

func init() {
	bind()
}

// Init enables or disables debug logging.
func Init(enableDebug bool) {
	debugEnabled = enableDebug
	bind()
}

// SetOutput redirects all levels to w and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	prev := out
	out = w
	bind()
	return prev
}

func bind() {
	Info = fprintf(color.FgGreen)
	Step = fprintf(color.FgBlue)
	Warn = fprintf(color.FgHiMagenta)
	Error = fprintf(color.FgRed)
	if debugEnabled {
		Debug = fprintf(color.FgCyan)
	} else {
		Debug = func(format string, a ...any) {}
	}
}

func fprintf(attr color.Attribute) func(format string, a ...any) {
	c := color.New(attr)
	w := out
	return func(format string, a ...any) {
		_, _ = c.Fprintf(w, format, a...)
	}
}
