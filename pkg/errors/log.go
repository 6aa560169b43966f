package errors

import (
	"os"

	"github.com/charmbracelet/log"
)

// LogHandler is an ErrorHandler that writes structured log lines to stderr.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool

	// Logger overrides the destination logger. Nil uses the package default.
	Logger *log.Logger
}

func (h *LogHandler) logger() *log.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return defaultLogger
}

var defaultLogger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix: "plotkit",
})

// HandleError logs a PlotError.
func (h *LogHandler) HandleError(err *PlotError) {
	if err == nil {
		return
	}
	if h.Verbose && err.StackTrace != "" {
		h.logger().Error("chart error", "op", err.Op, "kind", err.Kind.String(), "err", err.Err, "stack", err.StackTrace)
		return
	}
	h.logger().Error("chart error", "op", err.Op, "kind", err.Kind.String(), "err", err.Err)
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	if h.Verbose && err.StackTrace != "" {
		h.logger().Error("recovered panic", "op", err.Op, "value", err.Value, "stack", err.StackTrace)
		return
	}
	h.logger().Error("recovered panic", "op", err.Op, "value", err.Value)
}
