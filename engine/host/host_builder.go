package host

import (
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/oxy-dissolve/common"
)

// SurfaceHostBuilderOption is a functional option applied during NewSurfaceHost.
type SurfaceHostBuilderOption func(*surfaceHost)

// WithFatalHandler replaces the handler invoked when the GPU device or surface cannot be
// created. The default logs the error and exits with status 1. A replacement that returns
// leaves the host uninitialized; Begin on such a host panics.
//
// Parameters:
//   - fn: the handler receiving the wrapped cause
//
// Returns:
//   - SurfaceHostBuilderOption: option function to apply
func WithFatalHandler(fn func(err error)) SurfaceHostBuilderOption {
	return func(h *surfaceHost) {
		if fn != nil {
			h.fatal = fn
		}
	}
}

// WithLogger sets the logger used by the host instead of the module logger.
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - SurfaceHostBuilderOption: option function to apply
func WithLogger(l *slog.Logger) SurfaceHostBuilderOption {
	return func(h *surfaceHost) {
		h.logger = l
	}
}

// exitOnFatal is the default fatal handler.
func exitOnFatal(err error) {
	common.Logger().Error("unrecoverable GPU failure", "error", err)
	// The module logger is silent by default; the diagnostic must still reach the user.
	os.Stderr.WriteString("fatal: " + err.Error() + "\n")
	os.Exit(1)
}
