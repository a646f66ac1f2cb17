package interp

import "go.uber.org/zap"

// newLogger builds the interpreter's debug logger. Verbose mode (spec
// §6.3's "verbose/debug flags" create option) switches from a no-op logger
// to development-mode zap, which writes human-readable lines instead of
// JSON — appropriate for a sketch interpreter run from a terminal rather
// than a long-lived service shipping logs to an aggregator.
func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
