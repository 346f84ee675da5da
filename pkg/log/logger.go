// Package log holds the module-wide zerolog logger. The default logger is
// disabled; embedding applications opt in with SetLogger.
package log

import (
	"io"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	logger = zerolog.New(io.Discard).Level(zerolog.Disabled)
)

// SetLogger replaces the module logger. Loading and prediction never log
// above debug level, so a production logger at info level stays silent.
func SetLogger(l zerolog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// Logger returns the current module logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Stacktrace extracts the stack trace recorded by cockroachdb/errors, for
// attaching to log events alongside the error itself.
func Stacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}
