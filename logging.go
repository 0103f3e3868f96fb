package bury

import (
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

// logger is the package-wide debug logger. It is deliberately narrow:
// call sites log sizes, counts, and booleans, plus the derived offset,
// max stride, and round count from key derivation; never password
// bytes, derived keys, IVs, or plaintext/ciphertext contents.
var (
	loggerMu sync.RWMutex
	logger   = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		Level:           log.WarnLevel,
	})
)

// SetLogger replaces the package-wide logger. Passing nil restores a
// logger that discards everything below warn level. Callers embedding
// bury in a larger service will typically call this once at startup to
// route trace output through their own charmbracelet/log instance.
func SetLogger(l *log.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if l == nil {
		l = log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel})
	}
	logger = l
}

func debugLog(msg string, keyvals ...interface{}) {
	loggerMu.RLock()
	l := logger
	loggerMu.RUnlock()
	l.Debug(msg, keyvals...)
}
