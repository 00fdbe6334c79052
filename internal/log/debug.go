// Package log provides file-backed debug logging. Messages written
// before a log file is configured are buffered in memory and flushed
// once SetFile is called, so early startup logging is never lost.
package log

import (
	"log"
	"os"
	"sync"
)

// debugWriter buffers or writes debug output. It implements io.Writer
// so it can sit behind a standard log.Logger.
type debugWriter struct {
	mu      sync.Mutex
	file    *os.File
	pending []byte
	discard bool
}

var (
	writer    = &debugWriter{}
	stdLogger = log.New(writer, "", log.LstdFlags|log.Lmicroseconds)
)

// Write implements io.Writer. Output goes to the configured file, or
// into the pending buffer while no file is set.
func (w *debugWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.discard {
		return len(p), nil
	}

	if w.file != nil {
		n, err := w.file.Write(p)
		// Flush eagerly so a crash does not eat the tail of the log.
		_ = w.file.Sync()
		return n, err
	}

	w.pending = append(w.pending, p...)
	return len(p), nil
}

// SetFile directs debug output to path, creating the file if needed
// and flushing anything buffered so far. An empty path drops buffered
// output and discards all future messages.
func SetFile(path string) error {
	writer.mu.Lock()
	defer writer.mu.Unlock()

	if writer.file != nil {
		_ = writer.file.Close()
		writer.file = nil
	}

	if path == "" {
		writer.discard = true
		writer.pending = nil
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec
	if err != nil {
		writer.discard = true
		writer.pending = nil
		return err
	}

	writer.file = f
	writer.discard = false

	if len(writer.pending) > 0 {
		_, _ = f.Write(writer.pending)
		_ = f.Sync()
		writer.pending = nil
	}

	return nil
}

// Printf writes a formatted debug message.
func Printf(format string, args ...any) {
	stdLogger.Printf(format, args...)
}

// Println writes a debug message.
func Println(v ...any) {
	stdLogger.Println(v...)
}

// Close closes the debug log file if one is open.
func Close() error {
	writer.mu.Lock()
	defer writer.mu.Unlock()

	if writer.file == nil {
		return nil
	}

	err := writer.file.Close()
	writer.file = nil
	return err
}
