// Package logger provides the minimal logging surface used by the client.
package logger

import (
	"fmt"
	"io"
)

// Logger receives diagnostic messages from the library.
type Logger interface {
	Debugf(format string, args ...any)
}

// Nop discards all messages.
type Nop struct{}

// Debugf discards the message.
func (Nop) Debugf(string, ...any) {}

type writerLogger struct {
	w io.Writer
}

// Debugf writes one formatted line to the configured writer.
func (l writerLogger) Debugf(format string, args ...any) {
	if l.w == nil {
		return
	}
	_, _ = fmt.Fprintf(l.w, format+"\n", args...)
}

// NewWriter builds a Logger that writes one line per message to w.
func NewWriter(w io.Writer) Logger {
	return writerLogger{w: w}
}
