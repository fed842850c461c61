package main

import (
	"bufio"
	"io"
	"strings"
)

type streamMode string

const (
	streamInstant streamMode = "instant"
	streamQuiet   streamMode = "quiet"
)

// streamWriter prints token fragments as they arrive. Instant mode flushes
// per token; quiet mode accumulates and prints nothing until Flush.
type streamWriter struct {
	mode streamMode
	out  *bufio.Writer
	acc  strings.Builder
}

func newStreamWriter(mode streamMode, w io.Writer) *streamWriter {
	return &streamWriter{
		mode: mode,
		out:  bufio.NewWriterSize(w, 4096),
	}
}

func (w *streamWriter) Write(fragment string) {
	w.acc.WriteString(fragment)
	if w.mode == streamQuiet {
		return
	}
	_, _ = w.out.WriteString(fragment)
	_ = w.out.Flush()
}

// Flush writes any withheld output and returns the full accumulated text.
func (w *streamWriter) Flush() string {
	if w.mode == streamQuiet {
		_, _ = w.out.WriteString(w.acc.String())
	}
	_ = w.out.Flush()
	return w.acc.String()
}
