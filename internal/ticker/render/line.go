package render

import (
	"bufio"
	"io"
)

const (
	carriageReturn = "\r"
	eraseToEOL     = "\x1b[K"
)

// LineWriter emits one ticker line per pass. With Overwrite set each line
// returns to column 0 and clears the rest, so redraws replace instead of scroll.
type LineWriter struct {
	w         *bufio.Writer
	Overwrite bool
}

func NewLineWriter(w io.Writer, overwrite bool) *LineWriter {
	return &LineWriter{w: bufio.NewWriter(w), Overwrite: overwrite}
}

// WriteLine writes line and flushes immediately.
func (l *LineWriter) WriteLine(line string) error {
	if l.Overwrite {
		l.w.WriteString(carriageReturn)
	}
	l.w.WriteString(line)
	if l.Overwrite {
		l.w.WriteString(eraseToEOL)
	}
	return l.w.Flush()
}
