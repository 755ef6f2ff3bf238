package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter fans every write out to all of its writers. A failing writer
// does not stop the others; all failures are combined into one error.
type CombinedWriter struct {
	writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{
		writers: append([]io.Writer(nil), writers...),
	}
}

func (cw *CombinedWriter) Len() int {
	return len(cw.writers)
}

// Write reports len(p) only when every writer took the whole buffer,
// otherwise the shortest write among them.
func (cw *CombinedWriter) Write(p []byte) (int, error) {
	n := len(p)
	var err error
	for _, w := range cw.writers {
		written, werr := w.Write(p)
		if werr == nil && written < len(p) {
			werr = io.ErrShortWrite
		}
		if werr != nil {
			err = multierr.Append(err, werr)
			n = min(n, written)
		}
	}
	return n, err
}
